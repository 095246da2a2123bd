package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/order-inventory-service/internal/inventory/domain"
	"github.com/dmehra2102/order-inventory-service/pkg/apperr"
	"github.com/dmehra2102/order-inventory-service/pkg/respond"
)

// InventoryService is the subset of the inventory application the routes need.
type InventoryService interface {
	Products(ctx context.Context) []domain.Product
	Product(ctx context.Context, id string) (domain.Product, error)
	CheckAvailability(ctx context.Context, items []domain.Item) error
	Reserve(ctx context.Context, items []domain.Item) error
	Restock(ctx context.Context, items []domain.Item) error
}

type Handler struct {
	log     *slog.Logger
	service InventoryService
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service InventoryService) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("inventory-http"),
	}
}

type productsReq struct {
	Products []domain.Item `json:"products"`
}

type quantityReq struct {
	Quantity *int `json:"quantity"`
}

type availabilityResp struct {
	Available bool `json:"available"`
}

type successResp struct {
	Success bool `json:"success"`
}

// Routes serves the inventory API relative to its mount point.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.listProducts)
	r.Patch("/", h.reserveProducts)
	r.Post("/update", h.reserveProducts)
	r.Post("/check-availability", h.checkAvailability)
	r.Post("/restock", h.restockProducts)
	r.Get("/{id}", h.getProduct)
	r.Patch("/{id}", h.reserveProduct)

	return r
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.service.Products(r.Context()))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

func (h *Handler) checkAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CheckAvailability")
	defer span.End()

	req, ok := h.decodeProducts(w, r)
	if !ok {
		return
	}
	if err := h.service.CheckAvailability(ctx, req.Products); err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, availabilityResp{Available: true})
}

func (h *Handler) reserveProducts(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ReserveProducts")
	defer span.End()

	req, ok := h.decodeProducts(w, r)
	if !ok {
		return
	}
	if err := h.service.Reserve(ctx, req.Products); err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, successResp{Success: true})
}

func (h *Handler) reserveProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ReserveProduct")
	defer span.End()

	var req quantityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.log, apperr.Validation("Invalid request body"))
		return
	}
	if req.Quantity == nil {
		respond.Error(w, h.log, apperr.Validation("Quantity is required"))
		return
	}

	items := []domain.Item{{ProductID: chi.URLParam(r, "id"), Quantity: *req.Quantity}}
	if err := h.service.Reserve(ctx, items); err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, successResp{Success: true})
}

func (h *Handler) restockProducts(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RestockProducts")
	defer span.End()

	req, ok := h.decodeProducts(w, r)
	if !ok {
		return
	}
	if err := h.service.Restock(ctx, req.Products); err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, successResp{Success: true})
}

func (h *Handler) decodeProducts(w http.ResponseWriter, r *http.Request) (productsReq, bool) {
	var req productsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "products" {
			respond.Error(w, h.log, apperr.Validation("Products must be an array"))
			return req, false
		}
		respond.Error(w, h.log, apperr.Validation("Invalid request body"))
		return req, false
	}
	return req, true
}
