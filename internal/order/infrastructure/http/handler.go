package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	invdomain "github.com/dmehra2102/order-inventory-service/internal/inventory/domain"
	"github.com/dmehra2102/order-inventory-service/internal/order/application"
	"github.com/dmehra2102/order-inventory-service/internal/order/domain"
	"github.com/dmehra2102/order-inventory-service/pkg/apperr"
	"github.com/dmehra2102/order-inventory-service/pkg/respond"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, customerInfo map[string]any, products []invdomain.Item) (domain.Order, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	ListOrders(ctx context.Context, page, limit int, status string) (domain.Page, error)
	CancelOrder(ctx context.Context, id string) error
	ProcessNext(ctx context.Context) (domain.Order, error)
	UpdateOrder(ctx context.Context, id string, u domain.Updates) (domain.Order, error)
}

type Handler struct {
	log     *slog.Logger
	service OrderService
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service OrderService) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("order-http"),
	}
}

type createOrderReq struct {
	CustomerInfo map[string]any   `json:"customerInfo"`
	Products     []invdomain.Item `json:"products"`
}

type updateOrderReq struct {
	CustomerInfo map[string]any    `json:"customerInfo"`
	Products     *[]invdomain.Item `json:"products"`
	Status       string            `json:"status"`
}

type messageResp struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order,omitempty"`
}

// Routes serves the order API relative to its mount point.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.createOrder)
	r.Get("/", h.listOrders)
	r.Post("/process-next", h.processNext)
	r.Get("/{id}", h.getOrder)
	r.Delete("/{id}", h.cancelOrder)
	r.Patch("/{id}", h.updateOrder)

	return r
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateOrder")
	defer span.End()

	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.log, apperr.Validation("Invalid order data"))
		return
	}

	o, err := h.service.PlaceOrder(ctx, req.CustomerInfo, req.Products)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	span.SetAttributes(attribute.String("order.id", o.ID.String()))
	respond.JSON(w, http.StatusCreated, o)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := queryInt(q.Get("page"), application.DefaultPage)
	limit := queryInt(q.Get("limit"), application.DefaultLimit)

	res, err := h.service.ListOrders(r.Context(), page, limit, q.Get("status"))
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, o)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CancelOrder")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("order.id", id))
	if err := h.service.CancelOrder(ctx, id); err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, messageResp{Message: "Order cancelled successfully"})
}

func (h *Handler) processNext(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ProcessNextOrder")
	defer span.End()

	o, err := h.service.ProcessNext(ctx)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, messageResp{Message: "Order processed successfully", Order: &o})
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateOrder")
	defer span.End()

	var req updateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "products" {
			respond.Error(w, h.log, apperr.Validation("Invalid products data"))
			return
		}
		respond.Error(w, h.log, apperr.Validation("Invalid request body"))
		return
	}

	u := domain.Updates{
		CustomerInfo: req.CustomerInfo,
		Status:       domain.OrderStatus(req.Status),
	}
	if req.Products != nil {
		u.Products = *req.Products
	}

	o, err := h.service.UpdateOrder(ctx, chi.URLParam(r, "id"), u)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, o)
}

// queryInt falls back to def for missing, malformed or zero values.
// Negative values pass through so the service can reject them.
func queryInt(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n == 0 {
		return def
	}
	return n
}
