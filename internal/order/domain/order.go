package domain

import (
	"maps"
	"time"

	"github.com/google/uuid"

	invdomain "github.com/dmehra2102/order-inventory-service/internal/inventory/domain"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusProcessed OrderStatus = "processed"
	StatusCancelled OrderStatus = "cancelled"
)

// Terminal reports whether no further mutation is allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusProcessed || s == StatusCancelled
}

type Order struct {
	ID           uuid.UUID        `json:"id"`
	CustomerInfo map[string]any   `json:"customerInfo"`
	Products     []invdomain.Item `json:"products"`
	Status       OrderStatus      `json:"status"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    *time.Time       `json:"updatedAt,omitempty"`
}

// Clone returns a copy sharing no maps or slices with o. CustomerInfo is
// copied one level deep, matching how updates merge it.
func (o Order) Clone() Order {
	out := o
	if o.CustomerInfo != nil {
		out.CustomerInfo = maps.Clone(o.CustomerInfo)
	}
	out.Products = invdomain.CloneItems(o.Products)
	if o.UpdatedAt != nil {
		t := *o.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

// Updates lists the fields a pending order accepts. Zero values mean "unchanged".
type Updates struct {
	CustomerInfo map[string]any
	Products     []invdomain.Item
	Status       OrderStatus
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type Page struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}
