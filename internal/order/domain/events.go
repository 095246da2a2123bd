package domain

import (
	invdomain "github.com/dmehra2102/order-inventory-service/internal/inventory/domain"
)

const (
	EventOrderCreated   = "OrderCreated"
	EventOrderUpdated   = "OrderUpdated"
	EventOrderCancelled = "OrderCancelled"
	EventOrderProcessed = "OrderProcessed"
)

type OrderCreated struct {
	OrderID  string
	Products []invdomain.Item
}

type OrderUpdated struct {
	OrderID  string
	Status   OrderStatus
	Products []invdomain.Item
}

type OrderCancelled struct {
	OrderID  string
	Released []invdomain.Item
}

type OrderProcessed struct {
	OrderID string
}
