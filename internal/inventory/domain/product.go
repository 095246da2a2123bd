package domain

import (
	"encoding/json"
)

type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Item is one line of a reservation or restock request.
type Item struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// UnmarshalJSON accepts "id" as an alias for "productId".
func (i *Item) UnmarshalJSON(data []byte) error {
	var raw struct {
		ProductID string `json:"productId"`
		ID        string `json:"id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	i.ProductID = raw.ProductID
	if i.ProductID == "" {
		i.ProductID = raw.ID
	}
	i.Quantity = raw.Quantity
	return nil
}

// CloneItems returns a copy that shares no backing array with items.
func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// DefaultCatalog is the seed list used when no catalog source is configured.
func DefaultCatalog() []Product {
	return []Product{
		{ID: "P1", Name: "Laptop", Quantity: 10, Price: 999.99},
		{ID: "P2", Name: "Smartphone", Quantity: 20, Price: 599.99},
		{ID: "P3", Name: "Headphones", Quantity: 50, Price: 99.99},
		{ID: "P4", Name: "Tablet", Quantity: 15, Price: 399.99},
		{ID: "P5", Name: "Smartwatch", Quantity: 30, Price: 199.99},
	}
}
