package domain

const (
	EventStockReserved  = "StockReserved"
	EventStockRestocked = "StockRestocked"
	EventStockExchanged = "StockExchanged"
)

type StockReserved struct {
	Items []Item
}

type StockRestocked struct {
	Items []Item
}

type StockExchanged struct {
	Released []Item
	Reserved []Item
}
