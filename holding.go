package tracker

import "time"

// Holding is a stock or crypto position inside an investment account,
// tracked as an ordered collection of purchase lots.
type Holding struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name,omitempty"`
	LastPrice Money     `json:"lastPrice"`
	UpdatedAt time.Time `json:"updatedAt"`
	Lots      []Lot     `json:"lots"`
}

// Lot is a discrete purchase batch. It is immutable once created, except
// for the quantity reduction applied by a disposal. Price is the unit
// purchase price.
type Lot struct {
	Quantity Quantity `json:"quantity"`
	Price    Money    `json:"price"`
	Date     Date     `json:"date"`
	Notes    string   `json:"notes,omitempty"`
}

// Cost returns the total cost of the lot, quantity times unit price.
func (l Lot) Cost() Money { return l.Price.Mul(l.Quantity) }

// TotalQuantity sums the quantities of all lots.
func (h *Holding) TotalQuantity() Quantity {
	var total Quantity
	for _, l := range h.Lots {
		total = total.Add(l.Quantity)
	}
	return total
}

// CostBasis sums the cost of all remaining lots.
func (h *Holding) CostBasis() Money {
	var total Money
	for _, l := range h.Lots {
		total = total.Add(l.Cost())
	}
	return total
}

// MarketValue values the position at the last known price.
func (h *Holding) MarketValue() Money {
	return h.LastPrice.Mul(h.TotalQuantity())
}
