package tracker

import (
	"fmt"
	"sort"
)

// disposeLots reduces a lot list by a quantity to dispose of, using the
// FIFO method: lots are consumed oldest purchase date first, ties broken
// by original insertion order. It returns the remaining lots and the
// consumed portions (with their original purchase prices and dates, for
// cost basis reporting).
//
// The input list is never mutated: on ErrInsufficientQuantity the caller's
// lots are untouched.
func disposeLots(l []Lot, quantityToDispose Quantity) (remaining, consumed []Lot, err error) {
	if !quantityToDispose.IsPositive() {
		return nil, nil, fmt.Errorf("%w: disposal quantity must be positive", ErrValidation)
	}

	ordered := make([]Lot, len(l))
	copy(ordered, l)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	var total Quantity
	for _, lot := range ordered {
		total = total.Add(lot.Quantity)
	}
	if quantityToDispose.GreaterThan(total) {
		return nil, nil, fmt.Errorf("%w: cannot dispose of %s, only %s held",
			ErrInsufficientQuantity, quantityToDispose, total)
	}

	left := quantityToDispose
	for _, lot := range ordered {
		if left.IsZero() {
			remaining = append(remaining, lot)
			continue
		}
		if lot.Quantity.GreaterThan(left) {
			// Partial consumption of this lot.
			sold := lot
			sold.Quantity = left
			consumed = append(consumed, sold)

			lot.Quantity = lot.Quantity.Sub(left)
			remaining = append(remaining, lot)
			left = Q(0)
		} else {
			// Full consumption of this lot; it is dropped from the list.
			left = left.Sub(lot.Quantity)
			consumed = append(consumed, lot)
		}
	}
	return remaining, consumed, nil
}

// fifoCostOfDisposal returns the cost basis of disposing a quantity using
// FIFO, without mutating the lot list.
func fifoCostOfDisposal(l []Lot, quantity Quantity) (Money, error) {
	_, consumed, err := disposeLots(l, quantity)
	if err != nil {
		return Money{}, err
	}
	var cost Money
	for _, lot := range consumed {
		cost = cost.Add(lot.Cost())
	}
	return cost, nil
}
