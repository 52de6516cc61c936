package tracker

import (
	"errors"
	"testing"
	"time"
)

func lot(q, price float64, d Date) Lot {
	return Lot{Quantity: Q(q), Price: USD(price), Date: d}
}

func TestDisposeLots_OldestFirst(t *testing.T) {
	jan := NewDate(2025, time.January, 10)
	feb := NewDate(2025, time.February, 10)
	mar := NewDate(2025, time.March, 10)

	lots := []Lot{lot(10, 100, feb), lot(10, 90, jan), lot(10, 110, mar)}

	remaining, consumed, err := disposeLots(lots, Q(15))
	if err != nil {
		t.Fatalf("disposeLots() error = %v", err)
	}
	if len(consumed) != 2 {
		t.Fatalf("len(consumed) = %d, want 2", len(consumed))
	}
	// The January lot goes first, then half of the February lot.
	if !consumed[0].Quantity.Equal(Q(10)) || !consumed[0].Price.Equal(USD(90)) {
		t.Errorf("consumed[0] = %v %v, want 10 at 90", consumed[0].Quantity, consumed[0].Price)
	}
	if !consumed[1].Quantity.Equal(Q(5)) || !consumed[1].Price.Equal(USD(100)) {
		t.Errorf("consumed[1] = %v %v, want 5 at 100", consumed[1].Quantity, consumed[1].Price)
	}

	if len(remaining) != 2 {
		t.Fatalf("len(remaining) = %d, want 2", len(remaining))
	}
	if !remaining[0].Quantity.Equal(Q(5)) || !remaining[0].Price.Equal(USD(100)) {
		t.Errorf("remaining[0] = %v %v, want 5 at 100", remaining[0].Quantity, remaining[0].Price)
	}
	if !remaining[1].Quantity.Equal(Q(10)) || !remaining[1].Price.Equal(USD(110)) {
		t.Errorf("remaining[1] = %v %v, want 10 at 110", remaining[1].Quantity, remaining[1].Price)
	}
}

func TestDisposeLots_ExactLotBoundary(t *testing.T) {
	jan := NewDate(2025, time.January, 10)
	feb := NewDate(2025, time.February, 10)
	lots := []Lot{lot(10, 90, jan), lot(10, 100, feb)}

	remaining, consumed, err := disposeLots(lots, Q(10))
	if err != nil {
		t.Fatalf("disposeLots() error = %v", err)
	}
	if len(consumed) != 1 || !consumed[0].Quantity.Equal(Q(10)) {
		t.Fatalf("consumed = %v, want the whole January lot", consumed)
	}
	if len(remaining) != 1 || !remaining[0].Price.Equal(USD(100)) {
		t.Fatalf("remaining = %v, want the February lot untouched", remaining)
	}
}

func TestDisposeLots_AllShares(t *testing.T) {
	jan := NewDate(2025, time.January, 10)
	lots := []Lot{lot(10, 90, jan)}

	remaining, consumed, err := disposeLots(lots, Q(10))
	if err != nil {
		t.Fatalf("disposeLots() error = %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("len(remaining) = %d, want 0", len(remaining))
	}
	if len(consumed) != 1 {
		t.Errorf("len(consumed) = %d, want 1", len(consumed))
	}
}

func TestDisposeLots_Insufficient(t *testing.T) {
	jan := NewDate(2025, time.January, 10)
	lots := []Lot{lot(10, 90, jan), lot(5, 100, jan.Add(30))}

	_, _, err := disposeLots(lots, Q(16))
	if !errors.Is(err, ErrInsufficientQuantity) {
		t.Fatalf("disposeLots() error = %v, want ErrInsufficientQuantity", err)
	}
	// Input must not be mutated on failure.
	if !lots[0].Quantity.Equal(Q(10)) || !lots[1].Quantity.Equal(Q(5)) {
		t.Errorf("input lots mutated on failure: %v", lots)
	}
}

func TestDisposeLots_NonPositiveQuantity(t *testing.T) {
	jan := NewDate(2025, time.January, 10)
	lots := []Lot{lot(10, 90, jan)}

	for _, q := range []Quantity{Q(0), Q(-1)} {
		if _, _, err := disposeLots(lots, q); !errors.Is(err, ErrValidation) {
			t.Errorf("disposeLots(%v) error = %v, want ErrValidation", q, err)
		}
	}
}

func TestFifoCostOfDisposal(t *testing.T) {
	jan := NewDate(2025, time.January, 10)
	feb := NewDate(2025, time.February, 10)
	lots := []Lot{lot(10, 90, jan), lot(10, 100, feb)}

	cost, err := fifoCostOfDisposal(lots, Q(15))
	if err != nil {
		t.Fatalf("fifoCostOfDisposal() error = %v", err)
	}
	// 10 at 90 plus 5 at 100.
	if !cost.Equal(USD(1400)) {
		t.Errorf("cost = %v, want 1400 USD", cost)
	}
}
