package shared

import (
	"slices"
	"testing"
)

func TestBidOrdering(t *testing.T) {
	for i, lower := range Bids {
		for _, higher := range Bids[i+1:] {
			if !higher.Beats(lower) {
				t.Errorf("%s should beat %s", higher, lower)
			}
			if lower.Beats(higher) {
				t.Errorf("%s should not beat %s", lower, higher)
			}
		}
		if lower.Beats(lower) {
			t.Errorf("%s should not beat itself", lower)
		}
	}
}

func TestBidValues(t *testing.T) {
	want := map[Bid]int{Small: 10, Push: 20, Guard: 40, GuardWithout: 80, GuardAgainst: 160}
	for b, v := range want {
		if got := b.BaseValue(); got != v {
			t.Errorf("%s.BaseValue() = %d, want %d", b, got, v)
		}
	}
}

func TestBidCanSeeDog(t *testing.T) {
	for _, b := range []Bid{Small, Push, Guard} {
		if !b.CanSeeDog() {
			t.Errorf("%s should see the dog", b)
		}
	}
	for _, b := range []Bid{GuardWithout, GuardAgainst} {
		if b.CanSeeDog() {
			t.Errorf("%s should not see the dog", b)
		}
	}
}

func TestBidsAbove(t *testing.T) {
	if got := BidsAbove("", false); !slices.Equal(got, Bids) {
		t.Errorf("BidsAbove(none) = %v, want %v", got, Bids)
	}
	if got := BidsAbove(Guard, true); !slices.Equal(got, []Bid{GuardWithout, GuardAgainst}) {
		t.Errorf("BidsAbove(guard) = %v", got)
	}
	if got := BidsAbove(GuardAgainst, true); len(got) != 0 {
		t.Errorf("BidsAbove(guard_against) = %v, want none", got)
	}
}

func TestBidValid(t *testing.T) {
	if Bid("double").Valid() {
		t.Error("unknown bid reported valid")
	}
	if !Push.Valid() {
		t.Error("push reported invalid")
	}
}
