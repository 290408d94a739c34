package shared

import (
	"slices"
	"testing"
)

var testSeats = []string{"n", "e", "s", "w", "nw"}

func TestNewCamp(t *testing.T) {
	c := NewCamp(testSeats, "e", "n")
	if c.Alone() {
		t.Error("taker has a partner")
	}
	if !slices.Equal(c.Attackers, []string{"n", "e"}) {
		t.Errorf("attackers = %v", c.Attackers)
	}
	if !slices.Equal(c.Defenders, []string{"s", "w", "nw"}) {
		t.Errorf("defenders = %v", c.Defenders)
	}
	if c.SideOf("w") != Defence || c.SideOf("n") != Attack {
		t.Error("SideOf is wrong")
	}
	if !slices.Equal(c.Members(Defence), c.Defenders) {
		t.Error("Members(Defence) is wrong")
	}
}

func TestNewCampAlone(t *testing.T) {
	c := NewCamp(testSeats, "s", "s")
	if !c.Alone() {
		t.Error("taker should be alone")
	}
	if len(c.Attackers) != 1 || len(c.Defenders) != 4 {
		t.Errorf("camp = %+v", c)
	}
}

func TestPlayerSnapshots(t *testing.T) {
	p := NewPlayer("n", NewHand(Suited(Hearts, 1), Suited(Hearts, 2), Trump(5)))
	dog := []Card{Trump(9), Suited(Clubs, King)}
	after := p.AfterDog(dog, []Card{Suited(Hearts, 1), Suited(Hearts, 2)})
	if after.Current.Len() != 3 || !after.Current.Contains(Trump(9)) {
		t.Fatalf("current after dog = %v", after.Current.Cards())
	}
	if p.Current.Len() != 3 || p.Current.Contains(Trump(9)) {
		t.Fatal("AfterDog modified the original snapshot")
	}
	if after.HeldAtDeal(Trump(9)) || !after.HeldAtDeal(Suited(Hearts, 1)) {
		t.Error("HeldAtDeal should use the dealt hand")
	}

	played, ok := after.AfterPlay(Trump(9))
	if !ok || played.Current.Contains(Trump(9)) {
		t.Fatal("AfterPlay did not remove the card")
	}
	if _, ok := played.AfterPlay(Trump(9)); ok {
		t.Fatal("playing a card twice should fail")
	}
}
