package replay

import "testing"

func TestRosterAssignsSidesSortedByName(t *testing.T) {
	r := NewRoster()
	r.Assign([]Participant{
		player(10, "zeta", TeamCT),
		player(11, "alpha", TeamCT),
		player(20, "mike", TeamT),
		player(21, "bravo", TeamT),
		player(30, "caster", TeamSpectator),
	})

	want := map[uint64]int{11: 1, 10: 2, 21: 6, 20: 7, 30: 0}
	for id, slot := range want {
		if got := r.Slot(id); got != slot {
			t.Fatalf("Slot(%d) = %d, want %d", id, got, slot)
		}
	}
	if r.State() != RosterBuilt {
		t.Fatalf("state = %v, want RosterBuilt", r.State())
	}
}

func TestRosterAssignRunsOnce(t *testing.T) {
	r := NewRoster()
	r.Assign([]Participant{player(1, "b", TeamCT), player(2, "a", TeamT)})
	r.Assign([]Participant{player(1, "b", TeamT), player(2, "a", TeamCT), player(3, "c", TeamCT)})

	if got := r.Slot(1); got != 1 {
		t.Fatalf("Slot(1) = %d, want 1", got)
	}
	if got := r.Slot(2); got != 6 {
		t.Fatalf("Slot(2) = %d, want 6", got)
	}
	if got := r.Slot(3); got != 0 {
		t.Fatalf("Slot(3) = %d, want 0 for a late joiner", got)
	}
}

func TestRosterDuplicateNamesKeepInputOrder(t *testing.T) {
	r := NewRoster()
	r.Assign([]Participant{player(7, "same", TeamT), player(5, "same", TeamT)})

	if r.Slot(7) != 6 || r.Slot(5) != 7 {
		t.Fatalf("slots = %d,%d, want 6,7", r.Slot(7), r.Slot(5))
	}
}

func TestRosterOverflowStaysInRange(t *testing.T) {
	var ps []Participant
	names := []string{"a", "b", "c", "d", "e", "f"}
	for i, n := range names {
		ps = append(ps, player(uint64(i+1), n, TeamCT))
	}
	r := NewRoster()
	r.Assign(ps)

	for i := range names {
		slot := r.Slot(uint64(i + 1))
		if i < 5 && (slot < 1 || slot > 5) {
			t.Fatalf("CT slot %d out of range", slot)
		}
		if i == 5 && slot != 0 {
			t.Fatalf("sixth CT slot = %d, want 0", slot)
		}
	}
}
