package replay

import "sort"

// RosterState tracks whether stable slots have been handed out yet.
type RosterState int

const (
	RosterUnbuilt RosterState = iota
	RosterBuilt
)

const (
	teamSize    = 5
	firstCTSlot = 1
	firstTSlot  = 6
)

// Roster maps participant ids to display slots 1..10.
// CT players get 1-5 and T players 6-10, each side ordered by name.
type Roster struct {
	state RosterState
	slots map[uint64]int
}

// NewRoster creates an unbuilt roster.
func NewRoster() *Roster {
	return &Roster{slots: make(map[uint64]int)}
}

// State reports whether Assign has already run.
func (r *Roster) State() RosterState {
	return r.state
}

// Assign numbers the given participants. Only the first call has an effect.
// Spectators and unassigned participants are skipped.
func (r *Roster) Assign(participants []Participant) {
	if r.state == RosterBuilt {
		return
	}

	var ct, t []Participant
	for _, p := range participants {
		switch p.Team {
		case TeamCT:
			ct = append(ct, p)
		case TeamT:
			t = append(t, p)
		}
	}

	r.assignSide(ct, firstCTSlot)
	r.assignSide(t, firstTSlot)
	r.state = RosterBuilt
}

func (r *Roster) assignSide(side []Participant, first int) {
	sort.SliceStable(side, func(i, j int) bool {
		return side[i].Name < side[j].Name
	})
	for i, p := range side {
		// overflow members stay unassigned so the two ranges never overlap
		if i >= teamSize {
			return
		}
		r.slots[p.ID] = first + i
	}
}

// Slot returns the participant's slot, or 0 when none was assigned.
func (r *Roster) Slot(id uint64) int {
	return r.slots[id]
}
