package replay

import "testing"

func TestScoreLedgerHidesPreMatchScores(t *testing.T) {
	var l ScoreLedger
	if ct, tt := l.RoundEnd(3, 1); ct != 0 || tt != 0 {
		t.Fatalf("pre-match scores = %d-%d, want 0-0", ct, tt)
	}
	if !l.ConfirmMatchStart(1, 0) {
		t.Fatalf("first confirmation rejected")
	}
	if l.ConfirmMatchStart(5, 5) {
		t.Fatalf("second confirmation accepted")
	}
	if ct, tt := l.RoundEnd(2, 3); ct != 1 || tt != 3 {
		t.Fatalf("scores = %d-%d, want 1-3", ct, tt)
	}
}

func TestRoundTrackerScenario(t *testing.T) {
	b := newTestBuilder(t)
	gs := &fakeState{tick: 200, participants: []Participant{player(1, "a", TeamCT), player(2, "b", TeamT)}}

	b.RoundStart(gs) // warmup, ignored
	b.RoundEnd(0, 1, TeamT)

	gs.tick, gs.started = 1000, true
	b.RoundStart(gs)
	b.RoundFreezeEnd(1100)
	b.RoundEnd(1, 0, TeamCT)

	doc, err := b.Finalize(Metadata{MapName: "de_inferno", TickRate: 64})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(doc.Rounds) != 1 {
		t.Fatalf("rounds = %d, want 1", len(doc.Rounds))
	}
	want := Round{Number: 1, Tick: 1000, CTScore: 1, TScore: 0, WinningTeam: "CT", FreezeTimeTick: 1100}
	if doc.Rounds[0] != want {
		t.Fatalf("round = %+v, want %+v", doc.Rounds[0], want)
	}
	if doc.MatchStartTick != 1000 {
		t.Fatalf("match start = %d, want 1000", doc.MatchStartTick)
	}
	if doc.CTScore != 1 || doc.TScore != 0 {
		t.Fatalf("final = %d-%d, want 1-0", doc.CTScore, doc.TScore)
	}
}

func TestRoundsAreSequentialAndBaselined(t *testing.T) {
	b := newTestBuilder(t)
	// knife round already won by T before the match went live
	gs := &fakeState{started: true, t: 1}

	raw := [][2]int{{1, 1}, {1, 2}, {2, 2}}
	for i, r := range raw {
		gs.tick = 1000 * (i + 1)
		b.RoundStart(gs)
		b.RoundEnd(r[0], r[1], TeamCT)
	}

	doc, _ := b.Finalize(Metadata{})
	prevTotal := -1
	for i, r := range doc.Rounds {
		if r.Number != i+1 {
			t.Fatalf("round %d has number %d", i, r.Number)
		}
		total := r.CTScore + r.TScore
		if total < prevTotal {
			t.Fatalf("score total decreased at round %d", r.Number)
		}
		prevTotal = total
	}
	if doc.Rounds[0].CTScore != 1 || doc.Rounds[0].TScore != 0 {
		t.Fatalf("first round = %d-%d, want 1-0", doc.Rounds[0].CTScore, doc.Rounds[0].TScore)
	}
}

func TestRoundEventsWithoutRoundAreNoops(t *testing.T) {
	b := newTestBuilder(t)
	b.RoundFreezeEnd(10)
	b.RoundEnd(1, 0, TeamCT)

	doc, _ := b.Finalize(Metadata{})
	if len(doc.Rounds) != 0 {
		t.Fatalf("rounds = %d, want 0", len(doc.Rounds))
	}
	if doc.MatchStartTick != -1 {
		t.Fatalf("match start = %d, want -1", doc.MatchStartTick)
	}
}

func TestRosterBuiltOnFirstLiveRound(t *testing.T) {
	b := newTestBuilder(t)
	gs := &fakeState{started: true, participants: []Participant{player(1, "x", TeamCT), player(2, "y", TeamT)}}
	b.RoundStart(gs)

	gs.participants = []Participant{player(1, "x", TeamT), player(2, "y", TeamCT)}
	b.RoundStart(gs)

	if b.Slot(1) != 1 || b.Slot(2) != 6 {
		t.Fatalf("slots = %d,%d, want 1,6", b.Slot(1), b.Slot(2))
	}
}
