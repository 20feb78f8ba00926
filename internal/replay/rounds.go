package replay

// RoundTracker keeps the ordered round ledger. Rounds signalled before the
// match is live are never recorded, which filters warmup and knife rounds.
type RoundTracker struct {
	ledger         *ScoreLedger
	roster         *Roster
	rounds         []Round
	matchStartTick int
}

// NewRoundTracker creates a tracker that confirms the match on ledger and
// builds roster on the first live round.
func NewRoundTracker(ledger *ScoreLedger, roster *Roster) *RoundTracker {
	return &RoundTracker{
		ledger:         ledger,
		roster:         roster,
		rounds:         make([]Round, 0),
		matchStartTick: -1,
	}
}

// Start handles a round-start signal. It returns false when the signal was ignored.
func (rt *RoundTracker) Start(state GameState) bool {
	if !state.MatchStarted() {
		return false
	}

	tick := state.Tick()
	if !rt.ledger.Confirmed() {
		rawCT, rawT := state.Scores()
		rt.ledger.ConfirmMatchStart(rawCT, rawT)
		rt.matchStartTick = tick
		rt.roster.Assign(state.Participants())
	}

	rt.rounds = append(rt.rounds, Round{
		Number: len(rt.rounds) + 1,
		Tick:   tick,
	})
	return true
}

// FreezeEnd back-fills the freeze-time end tick of the latest round.
func (rt *RoundTracker) FreezeEnd(tick int) {
	if r := rt.current(); r != nil {
		r.FreezeTimeTick = tick
	}
}

// End back-fills scores and winner of the latest round.
func (rt *RoundTracker) End(rawCT, rawT int, winner Team) {
	ct, t := rt.ledger.RoundEnd(rawCT, rawT)

	r := rt.current()
	if r == nil {
		return
	}
	r.CTScore = ct
	r.TScore = t
	r.WinningTeam = winnerLabel(winner)
}

// Rounds returns the ledger in creation order.
func (rt *RoundTracker) Rounds() []Round {
	return rt.rounds
}

// MatchStartTick returns the tick of the first live round, or -1.
func (rt *RoundTracker) MatchStartTick() int {
	return rt.matchStartTick
}

func (rt *RoundTracker) current() *Round {
	if len(rt.rounds) == 0 {
		return nil
	}
	return &rt.rounds[len(rt.rounds)-1]
}

func winnerLabel(t Team) string {
	switch t {
	case TeamCT, TeamT:
		return t.Label()
	default:
		return ""
	}
}
