package replay

// ScoreLedger reports scores relative to the moment the match went live,
// hiding warmup and knife-round results.
type ScoreLedger struct {
	confirmed bool
	baseCT    int
	baseT     int
	ct        int
	t         int
}

// ConfirmMatchStart freezes the baseline. It returns false if the match was already confirmed,
// in which case the baseline is left untouched.
func (l *ScoreLedger) ConfirmMatchStart(rawCT, rawT int) bool {
	if l.confirmed {
		return false
	}
	l.confirmed = true
	l.baseCT = rawCT
	l.baseT = rawT
	l.ct = 0
	l.t = 0
	return true
}

// Confirmed reports whether the baseline has been captured.
func (l *ScoreLedger) Confirmed() bool {
	return l.confirmed
}

// RoundEnd converts raw team scores into visible scores.
// Before confirmation the visible scores stay at zero.
func (l *ScoreLedger) RoundEnd(rawCT, rawT int) (ct, t int) {
	if l.confirmed {
		l.ct = rawCT - l.baseCT
		l.t = rawT - l.baseT
	}
	return l.ct, l.t
}

// Scores returns the latest visible scores.
func (l *ScoreLedger) Scores() (ct, t int) {
	return l.ct, l.t
}
