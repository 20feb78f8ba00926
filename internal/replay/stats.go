package replay

// PlayerStats are match-long counters; they never reset at round boundaries.
type PlayerStats struct {
	Kills     int
	Deaths    int
	Assists   int
	Headshots int
}

// StatsAccumulator keeps running kill/death/assist counters per participant.
type StatsAccumulator struct {
	byPlayer map[uint64]*PlayerStats
}

// NewStatsAccumulator creates an empty accumulator.
func NewStatsAccumulator() *StatsAccumulator {
	return &StatsAccumulator{byPlayer: make(map[uint64]*PlayerStats)}
}

// RecordKill updates counters for every actor that is present.
func (s *StatsAccumulator) RecordKill(killer, victim, assister *Actor, headshot bool) {
	if killer != nil {
		ks := s.entry(killer.ID)
		ks.Kills++
		if headshot {
			ks.Headshots++
		}
	}
	if victim != nil {
		s.entry(victim.ID).Deaths++
	}
	if assister != nil {
		s.entry(assister.ID).Assists++
	}
}

// Get returns the counters for id, zero if the participant has none yet.
func (s *StatsAccumulator) Get(id uint64) PlayerStats {
	if ps, ok := s.byPlayer[id]; ok {
		return *ps
	}
	return PlayerStats{}
}

func (s *StatsAccumulator) entry(id uint64) *PlayerStats {
	ps, ok := s.byPlayer[id]
	if !ok {
		ps = &PlayerStats{}
		s.byPlayer[id] = ps
	}
	return ps
}
