package replay

// FrameSampler downsamples the raw tick stream into frames, emitting one
// every skip ticks and accumulating weapon fire in between.
type FrameSampler struct {
	skip    int
	counter int
	roster  *Roster
	stats   *StatsAccumulator
	effects *EffectRegistry
	fires   []WeaponFire
	frames  []Frame
}

// NewFrameSampler creates a sampler reading slots, counters and effects from the given components.
func NewFrameSampler(skip int, roster *Roster, stats *StatsAccumulator, effects *EffectRegistry) *FrameSampler {
	return &FrameSampler{
		skip:    skip,
		roster:  roster,
		stats:   stats,
		effects: effects,
		fires:   make([]WeaponFire, 0),
		frames:  make([]Frame, 0),
	}
}

// RecordFire logs a shot for the current window.
func (s *FrameSampler) RecordFire(f WeaponFire) {
	s.fires = append(s.fires, f)
}

// Tick advances the raw tick counter and emits a frame on every skip-th call.
// It reports whether a frame was emitted.
func (s *FrameSampler) Tick(state GameState, bombPlanted bool) bool {
	s.counter++
	if s.counter%s.skip != 0 {
		return false
	}

	tick := state.Tick()
	participants := state.Participants()
	players := make([]Player, 0, len(participants))
	for _, p := range participants {
		players = append(players, s.snapshot(p))
	}

	inFlight := state.Projectiles()
	projectiles := make([]Projectile, 0, len(inFlight))
	for _, pr := range inFlight {
		projectiles = append(projectiles, Projectile{
			ID:   pr.ID,
			Type: pr.Type,
			X:    pr.Position.X,
			Y:    pr.Position.Y,
			Z:    pr.Position.Z,
		})
	}

	bs := state.Bomb()
	s.frames = append(s.frames, Frame{
		Tick:        tick,
		Players:     players,
		Grenades:    s.effects.SampleVisible(tick),
		Projectiles: projectiles,
		Fires:       s.fires,
		Bomb: Bomb{
			X:         bs.Position.X,
			Y:         bs.Position.Y,
			Z:         bs.Position.Z,
			IsPlanted: bombPlanted,
			CarrierID: bs.CarrierID,
		},
	})

	s.fires = make([]WeaponFire, 0)
	s.effects.ClearPending()
	return true
}

// Frames returns the emitted frames in order.
func (s *FrameSampler) Frames() []Frame {
	return s.frames
}

func (s *FrameSampler) snapshot(p Participant) Player {
	st := s.stats.Get(p.ID)
	weapons := p.Weapons
	if weapons == nil {
		weapons = make([]Weapon, 0)
	}
	return Player{
		ID:           p.ID,
		Name:         p.Name,
		Team:         p.Team.Label(),
		IsAlive:      p.Alive,
		X:            p.Position.X,
		Y:            p.Position.Y,
		Z:            p.Position.Z,
		Rotation:     p.Yaw,
		Hp:           p.Health,
		Money:        p.Money,
		Armor:        p.Armor,
		HasHelmet:    p.HasHelmet,
		HasDefuseKit: p.HasDefuseKit,
		HasBomb:      p.HasBomb,
		ActiveWeapon: p.ActiveWeapon,
		Weapons:      weapons,
		Kills:        st.Kills,
		Deaths:       st.Deaths,
		Assists:      st.Assists,
		HS:           st.Headshots,
		IsFlashed:    p.Blinded,
		FlashMs:      int(p.FlashRemaining.Milliseconds()),
		RosterIndex:  s.roster.Slot(p.ID),
	}
}
