// Package replay turns a chronological stream of match events and per-tick
// state into a frame-sampled replay document.
//
// A Builder owns all cross-event state for one document. Handlers must be
// called in stream order from a single goroutine; Frame must only be called
// once every event of that raw tick has been applied.
package replay

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r3"
)

const (
	DefaultTickSkip = 4
	DefaultTickRate = 64.0
)

var ErrInvalidTickSkip = errors.New("replay: tick skip must be positive")

// Config controls sampling of a Builder.
type Config struct {
	// TickSkip is the downsample factor: one frame per TickSkip raw ticks.
	TickSkip int
	// TickRate is the native tick rate used for effect lifetimes until the
	// decoder reports one via SetTickRate. Zero means DefaultTickRate.
	TickRate float64
}

// Builder aggregates one match into a Document.
type Builder struct {
	skip        int
	durations   Durations
	roster      *Roster
	ledger      *ScoreLedger
	rounds      *RoundTracker
	effects     *EffectRegistry
	stats       *StatsAccumulator
	sampler     *FrameSampler
	kills       []Kill
	bombPlanted bool
	finalized   bool
}

// NewBuilder creates a Builder for a single match.
func NewBuilder(cfg Config) (*Builder, error) {
	if cfg.TickSkip <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTickSkip, cfg.TickSkip)
	}

	roster := NewRoster()
	ledger := &ScoreLedger{}
	effects := NewEffectRegistry()
	stats := NewStatsAccumulator()

	return &Builder{
		skip:      cfg.TickSkip,
		durations: DurationsFor(cfg.TickRate),
		roster:    roster,
		ledger:    ledger,
		rounds:    NewRoundTracker(ledger, roster),
		effects:   effects,
		stats:     stats,
		sampler:   NewFrameSampler(cfg.TickSkip, roster, stats, effects),
		kills:     make([]Kill, 0),
	}, nil
}

// SetTickRate rescales lifetimes of effects opened from now on.
func (b *Builder) SetTickRate(tickRate float64) {
	b.durations = DurationsFor(tickRate)
}

// RoundStart opens a round if the match is live. A live round start also
// clears leftover effects and the planted bomb of the previous round.
func (b *Builder) RoundStart(state GameState) {
	if !b.rounds.Start(state) {
		return
	}
	b.effects.Reset()
	b.bombPlanted = false
}

// RoundFreezeEnd records the end of freeze time for the current round.
func (b *Builder) RoundFreezeEnd(tick int) {
	b.rounds.FreezeEnd(tick)
}

// RoundEnd closes the current round with the server's raw scores.
func (b *Builder) RoundEnd(rawCT, rawT int, winner Team) {
	b.rounds.End(rawCT, rawT, winner)
}

// Kill updates counters and appends to the kill log. Absent actors are nil.
func (b *Builder) Kill(tick int, killer, victim, assister *Actor, headshot bool, weapon string) {
	b.stats.RecordKill(killer, victim, assister, headshot)

	k := Kill{
		Tick:       tick,
		IsHeadshot: headshot,
		Weapon:     weapon,
	}
	if killer != nil {
		k.KillerID = killer.ID
	}
	if victim != nil {
		k.VictimID = victim.ID
	}
	if assister != nil {
		k.AssisterID = assister.ID
	}
	b.kills = append(b.kills, k)
}

// WeaponFire logs a shot into the current sampling window.
func (b *Builder) WeaponFire(shooter *Actor, weapon string) {
	if shooter == nil {
		return
	}
	b.sampler.RecordFire(WeaponFire{PlayerID: shooter.ID, Weapon: weapon})
}

// PlayerFlashed attributes a blinded participant to the window's flashes.
func (b *Builder) PlayerFlashed(team Team) {
	b.effects.AttributeFlash(team)
}

// EffectStart opens an effect of kind with its standard lifetime.
func (b *Builder) EffectStart(kind EffectKind, pos r3.Vector, tick int, correlationID int64) int64 {
	return b.effects.Open(kind, pos, tick, b.durations.Of(kind), correlationID)
}

// EffectExpired ends an effect whose in-world object went away early.
func (b *Builder) EffectExpired(kind EffectKind, correlationID int64, tick int) {
	b.effects.CloseEarly(correlationID, kind, tick)
}

// BombPlanted marks the bomb as planted.
func (b *Builder) BombPlanted() {
	b.bombPlanted = true
}

// BombCleared marks the bomb as no longer planted (defused or exploded).
func (b *Builder) BombCleared() {
	b.bombPlanted = false
}

// Frame is called once per raw tick after all events of that tick.
func (b *Builder) Frame(state GameState) bool {
	return b.sampler.Tick(state, b.bombPlanted)
}

// Slot exposes the roster slot of a participant.
func (b *Builder) Slot(id uint64) int {
	return b.roster.Slot(id)
}

// Stats exposes the running counters of a participant.
func (b *Builder) Stats(id uint64) PlayerStats {
	return b.stats.Get(id)
}
