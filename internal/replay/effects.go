package replay

import "github.com/golang/geo/r3"

// EffectKind names an area effect in the replay document.
type EffectKind string

const (
	EffectSmoke     EffectKind = "SMOKE"
	EffectFire      EffectKind = "MOLOTOV"
	EffectFlash     EffectKind = "FLASH"
	EffectExplosive EffectKind = "HE"
)

// NoCorrelation marks an effect with no in-world object to expire it early.
const NoCorrelation int64 = -1

// Effect lifetimes in seconds. Explosives use a fixed tick count instead.
const (
	smokeSeconds       = 18.0
	fireSeconds        = 7.0
	flashSeconds       = 0.5
	explosiveTickCount = 20
)

// Durations holds effect lifetimes in raw ticks.
type Durations struct {
	Smoke     int
	Fire      int
	Flash     int
	Explosive int
}

// DurationsFor converts the effect lifetimes to raw ticks at the given native rate.
func DurationsFor(tickRate float64) Durations {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	return Durations{
		Smoke:     int(smokeSeconds * tickRate),
		Fire:      int(fireSeconds * tickRate),
		Flash:     int(flashSeconds * tickRate),
		Explosive: explosiveTickCount,
	}
}

// Of returns the lifetime of kind.
func (d Durations) Of(kind EffectKind) int {
	switch kind {
	case EffectSmoke:
		return d.Smoke
	case EffectFire:
		return d.Fire
	case EffectFlash:
		return d.Flash
	default:
		return d.Explosive
	}
}

// EffectRecord is one tracked area effect.
type EffectRecord struct {
	ID            int64
	CorrelationID int64
	Kind          EffectKind
	Position      r3.Vector
	StartTick     int
	EndTick       int
	FlashedCT     int
	FlashedT      int
}

func (e *EffectRecord) grenade() Grenade {
	return Grenade{
		ID:        e.ID,
		Type:      e.Kind,
		X:         e.Position.X,
		Y:         e.Position.Y,
		Z:         e.Position.Z,
		StartTick: e.StartTick,
		EndTick:   e.EndTick,
		FlashedCT: e.FlashedCT,
		FlashedT:  e.FlashedT,
	}
}

type effectKey struct {
	correlation int64
	kind        EffectKind
}

// EffectRegistry owns the lifetimes of active effects and the flash ids opened
// during the current sampling window.
type EffectRegistry struct {
	nextID       int64
	active       []*EffectRecord
	byID         map[int64]*EffectRecord
	byKey        map[effectKey][]*EffectRecord
	pendingFlash []int64
}

// NewEffectRegistry creates an empty registry.
func NewEffectRegistry() *EffectRegistry {
	return &EffectRegistry{
		byID:  make(map[int64]*EffectRecord),
		byKey: make(map[effectKey][]*EffectRecord),
	}
}

// Open starts a new effect ending at startTick+durationTicks and returns its id.
// Flashes are also queued for attribution until the next sample.
func (r *EffectRegistry) Open(kind EffectKind, pos r3.Vector, startTick, durationTicks int, correlationID int64) int64 {
	r.nextID++
	rec := &EffectRecord{
		ID:            r.nextID,
		CorrelationID: correlationID,
		Kind:          kind,
		Position:      pos,
		StartTick:     startTick,
		EndTick:       startTick + durationTicks,
	}
	r.active = append(r.active, rec)
	r.byID[rec.ID] = rec
	if correlationID != NoCorrelation {
		key := effectKey{correlation: correlationID, kind: kind}
		r.byKey[key] = append(r.byKey[key], rec)
	}
	if kind == EffectFlash {
		r.pendingFlash = append(r.pendingFlash, rec.ID)
	}
	return rec.ID
}

// CloseEarly ends the first active effect matching correlationID and kind at tick.
// The end tick is only ever moved earlier. It reports whether a record matched.
func (r *EffectRegistry) CloseEarly(correlationID int64, kind EffectKind, tick int) bool {
	if correlationID == NoCorrelation {
		return false
	}
	recs := r.byKey[effectKey{correlation: correlationID, kind: kind}]
	if len(recs) == 0 {
		return false
	}
	if tick < recs[0].EndTick {
		recs[0].EndTick = tick
	}
	return true
}

// AttributeFlash credits a blinded participant of team to every flash opened
// since the last sample. Participants without a side are not counted.
func (r *EffectRegistry) AttributeFlash(team Team) {
	if team != TeamCT && team != TeamT {
		return
	}
	for _, id := range r.pendingFlash {
		rec, ok := r.byID[id]
		if !ok {
			continue
		}
		if team == TeamCT {
			rec.FlashedCT++
		} else {
			rec.FlashedT++
		}
	}
}

// ClearPending ends the flash attribution window.
func (r *EffectRegistry) ClearPending() {
	r.pendingFlash = r.pendingFlash[:0]
}

// SampleVisible returns every effect still visible at tick and evicts the rest for good.
func (r *EffectRegistry) SampleVisible(tick int) []Grenade {
	visible := make([]Grenade, 0, len(r.active))
	kept := r.active[:0]
	for _, rec := range r.active {
		if tick <= rec.EndTick {
			visible = append(visible, rec.grenade())
			kept = append(kept, rec)
			continue
		}
		r.evict(rec)
	}
	for i := len(kept); i < len(r.active); i++ {
		r.active[i] = nil
	}
	r.active = kept
	return visible
}

// Reset drops every active effect, e.g. on a new round.
func (r *EffectRegistry) Reset() {
	r.active = nil
	r.byID = make(map[int64]*EffectRecord)
	r.byKey = make(map[effectKey][]*EffectRecord)
	r.pendingFlash = r.pendingFlash[:0]
}

// Active returns the number of tracked effects.
func (r *EffectRegistry) Active() int {
	return len(r.active)
}

func (r *EffectRegistry) evict(rec *EffectRecord) {
	delete(r.byID, rec.ID)
	if rec.CorrelationID == NoCorrelation {
		return
	}
	key := effectKey{correlation: rec.CorrelationID, kind: rec.Kind}
	recs := r.byKey[key]
	for i, other := range recs {
		if other == rec {
			recs = append(recs[:i], recs[i+1:]...)
			break
		}
	}
	if len(recs) == 0 {
		delete(r.byKey, key)
		return
	}
	r.byKey[key] = recs
}
