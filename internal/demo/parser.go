// Package demo feeds CS2 demos decoded by demoinfocs-golang into a replay.Builder.
package demo

import (
	"context"
	"errors"
	"fmt"
	"io"

	dem "github.com/markus-wa/demoinfocs-golang/v5/pkg/demoinfocs"
	events "github.com/markus-wa/demoinfocs-golang/v5/pkg/demoinfocs/events"
	msg "github.com/markus-wa/demoinfocs-golang/v5/pkg/demoinfocs/msg"

	"demoreplay/internal/logging"
	"demoreplay/internal/replay"
)

// ErrDecode wraps fatal decoder failures. No document is produced.
var ErrDecode = errors.New("demo: decode failed")

// Options tune how a demo is sampled.
type Options struct {
	TickSkip int
}

// Parse consumes the whole demo and returns its replay document.
// A demo that ends unexpectedly still yields everything read up to that point.
func Parse(ctx context.Context, r io.Reader, opts Options) (*replay.Document, error) {
	logger := logging.Logger()

	b, err := replay.NewBuilder(replay.Config{TickSkip: opts.TickSkip})
	if err != nil {
		return nil, err
	}

	var (
		mapName  string
		lastTick int
	)
	setup := func(p dem.Parser) {
		p.RegisterNetMessageHandler(func(m *msg.CDemoFileHeader) {
			mapName = m.GetMapName()
		})
		p.RegisterNetMessageHandler(func(m *msg.CSVCMsg_ServerInfo) {
			if mapName == "" && m != nil {
				mapName = m.GetMapName()
			}
		})

		state := liveState{gs: p.GameState()}
		tick := func() int { return p.GameState().IngameTick() }

		p.RegisterEventHandler(func(e events.RoundStart) {
			b.RoundStart(state)
		})

		p.RegisterEventHandler(func(e events.RoundFreezetimeEnd) {
			b.RoundFreezeEnd(tick())
		})

		p.RegisterEventHandler(func(e events.RoundEnd) {
			ct, t := state.Scores()
			b.RoundEnd(ct, t, teamOf(e.Winner))
		})

		p.RegisterEventHandler(func(e events.Kill) {
			b.Kill(tick(), actor(e.Killer), actor(e.Victim), actor(e.Assister), e.IsHeadshot, equipmentName(e.Weapon))
		})

		p.RegisterEventHandler(func(e events.WeaponFire) {
			b.WeaponFire(actor(e.Shooter), equipmentName(e.Weapon))
		})

		p.RegisterEventHandler(func(e events.PlayerFlashed) {
			if e.Player == nil {
				return
			}
			b.PlayerFlashed(teamOf(e.Player.Team))
		})

		p.RegisterEventHandler(func(e events.SmokeStart) {
			b.EffectStart(replay.EffectSmoke, e.Position, tick(), correlationID(e.Grenade))
		})

		p.RegisterEventHandler(func(e events.SmokeExpired) {
			b.EffectExpired(replay.EffectSmoke, correlationID(e.Grenade), tick())
		})

		p.RegisterEventHandler(func(e events.FireGrenadeStart) {
			b.EffectStart(replay.EffectFire, e.Position, tick(), correlationID(e.Grenade))
		})

		p.RegisterEventHandler(func(e events.FireGrenadeExpired) {
			b.EffectExpired(replay.EffectFire, correlationID(e.Grenade), tick())
		})

		p.RegisterEventHandler(func(e events.FlashExplode) {
			b.EffectStart(replay.EffectFlash, e.Position, tick(), replay.NoCorrelation)
		})

		p.RegisterEventHandler(func(e events.HeExplode) {
			b.EffectStart(replay.EffectExplosive, e.Position, tick(), replay.NoCorrelation)
		})

		p.RegisterEventHandler(func(e events.BombPlanted) {
			b.BombPlanted()
		})

		p.RegisterEventHandler(func(e events.BombDefused) {
			b.BombCleared()
		})

		p.RegisterEventHandler(func(e events.BombExplode) {
			b.BombCleared()
		})

		rateKnown := false
		p.RegisterEventHandler(func(e events.FrameDone) {
			if ctx.Err() != nil {
				p.Cancel()
				return
			}
			if !rateKnown {
				if rate := p.TickRate(); rate > 0 {
					b.SetTickRate(rate)
					rateKnown = true
				}
			}
			lastTick = tick()
			b.Frame(state)
		})
	}

	rate, err := decode(r, setup)
	if err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	switch {
	case err == nil:
	case errors.Is(err, dem.ErrUnexpectedEndOfDemo):
		logger.Warnf("demo ended unexpectedly after tick %d, keeping partial replay", lastTick)
	case errors.Is(err, ErrDecode):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	doc, err := b.Finalize(replay.Metadata{
		MapName:  mapName,
		TickRate: rate,
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("built replay for %s: %d frames, %d rounds, %d kills",
		doc.MapName, len(doc.Frames), len(doc.Rounds), len(doc.Kills))
	return doc, nil
}

// decode runs a parser over r to the end and reports the native tick rate.
// Panics raised while decoding, including on streams too short to hold a header, become ErrDecode.
func decode(r io.Reader, setup func(p dem.Parser)) (rate float64, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrDecode, rec)
		}
	}()

	p := dem.NewParser(r)
	defer p.Close()

	setup(p)
	err = p.ParseToEnd()
	return p.TickRate(), err
}
