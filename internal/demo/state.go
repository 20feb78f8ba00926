package demo

import (
	"fmt"
	"sort"

	dem "github.com/markus-wa/demoinfocs-golang/v5/pkg/demoinfocs"
	common "github.com/markus-wa/demoinfocs-golang/v5/pkg/demoinfocs/common"

	"demoreplay/internal/replay"
)

// liveState exposes the parser's game state through replay.GameState.
type liveState struct {
	gs dem.GameState
}

func (s liveState) Tick() int {
	return s.gs.IngameTick()
}

func (s liveState) MatchStarted() bool {
	return s.gs.IsMatchStarted()
}

func (s liveState) Scores() (ct, t int) {
	return s.gs.TeamCounterTerrorists().Score(), s.gs.TeamTerrorists().Score()
}

func (s liveState) Participants() []replay.Participant {
	playing := s.gs.Participants().Playing()
	out := make([]replay.Participant, 0, len(playing))
	for _, pl := range playing {
		if pl == nil {
			continue
		}
		out = append(out, participant(pl))
	}
	return out
}

func (s liveState) Bomb() replay.BombState {
	bomb := s.gs.Bomb()
	if bomb == nil {
		return replay.BombState{}
	}
	bs := replay.BombState{Position: bomb.Position()}
	if bomb.Carrier != nil {
		bs.CarrierID = bomb.Carrier.SteamID64
	}
	return bs
}

// Projectiles are sorted by entity id; the decoder keeps them in a map.
func (s liveState) Projectiles() []replay.InFlight {
	projectiles := s.gs.GrenadeProjectiles()
	out := make([]replay.InFlight, 0, len(projectiles))
	for _, p := range projectiles {
		if p == nil || p.Entity == nil {
			continue
		}
		out = append(out, replay.InFlight{
			ID:       int64(p.Entity.ID()),
			Type:     equipmentName(p.WeaponInstance),
			Position: p.Position(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

func participant(pl *common.Player) replay.Participant {
	p := replay.Participant{
		ID:             pl.SteamID64,
		Name:           pl.Name,
		Team:           teamOf(pl.Team),
		Alive:          pl.IsAlive(),
		Position:       pl.Position(),
		Yaw:            pl.ViewDirectionX(),
		Health:         pl.Health(),
		Money:          pl.Money(),
		Armor:          pl.Armor(),
		HasHelmet:      pl.HasHelmet(),
		HasDefuseKit:   pl.HasDefuseKit(),
		ActiveWeapon:   equipmentName(pl.ActiveWeapon()),
		Weapons:        make([]replay.Weapon, 0),
		Blinded:        pl.IsBlinded(),
		FlashRemaining: pl.FlashDurationTimeRemaining(),
	}
	for _, w := range pl.Weapons() {
		if w == nil {
			continue
		}
		if w.Type == common.EqBomb {
			p.HasBomb = true
		}
		p.Weapons = append(p.Weapons, replay.Weapon{
			Name:  w.String(),
			Class: fmt.Sprintf("%v", w.Class()),
		})
	}
	return p
}

func actor(pl *common.Player) *replay.Actor {
	if pl == nil {
		return nil
	}
	return &replay.Actor{ID: pl.SteamID64, Team: teamOf(pl.Team)}
}

func teamOf(t common.Team) replay.Team {
	switch t {
	case common.TeamCounterTerrorists:
		return replay.TeamCT
	case common.TeamTerrorists:
		return replay.TeamT
	case common.TeamSpectators:
		return replay.TeamSpectator
	default:
		return replay.TeamUnassigned
	}
}

func equipmentName(e *common.Equipment) string {
	if e == nil {
		return ""
	}
	return e.String()
}

// correlationID ties an effect to the grenade entity that spawned it.
func correlationID(e *common.Equipment) int64 {
	if e == nil || e.Entity == nil {
		return replay.NoCorrelation
	}
	return int64(e.Entity.ID())
}
