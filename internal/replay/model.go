package replay

import (
	"time"

	"github.com/golang/geo/r3"
)

// Team identifies the side a participant plays on.
type Team int

const (
	TeamUnassigned Team = iota
	TeamSpectator
	TeamT
	TeamCT
)

// Label returns the team name used in the replay document.
func (t Team) Label() string {
	switch t {
	case TeamCT:
		return "CT"
	case TeamT:
		return "T"
	default:
		return "SPECTATOR"
	}
}

// Weapon mirrors one owned weapon in a player snapshot.
type Weapon struct {
	Name  string `json:"name"`
	Class string `json:"class"`
}

// Participant is the live state of one playing participant, re-read on every sampled tick.
type Participant struct {
	ID             uint64
	Name           string
	Team           Team
	Alive          bool
	Position       r3.Vector
	Yaw            float32
	Health         int
	Money          int
	Armor          int
	HasHelmet      bool
	HasDefuseKit   bool
	HasBomb        bool
	ActiveWeapon   string
	Weapons        []Weapon
	Blinded        bool
	FlashRemaining time.Duration
}

// Actor is a participant reference attached to a discrete event such as a kill.
type Actor struct {
	ID   uint64
	Team Team
}

// BombState is the live bomb entity as seen by the decoder.
type BombState struct {
	Position  r3.Vector
	CarrierID uint64 // 0 when nobody carries it
}

// InFlight is a grenade projectile that has not yet detonated.
type InFlight struct {
	ID       int64
	Type     string
	Position r3.Vector
}

// Player is one participant inside an emitted frame.
type Player struct {
	ID           uint64   `json:"id"`
	Name         string   `json:"name"`
	Team         string   `json:"team"`
	IsAlive      bool     `json:"is_alive"`
	X            float64  `json:"x"`
	Y            float64  `json:"y"`
	Z            float64  `json:"z"`
	Rotation     float32  `json:"rotation"`
	Hp           int      `json:"hp"`
	Money        int      `json:"money"`
	Armor        int      `json:"armor"`
	HasHelmet    bool     `json:"has_helmet"`
	HasDefuseKit bool     `json:"has_defuse_kit"`
	HasBomb      bool     `json:"has_bomb"`
	ActiveWeapon string   `json:"active_weapon"`
	Weapons      []Weapon `json:"weapons"`
	Kills        int      `json:"kills"`
	Deaths       int      `json:"deaths"`
	Assists      int      `json:"assists"`
	HS           int      `json:"hs"`
	IsFlashed    bool     `json:"is_flashed"`
	FlashMs      int      `json:"flash_ms"`
	RosterIndex  int      `json:"roster_index"`
}

// Kill is an immutable kill log entry.
type Kill struct {
	Tick       int    `json:"tick"`
	KillerID   uint64 `json:"killer_id"`
	VictimID   uint64 `json:"victim_id"`
	AssisterID uint64 `json:"assister_id,omitempty"`
	IsHeadshot bool   `json:"is_headshot"`
	Weapon     string `json:"weapon"`
}

// Grenade is a visible effect as written into a frame.
type Grenade struct {
	ID        int64      `json:"id"`
	Type      EffectKind `json:"type"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	Z         float64    `json:"z"`
	StartTick int        `json:"start_tick"`
	EndTick   int        `json:"end_tick"`
	FlashedCT int        `json:"flashed_ct,omitempty"`
	FlashedT  int        `json:"flashed_t,omitempty"`
}

// Bomb is the bomb state of a frame.
type Bomb struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	IsPlanted bool    `json:"is_planted"`
	CarrierID uint64  `json:"carrier_id,omitempty"`
}

// WeaponFire is one shot fired inside a sampling window.
type WeaponFire struct {
	PlayerID uint64 `json:"player_id"`
	Weapon   string `json:"weapon"`
}

// Projectile is an in-flight grenade as written into a frame.
type Projectile struct {
	ID   int64   `json:"id"`
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
}

// Frame is one sampled snapshot.
type Frame struct {
	Tick        int          `json:"tick"`
	Players     []Player     `json:"players"`
	Grenades    []Grenade    `json:"grenades"`
	Projectiles []Projectile `json:"projectiles"`
	Fires       []WeaponFire `json:"fires"`
	Bomb        Bomb         `json:"bomb"`
}

// Round is a round ledger entry. Scores and winner are back-filled at round end.
type Round struct {
	Number         int    `json:"number"`
	Tick           int    `json:"tick"`
	CTScore        int    `json:"ct_score"`
	TScore         int    `json:"t_score"`
	WinningTeam    string `json:"winning_team,omitempty"`
	FreezeTimeTick int    `json:"freeze_time_tick"`
}

// Document is the replay consumed by the playback front end.
type Document struct {
	MapName          string  `json:"map_name"`
	TickRate         float64 `json:"tick_rate"`
	OriginalTickRate float64 `json:"original_tick_rate"`
	Frames           []Frame `json:"frames"`
	Rounds           []Round `json:"rounds"`
	Kills            []Kill  `json:"kills"`
	CTScore          int     `json:"ct_score"`
	TScore           int     `json:"t_score"`
	MatchStartTick   int     `json:"match_start_tick"`
}
