package replay

import (
	"testing"

	"github.com/golang/geo/r3"
)

type fakeState struct {
	tick         int
	started      bool
	ct, t        int
	participants []Participant
	bomb         BombState
	projectiles  []InFlight
}

func (f *fakeState) Tick() int                   { return f.tick }
func (f *fakeState) MatchStarted() bool          { return f.started }
func (f *fakeState) Scores() (int, int)          { return f.ct, f.t }
func (f *fakeState) Participants() []Participant { return f.participants }
func (f *fakeState) Bomb() BombState             { return f.bomb }
func (f *fakeState) Projectiles() []InFlight     { return f.projectiles }

func player(id uint64, name string, team Team) Participant {
	return Participant{
		ID:       id,
		Name:     name,
		Team:     team,
		Alive:    true,
		Health:   100,
		Position: r3.Vector{X: float64(id), Y: 2 * float64(id)},
	}
}

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(Config{TickSkip: DefaultTickSkip})
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	return b
}
