package replay

// GameState is the live view the decoder exposes at the current raw tick.
type GameState interface {
	// Tick is the in-game tick of the current state.
	Tick() int
	// MatchStarted reports whether the server considers the match live.
	MatchStarted() bool
	// Scores returns the raw team scores as reported by the server.
	Scores() (ct, t int)
	// Participants lists everyone currently playing.
	Participants() []Participant
	Bomb() BombState
	Projectiles() []InFlight
}
