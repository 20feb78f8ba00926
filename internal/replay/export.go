package replay

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrFinalized = errors.New("replay: document already finalized")
	ErrEncode    = errors.New("replay: encode document")
)

// Metadata is what the decoder knows about the stream as a whole.
type Metadata struct {
	MapName  string
	TickRate float64
}

// Finalize assembles the document. It may only be called once per Builder.
func (b *Builder) Finalize(meta Metadata) (*Document, error) {
	if b.finalized {
		return nil, ErrFinalized
	}
	b.finalized = true

	native := meta.TickRate
	if native <= 0 {
		native = DefaultTickRate
	}

	ct, t := b.ledger.Scores()
	return &Document{
		MapName:          meta.MapName,
		TickRate:         native / float64(b.skip),
		OriginalTickRate: native,
		Frames:           b.sampler.Frames(),
		Rounds:           b.rounds.Rounds(),
		Kills:            b.kills,
		CTScore:          ct,
		TScore:           t,
		MatchStartTick:   b.rounds.MatchStartTick(),
	}, nil
}

// Encode serializes a document to JSON.
func Encode(doc *Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return data, nil
}
