package cli

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/thruflo/reel/internal/logging"
	"github.com/thruflo/reel/internal/player"
)

// tracer writes player events as JSON lines.
type tracer struct {
	mu  sync.Mutex
	enc *json.Encoder
	err error
}

func newTracer(w io.Writer) *tracer {
	return &tracer{enc: json.NewEncoder(w)}
}

func (t *tracer) write(ev player.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return
	}
	if err := t.enc.Encode(ev); err != nil {
		t.err = err
		logging.Warn("trace disabled", "error", err)
	}
}
