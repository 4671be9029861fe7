package broadcast

import (
	"sync"

	"github.com/granbuda/bingo/go/internal/game/events"
)

// Recorded is one captured delivery. An empty Target means the room.
type Recorded struct {
	SessionID string
	Target    string
	Message   events.Message
}

// Recorder is an in-memory Broadcaster for development and tests.
type Recorder struct {
	mu   sync.Mutex
	msgs []Recorded
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) ToRoom(sessionID string, msg events.Message) {
	r.record(Recorded{SessionID: sessionID, Message: msg})
}

func (r *Recorder) ToPlayer(sessionID, player string, msg events.Message) {
	r.record(Recorded{SessionID: sessionID, Target: player, Message: msg})
}

func (r *Recorder) record(rec Recorded) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, rec)
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded, len(r.msgs))
	copy(out, r.msgs)
	return out
}

// OfType returns the recorded deliveries carrying the given type tag.
func (r *Recorder) OfType(t events.Type) []Recorded {
	var out []Recorded
	for _, rec := range r.Messages() {
		if rec.Message.Type == t {
			out = append(out, rec)
		}
	}
	return out
}

// Reset discards everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = nil
}
