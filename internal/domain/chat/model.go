package chat

import (
	"strings"
	"sync"
	"time"
)

// Greeting is GEMA's opening message, seeded into every new transcript.
const Greeting = "Hello! I'm GEMA, your Godrej Emerald Management Assistant. How can I help you today?"

// Fallback strings shown verbatim when the assistant webhook misbehaves.
// FallbackUnavailable covers a webhook that answered but unusably (a
// non-success status, or a body with no reply text); FallbackOffline
// covers transport failure, an undecodable body, and deployments with no
// webhook configured.
const (
	FallbackUnavailable = "I'm sorry, I'm having trouble connecting right now. Please try again later or contact the society manager for immediate assistance."
	FallbackOffline     = "I'm currently offline. For urgent matters, please contact our Society Manager."
)

// Message is one entry in a conversation transcript.
type Message struct {
	ID        int64 // monotonically increasing within a transcript
	Text      string
	FromUser  bool
	Timestamp time.Time
}

// Transcript is an append-only ordered list of messages for one visitor
// session. IDs are synthetic and strictly increasing.
type Transcript struct {
	mu     sync.Mutex
	nextID int64
	msgs   []Message
}

// NewTranscript creates a transcript seeded with the greeting.
// POST: transcript contains exactly the greeting message with ID 1
func NewTranscript() *Transcript {
	t := &Transcript{nextID: 1}
	t.append(Greeting, false, time.Now())
	return t
}

// Append adds a message and returns it with its assigned ID.
// PRE: text is non-empty after trimming
// POST: message stored at the end of the transcript with a fresh ID
func (t *Transcript) Append(text string, fromUser bool, at time.Time) Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.append(text, fromUser, at)
}

func (t *Transcript) append(text string, fromUser bool, at time.Time) Message {
	m := Message{
		ID:        t.nextID,
		Text:      strings.TrimSpace(text),
		FromUser:  fromUser,
		Timestamp: at,
	}
	t.nextID++
	t.msgs = append(t.msgs, m)
	return m
}

// Messages returns a copy of the transcript in append order.
// INVARIANT: IDs in the returned slice are strictly increasing
func (t *Transcript) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Message, len(t.msgs))
	copy(out, t.msgs)
	return out
}

// Len returns the number of messages in the transcript.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.msgs)
}
