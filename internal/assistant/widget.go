package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of a widget transcript.
type Message struct {
	Role     string `json:"role"`
	Content  string `json:"content"`
	Position int    `json:"position"`
}

// ResponderFunc produces the assistant reply for a user utterance.
type ResponderFunc func(ctx context.Context, utterance string) string

var (
	ErrBusy           = errors.New("assistant is still replying")
	ErrEmptyMessage   = errors.New("message is empty")
	ErrNothingPending = errors.New("no message is awaiting a reply")
)

// State is a snapshot of the widget state machines.
type State struct {
	Open     bool `json:"open"`
	Awaiting bool `json:"awaiting"`
	Messages int  `json:"messages"`
}

// Widget holds one chat session: its visibility, the exchange in flight and the
// append-only transcript. Submissions made while a reply is pending are rejected with
// ErrBusy and leave the transcript untouched.
type Widget struct {
	respond ResponderFunc

	mu         sync.Mutex
	open       bool
	awaiting   bool
	replying   bool
	pending    string
	transcript []Message
}

// NewWidget returns a closed widget whose transcript holds the welcome message.
func NewWidget(respond ResponderFunc) *Widget {
	return &Widget{
		respond:    respond,
		transcript: []Message{{Role: RoleAssistant, Content: WelcomeMessage, Position: 0}},
	}
}

// Open shows the widget.
func (w *Widget) Open() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = true
	return w.stateLocked()
}

// Close hides the widget. The transcript is kept.
func (w *Widget) Close() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = false
	return w.stateLocked()
}

// Toggle flips visibility.
func (w *Widget) Toggle() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = !w.open
	return w.stateLocked()
}

// State returns the current state.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

func (w *Widget) stateLocked() State {
	return State{Open: w.open, Awaiting: w.awaiting, Messages: len(w.transcript)}
}

// Transcript returns a copy of every message so far.
func (w *Widget) Transcript() []Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Message, len(w.transcript))
	copy(out, w.transcript)
	return out
}

// Post records a user message and moves the exchange to awaiting-reply.
func (w *Widget) Post(text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrEmptyMessage
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.awaiting {
		return Message{}, ErrBusy
	}
	msg := w.appendLocked(RoleUser, text)
	w.awaiting = true
	w.pending = text
	return msg, nil
}

// Reply answers the pending user message and returns the exchange to idle. It appends
// exactly one assistant message, the apology when the responder fails. Only one caller
// claims a pending message; concurrent callers get ErrNothingPending.
func (w *Widget) Reply(ctx context.Context) (Message, error) {
	w.mu.Lock()
	if !w.awaiting || w.replying {
		w.mu.Unlock()
		return Message{}, ErrNothingPending
	}
	w.replying = true
	utterance := w.pending
	w.mu.Unlock()

	text := w.safeRespond(ctx, utterance)

	w.mu.Lock()
	defer w.mu.Unlock()
	msg := w.appendLocked(RoleAssistant, text)
	w.awaiting = false
	w.replying = false
	w.pending = ""
	return msg, nil
}

// Submit posts text and waits for the reply.
func (w *Widget) Submit(ctx context.Context, text string) (Message, error) {
	if _, err := w.Post(text); err != nil {
		return Message{}, err
	}
	return w.Reply(ctx)
}

func (w *Widget) safeRespond(ctx context.Context, utterance string) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ApologyMessage
		}
	}()
	if w.respond == nil {
		return FallbackMessage
	}
	text = w.respond(ctx, utterance)
	if text == "" {
		text = ApologyMessage
	}
	return text
}

func (w *Widget) appendLocked(role, content string) Message {
	msg := Message{Role: role, Content: content, Position: len(w.transcript)}
	w.transcript = append(w.transcript, msg)
	return msg
}
