// Package conversation implements the synchronizer for the active
// conversation: one message log reconciled between optimistic local writes
// and server-confirmed state.
//
// The synchronizer is a small state machine, Idle -> AwaitingReply -> Idle,
// with the placeholder bot message as its visible marker. It is independent
// of the UI framework: event-driven callers use the two-phase Begin/Resolve
// API so the optimistic effects are applied synchronously before the
// network suspension point, and every in-flight operation carries the
// generation counter active when it was issued, so a response that arrives
// after the user has switched conversations is discarded instead of
// mutating the wrong log.
package conversation

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/shubham-309/chatbot/internal/logging"
)

// Message senders.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// PlaceholderContent is the transient bot entry shown while awaiting a
// real reply.
const PlaceholderContent = "..."

// SendFailedContent replaces the placeholder when a send fails. The
// optimistic user message is never rolled back.
const SendFailedContent = "An error occurred. Please try again."

// Message is one entry in a conversation's ordered log.
type Message struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

// Transport is the backend surface the synchronizer needs.
type Transport interface {
	History(ctx context.Context, chatID string) ([]Message, error)
	Ask(ctx context.Context, chatID, message string) (string, error)
}

// Conversation owns the active conversation's state. Not safe for
// concurrent use; it is driven from a single event loop.
type Conversation struct {
	transport Transport

	id           string
	messages     []Message
	pendingReply bool

	// generation increments on every Select. Results tagged with an older
	// generation are stale and must not be applied.
	generation uint64

	// newID generates conversation identifiers client-side. Overridable in
	// tests for determinism.
	newID func() string
}

// New creates a synchronizer with no active conversation.
func New(transport Transport) *Conversation {
	return &Conversation{
		transport: transport,
		newID:     uuid.NewString,
	}
}

// ID returns the active conversation identifier, empty when none is
// assigned yet.
func (c *Conversation) ID() string {
	return c.id
}

// Messages returns a copy of the message log.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// PendingReply reports whether a bot reply is outstanding. While true the
// last message is the placeholder entry.
func (c *Conversation) PendingReply() bool {
	return c.pendingReply
}

// Generation returns the current generation counter.
func (c *Conversation) Generation() uint64 {
	return c.generation
}

// Select switches the active conversation. Selecting the already-active
// identifier is a no-op so the loaded log is not redundantly cleared.
// Otherwise the log is emptied, pendingReply cleared, and the generation
// bumped so in-flight results for the previous conversation are discarded.
// No network call happens on this step.
func (c *Conversation) Select(id string) bool {
	if id == c.id {
		return false
	}

	c.id = id
	c.messages = nil
	c.pendingReply = false
	c.generation++
	logging.Conversation("selected chat %q (generation %d)", id, c.generation)
	return true
}

// BeginLoad starts a history fetch for the active conversation. It returns
// the generation to tag the fetch with, and false when there is nothing to
// load (no identifier assigned).
func (c *Conversation) BeginLoad() (uint64, bool) {
	if c.id == "" {
		return 0, false
	}
	return c.generation, true
}

// ApplyHistory reconciles a finished history fetch. Stale generations are
// ignored. A fetch failure leaves the log empty and is logged only; callers
// may layer their own user-facing error if they want one.
func (c *Conversation) ApplyHistory(gen uint64, msgs []Message, err error) bool {
	if gen != c.generation {
		logging.Conversation("dropping stale history result (generation %d, now %d)", gen, c.generation)
		return false
	}
	if err != nil {
		logging.ConversationError("failed to fetch chat history for %s: %v", c.id, err)
		return false
	}

	c.messages = msgs
	return true
}

// Load fetches and applies history synchronously. Convenience wrapper for
// callers outside an event loop.
func (c *Conversation) Load(ctx context.Context) {
	gen, ok := c.BeginLoad()
	if !ok {
		return
	}
	msgs, err := c.transport.History(ctx, c.id)
	c.ApplyHistory(gen, msgs, err)
}

// SendIntent describes a send whose optimistic effects have been applied
// and whose network call is still to be made.
type SendIntent struct {
	Gen             uint64
	ChatID          string
	Text            string
	NewConversation bool
}

// SendOutcome reports how a resolved send affected the log. AssignedID is
// non-empty when the send created the conversation and the identifier
// should propagate to the owning context (sidebar, navigable location).
type SendOutcome struct {
	Applied    bool
	AssignedID string
}

// BeginSend applies the optimistic half of a send: appends the user
// message, appends the placeholder bot entry, and sets pendingReply, all
// before any network activity so the UI can update immediately.
//
// It is a no-op (ok=false) for empty trimmed text, and while a reply is
// already pending, which preserves the invariant that at most one
// placeholder exists and it is the last element.
//
// A conversation is "new" exactly when no identifier is assigned. An
// assigned identifier stays authoritative even when its history fetch came
// back empty; the backend creates the conversation on first ask, so reusing
// the identifier cannot fail and never forks the conversation.
func (c *Conversation) BeginSend(text string) (SendIntent, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return SendIntent{}, false
	}
	if c.pendingReply {
		return SendIntent{}, false
	}

	newConversation := c.id == ""
	if newConversation {
		c.id = c.newID()
		logging.Conversation("starting new chat %s", c.id)
	}

	c.messages = append(c.messages,
		Message{Sender: SenderUser, Content: trimmed},
		Message{Sender: SenderBot, Content: PlaceholderContent},
	)
	c.pendingReply = true

	return SendIntent{
		Gen:             c.generation,
		ChatID:          c.id,
		Text:            trimmed,
		NewConversation: newConversation,
	}, true
}

// ResolveSend reconciles a finished send. On success the placeholder (the
// last element) is replaced with the bot's reply; on failure it is replaced
// with a fixed user-visible error message. Either way pendingReply clears.
// Results from a superseded generation mutate nothing.
func (c *Conversation) ResolveSend(intent SendIntent, reply string, sendErr error) SendOutcome {
	if intent.Gen != c.generation {
		logging.Conversation("dropping stale send result for chat %s (generation %d, now %d)",
			intent.ChatID, intent.Gen, c.generation)
		return SendOutcome{}
	}
	if !c.pendingReply || len(c.messages) == 0 {
		return SendOutcome{}
	}

	last := len(c.messages) - 1
	if sendErr != nil {
		logging.ConversationError("send failed for chat %s: %v", intent.ChatID, sendErr)
		c.messages[last] = Message{Sender: SenderBot, Content: SendFailedContent}
		c.pendingReply = false
		return SendOutcome{Applied: true}
	}

	c.messages[last] = Message{Sender: SenderBot, Content: reply}
	c.pendingReply = false

	outcome := SendOutcome{Applied: true}
	if intent.NewConversation {
		outcome.AssignedID = intent.ChatID
	}
	return outcome
}

// Send runs the full send pipeline synchronously. Convenience wrapper for
// callers outside an event loop; transport failures are absorbed into the
// log per ResolveSend, never returned.
func (c *Conversation) Send(ctx context.Context, text string) (SendOutcome, bool) {
	intent, ok := c.BeginSend(text)
	if !ok {
		return SendOutcome{}, false
	}
	reply, err := c.transport.Ask(ctx, intent.ChatID, intent.Text)
	return c.ResolveSend(intent, reply, err), true
}
