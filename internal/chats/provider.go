// Package chats provides the recent-conversation list backing the sidebar.
package chats

import (
	"context"
	"errors"

	"github.com/shubham-309/chatbot/internal/auth"
	"github.com/shubham-309/chatbot/internal/logging"
)

// PageSize is the sidebar page increment.
const PageSize = 5

// ErrNotAuthenticated is returned when a fetch is attempted without a user.
// The caller owns the redirect side effect.
var ErrNotAuthenticated = errors.New("not authenticated")

// ChatRef identifies a conversation in the sidebar: an immutable identifier
// plus its display label. Created when the backend reports a conversation,
// never mutated.
type ChatRef struct {
	ID   string `json:"chat_id"`
	Name string `json:"name"`
}

// Lister fetches the top-N most recent conversations.
type Lister interface {
	LatestChats(ctx context.Context, count int) ([]ChatRef, error)
}

// Provider owns the recent-chat list. Both initial fetch and load-more
// replace the list wholesale: the backend contract is "top N", so the
// client always requests the total desired count, never an offset.
type Provider struct {
	transport Lister
	chats     []ChatRef
}

// NewProvider creates a chat list provider over the given transport.
func NewProvider(transport Lister) *Provider {
	return &Provider{transport: transport}
}

// Transport returns the underlying lister, for callers that fetch in the
// background and apply results via Replace.
func (p *Provider) Transport() Lister {
	return p.transport
}

// Chats returns the current list, newest first.
func (p *Provider) Chats() []ChatRef {
	out := make([]ChatRef, len(p.chats))
	copy(out, p.chats)
	return out
}

// NextCount returns the total count a load-more request should ask for.
func (p *Provider) NextCount() int {
	return len(p.chats) + PageSize
}

// Replace swaps in a freshly fetched list. Event-loop callers fetch in the
// background and apply the result here, on the loop goroutine.
func (p *Provider) Replace(list []ChatRef) {
	p.chats = list
}

// FetchInitial requests the first page and replaces the local list.
// Without an authenticated user it returns ErrNotAuthenticated and fetches
// nothing.
func (p *Provider) FetchInitial(ctx context.Context, user *auth.User) error {
	if user == nil {
		return ErrNotAuthenticated
	}

	list, err := p.transport.LatestChats(ctx, PageSize)
	if err != nil {
		logging.ChatsError("failed to fetch latest chats: %v", err)
		return err
	}
	p.Replace(list)
	return nil
}

// LoadMore requests len+PageSize conversations and replaces the list with
// the returned superset.
func (p *Provider) LoadMore(ctx context.Context) error {
	list, err := p.transport.LatestChats(ctx, p.NextCount())
	if err != nil {
		logging.ChatsError("failed to load more chats: %v", err)
		return err
	}
	p.Replace(list)
	return nil
}

// Promote keeps the sidebar consistent with the active conversation: a
// newly created conversation moves to the front of the list. Known
// identifiers are moved rather than duplicated.
func (p *Provider) Promote(ref ChatRef) {
	filtered := make([]ChatRef, 0, len(p.chats)+1)
	filtered = append(filtered, ref)
	for _, c := range p.chats {
		if c.ID != ref.ID {
			filtered = append(filtered, c)
		}
	}
	p.chats = filtered
}
