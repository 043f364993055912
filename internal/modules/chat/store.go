package chat

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/stylelens/internal/domain"
	"github.com/patrickmn/go-cache"
)

type pendingState int

const (
	idle pendingState = iota
	// awaiting: a user entry has no bot entry yet and nobody is fetching it.
	awaiting
	// replying: the backend call for the last user entry is running.
	replying
)

type panel struct {
	owner   string
	conv    domain.Conversation
	state   pendingState
	message string
	since   time.Time
}

// Store keeps one conversation per chat panel. Panels idle for longer than
// the TTL are forgotten.
type Store struct {
	panels *cache.Cache
	mu     sync.Mutex
	// staleAfter bounds how long an unanswered user entry blocks the panel.
	staleAfter time.Duration
	now        func() time.Time
}

// NewStore creates a panel store.
func NewStore(ttl, staleAfter time.Duration) *Store {
	return &Store{
		panels:     cache.New(ttl, ttl/2+time.Second),
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// Open creates a panel seeded with the greeting.
func (s *Store) Open(owner string) domain.Conversation {
	p := &panel{owner: owner, conv: domain.Conversation{ID: uuid.NewString()}}
	p.conv.Append(domain.SenderBot, domain.ChatGreeting, s.now().UTC())
	s.panels.SetDefault(p.conv.ID, p)
	return copyConversation(p.conv)
}

func (s *Store) lookup(owner, id string) (*panel, error) {
	v, ok := s.panels.Get(id)
	if !ok {
		return nil, fmt.Errorf("chat panel %s: %w", id, domain.ErrNotFound)
	}
	p := v.(*panel)
	if p.owner != owner {
		return nil, fmt.Errorf("chat panel %s: %w", id, domain.ErrNotFound)
	}
	s.panels.SetDefault(id, p)
	return p, nil
}

// Send appends the user entry and marks the panel as waiting for a reply.
// Blank text is rejected with domain.ErrEmptyMessage; a panel with an
// outstanding request rejects with domain.ErrRequestInFlight.
func (s *Store) Send(owner, id, text string) (domain.ChatEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ChatEntry{}, domain.ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.lookup(owner, id)
	if err != nil {
		return domain.ChatEntry{}, err
	}
	now := s.now().UTC()
	if p.state != idle {
		if p.state == replying || now.Sub(p.since) < s.staleAfter {
			return domain.ChatEntry{}, domain.ErrRequestInFlight
		}
		// The browser never asked for the reply; close the exchange.
		p.conv.Append(domain.SenderBot, domain.ChatFailureNotice, now)
	}

	entry := p.conv.Append(domain.SenderUser, text, now)
	p.state = awaiting
	p.message = text
	p.since = now
	return entry, nil
}

// BeginReply claims the pending user message so exactly one caller fetches
// its reply.
func (s *Store) BeginReply(owner, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.lookup(owner, id)
	if err != nil {
		return "", err
	}
	if p.state != awaiting {
		return "", domain.ErrRequestInFlight
	}
	p.state = replying
	return p.message, nil
}

// CompleteReply appends the bot entry for the claimed message and frees the panel.
func (s *Store) CompleteReply(owner, id, text string) (domain.ChatEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.lookup(owner, id)
	if err != nil {
		return domain.ChatEntry{}, err
	}
	if p.state != replying {
		return domain.ChatEntry{}, fmt.Errorf("chat panel %s has no reply in progress", id)
	}
	entry := p.conv.Append(domain.SenderBot, text, s.now().UTC())
	p.state = idle
	p.message = ""
	return entry, nil
}

// Conversation returns a copy of the transcript.
func (s *Store) Conversation(owner, id string) (domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.lookup(owner, id)
	if err != nil {
		return domain.Conversation{}, err
	}
	return copyConversation(p.conv), nil
}

// Flush forgets every panel.
func (s *Store) Flush() {
	s.panels.Flush()
}

func copyConversation(c domain.Conversation) domain.Conversation {
	out := domain.Conversation{ID: c.ID, Entries: make([]domain.ChatEntry, len(c.Entries))}
	copy(out.Entries, c.Entries)
	return out
}
