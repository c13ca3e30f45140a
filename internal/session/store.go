package session

import (
	"sync"
	"time"
)

// Action is a bot command waiting for its argument.
type Action string

const (
	ActionNone     Action = ""
	ActionDescribe Action = "describe"
	ActionNews     Action = "news"
	ActionDream    Action = "dream"
)

type Session struct {
	ChatID       int64
	Username     string
	Pending      Action
	LastActivity time.Time
}

type Options struct {
	// TTL drops a pending action nobody completed. Zero means 15 minutes.
	TTL time.Duration
	Now func() time.Time
}

type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(opts Options) *Store {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Store{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		now:      now,
	}
}

func (s *Store) SetPending(chatID int64, username string, action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(chatID, username)
	sess.Pending = action
	sess.LastActivity = s.now()
}

// TakePending returns the pending action for chatID and clears it.
func (s *Store) TakePending(chatID int64) Action {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		return ActionNone
	}

	action := sess.Pending
	sess.Pending = ActionNone
	if s.now().Sub(sess.LastActivity) > s.ttl {
		action = ActionNone
	}
	sess.LastActivity = s.now()
	return action
}

func (s *Store) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[chatID]; ok {
		sess.Pending = ActionNone
		sess.LastActivity = s.now()
	}
}

// Prune removes sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if s.now().Sub(sess.LastActivity) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) getOrCreateLocked(chatID int64, username string) *Session {
	if sess, ok := s.sessions[chatID]; ok {
		if sess.Username == "" && username != "" {
			sess.Username = username
		}
		return sess
	}

	sess := &Session{
		ChatID:       chatID,
		Username:     username,
		LastActivity: s.now(),
	}
	s.sessions[chatID] = sess
	return sess
}
