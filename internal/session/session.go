// Package session tracks browsing sessions: each one owns a cart store and
// the UTM attribution captured when the visitor arrived.
package session

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/cart"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/kvstore"
	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/models"
)

// jobIDs maps job names to their cron entry IDs for management
var jobIDs = make(map[string]cron.EntryID)

// Session is one visitor's state. UTM is captured once per session; later
// page loads never overwrite an attribution key that is already set.
// Parallel requests from one browser share the session, so the attribution
// map is guarded by its own mutex.
type Session struct {
	ID       string
	Cart     *cart.Store
	LastSeen time.Time

	mu  sync.Mutex
	utm map[string]string
}

// UTM returns the captured attribution value for key, empty when unset.
func (s *Session) UTM(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.utm[key]
}

// UTMParams returns a copy of every captured attribution parameter.
func (s *Session) UTMParams() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.utm))
	for k, v := range s.utm {
		out[k] = v
	}
	return out
}

// SubscriberFactory builds the cart event subscriber for a new session, so
// events carry the session id without the cart knowing about sessions.
type SubscriberFactory func(sessionID string) cart.Subscriber

// Manager owns all live sessions and persists per-session state (cart
// snapshot, UTM) to the session-scoped key/value store.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	store    kvstore.Store
	factory  SubscriberFactory
}

func NewManager(ttl time.Duration, store kvstore.Store, factory SubscriberFactory) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		store:    store,
		factory:  factory,
	}
}

// GetOrCreate returns the live session for id, restores one from a persisted
// snapshot, or creates a fresh session when id is empty or unknown.
func (m *Manager) GetOrCreate(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if s, ok := m.sessions[id]; ok {
			s.LastSeen = time.Now()
			return s
		}
	}
	if id == "" {
		id = uuid.NewString()
	}

	s := &Session{
		ID:       id,
		Cart:     cart.NewStore(),
		utm:      make(map[string]string),
		LastSeen: time.Now(),
	}
	if m.factory != nil {
		s.Cart.Subscribe(m.factory(id))
	}
	m.restoreLocked(s)
	m.sessions[id] = s

	logrus.WithField("session_id", id).Info("Session created")
	return s
}

// MergeUTM records attribution for the session; first capture wins. The
// snapshot is marshaled while the session lock is held so a concurrent
// capture cannot mutate the map mid-encode.
func (m *Manager) MergeUTM(s *Session, params map[string]string) {
	if len(params) == 0 {
		return
	}
	s.mu.Lock()
	changed := false
	for k, v := range params {
		if _, ok := s.utm[k]; !ok {
			s.utm[k] = v
			changed = true
		}
	}
	var data []byte
	var err error
	if changed {
		data, err = json.Marshal(s.utm)
	}
	s.mu.Unlock()

	if !changed || err != nil {
		return
	}
	if err := m.store.Set(utmKey(s.ID), data); err != nil {
		logrus.WithError(err).WithField("session_id", s.ID).Warn("Failed to persist UTM params")
	}
}

// SaveSnapshot persists the session's cart lines so they survive a restart
// of the in-process session map.
func (m *Manager) SaveSnapshot(s *Session) {
	data, err := json.Marshal(s.Cart.Items())
	if err != nil {
		logrus.WithError(err).WithField("session_id", s.ID).Error("Failed to marshal cart snapshot")
		return
	}
	if err := m.store.Set(cartKey(s.ID), data); err != nil {
		logrus.WithError(err).WithField("session_id", s.ID).Warn("Failed to persist cart snapshot")
	}
}

func (m *Manager) restoreLocked(s *Session) {
	if raw, ok := m.store.Get(cartKey(s.ID)); ok {
		var items []models.CartItem
		if err := json.Unmarshal(raw, &items); err != nil {
			logrus.WithError(err).WithField("session_id", s.ID).Warn("Discarding corrupt cart snapshot")
		} else {
			s.Cart.Restore(items)
		}
	}
	if raw, ok := m.store.Get(utmKey(s.ID)); ok {
		var utm map[string]string
		if err := json.Unmarshal(raw, &utm); err == nil {
			for k, v := range utm {
				s.utm[k] = v
			}
		}
	}
}

// Sweep drops sessions idle past the TTL, along with their persisted state.
// Returns the number of removed sessions.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-m.ttl)
	removed := 0
	for id, s := range m.sessions {
		if s.LastSeen.Before(cutoff) {
			delete(m.sessions, id)
			m.store.Delete(cartKey(id))
			m.store.Delete(utmKey(id))
			removed++
		}
	}
	if removed > 0 {
		logrus.WithField("count", removed).Info("Swept expired sessions")
	}
	return removed
}

// StartSweeper schedules the periodic session sweep.
func (m *Manager) StartSweeper(schedule string) {
	c := cron.New()
	id, err := c.AddFunc(schedule, func() {
		m.Sweep()
	})
	if err != nil {
		logrus.WithError(err).Fatal("Invalid cron expression")
	}
	jobIDs["sessionSweep"] = id
	c.Start()
	logrus.WithField("schedule", schedule).Info("Scheduler started for session sweeping")
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart_%s", sessionID)
}

func utmKey(sessionID string) string {
	return fmt.Sprintf("utm_params_%s", sessionID)
}
