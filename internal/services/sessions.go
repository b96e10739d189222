package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"city-direction-service/internal/domain"
	"city-direction-service/internal/geo"
	"city-direction-service/internal/heading"
	"city-direction-service/internal/logger"
	"city-direction-service/internal/metrics"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidTransition  = errors.New("action not allowed in current stage")
	ErrGestureTooShort    = errors.New("gesture shorter than minimum swipe length")
	ErrInvalidOrientation = errors.New("orientation does not describe a heading")
)

// Session owns one heading aggregator. Its mutex is the single writer the
// aggregator requires; sensor readings and user actions queue on it.
type session struct {
	mu         sync.Mutex
	id         string
	location   domain.Coordinates
	agg        *heading.Aggregator
	prediction *domain.Prediction
	lastSeen   time.Time
}

// SessionView is a point-in-time copy of a session.
type SessionView struct {
	ID              string
	Stage           heading.Stage
	Location        domain.Coordinates
	DeviceHeading   float64
	GestureHeading  *float64
	ResolvedBearing *float64
	// Set once resolved; nil with a resolved bearing means no match.
	Prediction *domain.Prediction
}

type SessionStoreConfig struct {
	MinSwipeLength float64
	TTL            time.Duration
}

// SessionStore hosts prediction sessions for remote UI clients.
// Safe for concurrent use.
type SessionStore struct {
	mu        sync.RWMutex
	sessions  map[string]*session
	predictor *Predictor
	minSwipe  float64
	ttl       time.Duration
	now       func() time.Time
}

func NewSessionStore(predictor *Predictor, cfg SessionStoreConfig) *SessionStore {
	if cfg.MinSwipeLength <= 0 {
		cfg.MinSwipeLength = DefaultMinSwipeLength
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 15 * time.Minute
	}
	return &SessionStore{
		sessions:  make(map[string]*session),
		predictor: predictor,
		minSwipe:  cfg.MinSwipeLength,
		ttl:       cfg.TTL,
		now:       time.Now,
	}
}

// Create starts a session for a user at location.
func (s *SessionStore) Create(ctx context.Context, location domain.Coordinates) SessionView {
	sess := &session{
		id:       uuid.NewString(),
		location: location,
		agg:      heading.NewAggregator(),
		lastSeen: s.now(),
	}

	// Nothing else can reach sess until it is in the map.
	v := sess.view()

	s.mu.Lock()
	s.sessions[sess.id] = sess
	metrics.SessionsActive.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	logger.FromContext(ctx).Debug("session created", zap.String("session_id", sess.id))

	return v
}

func (s *SessionStore) Get(id string) (SessionView, error) {
	return s.with(id, func(*session) error { return nil })
}

func (s *SessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	metrics.SessionsActive.Set(float64(len(s.sessions)))
	return nil
}

// Ready marks the sensors live. Repeated calls are accepted and change nothing.
func (s *SessionStore) Ready(id string) (SessionView, error) {
	return s.with(id, func(sess *session) error {
		sess.agg.SensorsReady()
		return nil
	})
}

// RecordOrientation feeds a device orientation reading. Accepted in any stage.
// A reading with no defined azimuth is refused and the previous heading stays.
func (s *SessionStore) RecordOrientation(id string, q geo.Quaternion) (SessionView, error) {
	return s.with(id, func(sess *session) error {
		bearing := geo.BearingFromOrientation(q)
		if math.IsNaN(bearing) {
			return ErrInvalidOrientation
		}
		sess.agg.RecordDeviceHeading(bearing)
		return nil
	})
}

// RecordGesture interprets a swipe and hands its bearing to the aggregator.
func (s *SessionStore) RecordGesture(id string, start, end domain.Point) (SessionView, error) {
	return s.with(id, func(sess *session) error {
		// Out-of-order calls report the transition, whatever the swipe.
		if sess.agg.Stage() != heading.StageAwaitingGesture {
			return ErrInvalidTransition
		}
		bearing, ok := GestureBearing(start, end, s.minSwipe)
		if !ok {
			return ErrGestureTooShort
		}
		if !sess.agg.RecordGesture(bearing) {
			return ErrInvalidTransition
		}
		return nil
	})
}

// Approve resolves the bearing and runs the prediction for it.
func (s *SessionStore) Approve(ctx context.Context, id string) (SessionView, error) {
	return s.with(id, func(sess *session) error {
		if !sess.agg.Approve() {
			return ErrInvalidTransition
		}
		bearing, _ := sess.agg.ResolvedBearing()
		if pred, ok := s.predictor.Predict(ctx, sess.location, bearing); ok {
			sess.prediction = &pred
		}
		return nil
	})
}

// Deny drops the gesture (and any result) so the user can draw again.
func (s *SessionStore) Deny(id string) (SessionView, error) {
	return s.with(id, func(sess *session) error {
		if !sess.agg.Deny() {
			return ErrInvalidTransition
		}
		sess.prediction = nil
		return nil
	})
}

// Sweep evicts sessions idle for longer than the TTL and returns how many.
func (s *SessionStore) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastSeen.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			evicted++
		}
	}
	metrics.SessionsActive.Set(float64(len(s.sessions)))
	return evicted
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *SessionStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logger.FromContext(ctx).Info("evicted idle sessions", zap.Int("count", n))
			}
		}
	}
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// with runs fn holding the session lock and returns the resulting view,
// also on error, so callers can report the current stage.
func (s *SessionStore) with(id string, fn func(*session) error) (SessionView, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return SessionView{}, ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.lastSeen = s.now()
	err := fn(sess)
	return sess.view(), err
}

// view must be called with sess.mu held, or before sess is published.
func (sess *session) view() SessionView {
	v := SessionView{
		ID:            sess.id,
		Stage:         sess.agg.Stage(),
		Location:      sess.location,
		DeviceHeading: sess.agg.DeviceHeading(),
	}
	if g, ok := sess.agg.GestureHeading(); ok {
		v.GestureHeading = &g
	}
	if b, ok := sess.agg.ResolvedBearing(); ok {
		v.ResolvedBearing = &b
	}
	if sess.prediction != nil {
		p := *sess.prediction
		v.Prediction = &p
	}
	return v
}
