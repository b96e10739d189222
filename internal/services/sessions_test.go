package services

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"city-direction-service/internal/catalog"
	"city-direction-service/internal/domain"
	"city-direction-service/internal/geo"
	"city-direction-service/internal/heading"
	"city-direction-service/internal/metrics"
)

func yaw(deg float64) geo.Quaternion {
	half := deg * math.Pi / 360
	return geo.Quaternion{0, 0, math.Sin(half), math.Cos(half)}
}

var (
	swipeStart = domain.Point{X: 200, Y: 600}
	swipeUp    = domain.Point{X: 200, Y: 300}
	swipeRight = domain.Point{X: 500, Y: 600}
)

func newTestSessions(t *testing.T) *SessionStore {
	t.Helper()
	store := catalog.NewStore(mustCatalog(t, cardinalCities...))
	return NewSessionStore(NewPredictor(store, DefaultAngleThreshold), SessionStoreConfig{})
}

func TestSessionStore_FullFlow(t *testing.T) {
	ctx := context.Background()
	s := newTestSessions(t)

	v := s.Create(ctx, manhattan)
	require.NotEmpty(t, v.ID)
	assert.Equal(t, heading.StageAwaitingSensors, v.Stage)
	assert.Equal(t, 1, s.Len())

	v, err := s.Ready(v.ID)
	require.NoError(t, err)
	assert.Equal(t, heading.StageAwaitingGesture, v.Stage)

	// Device faces east; the user swipes straight ahead.
	v, err = s.RecordOrientation(v.ID, yaw(90))
	require.NoError(t, err)
	assert.InDelta(t, 90, v.DeviceHeading, 1e-9)

	v, err = s.RecordGesture(v.ID, swipeStart, swipeUp)
	require.NoError(t, err)
	assert.Equal(t, heading.StageAwaitingApproval, v.Stage)
	require.NotNil(t, v.GestureHeading)
	assert.Less(t, geo.AngularDifference(*v.GestureHeading, 0), 1e-9)

	v, err = s.Approve(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, heading.StageResolved, v.Stage)
	require.NotNil(t, v.ResolvedBearing)
	assert.InDelta(t, 90, *v.ResolvedBearing, 1e-9)
	require.NotNil(t, v.Prediction)
	assert.Equal(t, "east", v.Prediction.City.Capital)
	assert.Equal(t, 3, v.Prediction.DistanceKm)

	// Report more: deny drops the result and waits for a new gesture.
	v, err = s.Deny(v.ID)
	require.NoError(t, err)
	assert.Equal(t, heading.StageAwaitingGesture, v.Stage)
	assert.Nil(t, v.Prediction)
	assert.Nil(t, v.GestureHeading)
	assert.Nil(t, v.ResolvedBearing)

	// Device still faces east; swiping right points south.
	_, err = s.RecordGesture(v.ID, swipeStart, swipeRight)
	require.NoError(t, err)
	v, err = s.Approve(ctx, v.ID)
	require.NoError(t, err)
	require.NotNil(t, v.Prediction)
	assert.Equal(t, "south", v.Prediction.City.Capital)
}

func TestSessionStore_NoMatch(t *testing.T) {
	ctx := context.Background()
	s := newTestSessions(t)

	v := s.Create(ctx, manhattan)
	_, _ = s.Ready(v.ID)
	_, _ = s.RecordOrientation(v.ID, yaw(45))
	_, err := s.RecordGesture(v.ID, swipeStart, swipeUp)
	require.NoError(t, err)

	v, err = s.Approve(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, heading.StageResolved, v.Stage)
	require.NotNil(t, v.ResolvedBearing)
	assert.Nil(t, v.Prediction)
}

func TestSessionStore_InvalidTransitions(t *testing.T) {
	ctx := context.Background()
	s := newTestSessions(t)
	v := s.Create(ctx, manhattan)

	// Gesture before sensors are ready is ignored.
	got, err := s.RecordGesture(v.ID, swipeStart, swipeUp)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, heading.StageAwaitingSensors, got.Stage)

	_, err = s.Approve(ctx, v.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = s.Deny(v.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Orientation is accepted in any stage.
	got, err = s.RecordOrientation(v.ID, yaw(10))
	require.NoError(t, err)
	assert.InDelta(t, 10, got.DeviceHeading, 1e-9)

	_, err = s.Ready(v.ID)
	require.NoError(t, err)
	got, err = s.Ready(v.ID)
	require.NoError(t, err)
	assert.Equal(t, heading.StageAwaitingGesture, got.Stage)

	_, err = s.RecordGesture(v.ID, swipeStart, swipeUp)
	require.NoError(t, err)
	_, err = s.RecordGesture(v.ID, swipeStart, swipeRight)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = s.Approve(ctx, v.ID)
	require.NoError(t, err)
	_, err = s.Approve(ctx, v.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSessionStore_ShortGesture(t *testing.T) {
	ctx := context.Background()
	s := newTestSessions(t)
	v := s.Create(ctx, manhattan)
	_, _ = s.Ready(v.ID)

	got, err := s.RecordGesture(v.ID, swipeStart, domain.Point{X: 200, Y: 550})
	assert.ErrorIs(t, err, ErrGestureTooShort)
	assert.Equal(t, heading.StageAwaitingGesture, got.Stage)
	assert.Nil(t, got.GestureHeading)
}

func TestSessionStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestSessions(t)

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.Ready("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.Approve(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, s.Delete("missing"), ErrSessionNotFound)

	v := s.Create(ctx, manhattan)
	require.NoError(t, s.Delete(v.ID))
	_, err = s.Get(v.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestSessionStore_Sweep(t *testing.T) {
	ctx := context.Background()
	s := newTestSessions(t)

	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	idle := s.Create(ctx, manhattan)
	active := s.Create(ctx, manhattan)

	now = now.Add(10 * time.Minute)
	_, err := s.Ready(active.ID)
	require.NoError(t, err)

	now = now.Add(6 * time.Minute)
	assert.Equal(t, 1, s.Sweep())

	_, err = s.Get(idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.Get(active.ID)
	assert.NoError(t, err)
}

func TestSessionStore_RunSweeperStops(t *testing.T) {
	s := newTestSessions(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.RunSweeper(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestSessionStore_ConcurrentReadings(t *testing.T) {
	ctx := context.Background()
	s := newTestSessions(t)
	v := s.Create(ctx, manhattan)
	_, _ = s.Ready(v.ID)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if _, err := s.RecordOrientation(v.ID, yaw(float64(i*45))); err != nil {
					t.Errorf("record orientation: %v", err)
					return
				}
				if _, err := s.Get(v.ID); err != nil {
					t.Errorf("get: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	got, err := s.Get(v.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got.DeviceHeading, 0.0)
	assert.Less(t, got.DeviceHeading, 360.0)
}

func TestSessionStore_ShortGestureOutOfOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestSessions(t)
	short := domain.Point{X: 200, Y: 550}

	v := s.Create(ctx, manhattan)
	got, err := s.RecordGesture(v.ID, swipeStart, short)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, heading.StageAwaitingSensors, got.Stage)

	_, _ = s.Ready(v.ID)
	_, err = s.RecordGesture(v.ID, swipeStart, swipeUp)
	require.NoError(t, err)

	got, err = s.RecordGesture(v.ID, swipeStart, short)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, heading.StageAwaitingApproval, got.Stage)
	require.NotNil(t, got.GestureHeading)
	assert.Less(t, geo.AngularDifference(*got.GestureHeading, 0), 1e-9)
}

func TestSessionStore_UndefinedOrientationKeepsHeading(t *testing.T) {
	ctx := context.Background()
	s := newTestSessions(t)
	v := s.Create(ctx, manhattan)

	_, err := s.RecordOrientation(v.ID, yaw(90))
	require.NoError(t, err)

	got, err := s.RecordOrientation(v.ID, geo.Quaternion{1e200, 1e200, 1e200, -1e200})
	assert.ErrorIs(t, err, ErrInvalidOrientation)
	assert.InDelta(t, 90, got.DeviceHeading, 1e-9)

	// The session still resolves normally afterwards.
	_, _ = s.Ready(v.ID)
	_, err = s.RecordGesture(v.ID, swipeStart, swipeUp)
	require.NoError(t, err)
	got, err = s.Approve(ctx, v.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Prediction)
	assert.Equal(t, "east", got.Prediction.City.Capital)
}

func TestSessionStore_ActiveGaugeUnderChurn(t *testing.T) {
	ctx := context.Background()
	s := newTestSessions(t)

	keep := s.Create(ctx, manhattan)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				v := s.Create(ctx, manhattan)
				if err := s.Delete(v.ID); err != nil {
					t.Errorf("delete: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, float64(s.Len()), testutil.ToFloat64(metrics.SessionsActive))

	require.NoError(t, s.Delete(keep.ID))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.SessionsActive))
}
