package api

import (
	"car-maneuver-service/internal/adapters/animation"
	"car-maneuver-service/internal/adapters/cache"
	"car-maneuver-service/internal/adapters/repositories"
	"car-maneuver-service/internal/api/dto"
	"car-maneuver-service/internal/domain"
	"car-maneuver-service/internal/services"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler  http.Handler
	driver   *services.Driver
	recorder *animation.Recorder
	repo     *repositories.MemoryManeuverRepository
}

func newTestServer(t *testing.T, initial domain.VehicleState) *testServer {
	t.Helper()

	s := &testServer{
		recorder: animation.NewRecorder(),
		repo:     repositories.NewMemoryManeuverRepository(),
	}

	d, err := services.NewDriver(context.Background(), initial, s.recorder, cache.NewMemoryVehicleStore(), s.repo)
	require.NoError(t, err)
	t.Cleanup(d.Close)

	s.driver = d
	s.handler = NewRouter(d, s.repo, 0)
	return s
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func upAt(x, y float64) domain.VehicleState {
	return domain.VehicleState{Position: domain.Position{X: x, Y: y}, Orientation: domain.Up}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, upAt(0, 0))

	rec := s.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = s.do(http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t, upAt(0, 0))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestGetVehicle(t *testing.T) {
	s := newTestServer(t, upAt(195, 794))

	rec := s.do(http.MethodGet, "/vehicle", "")
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[dto.VehicleResponse](t, rec)
	assert.Equal(t, dto.PositionDTO{X: 195, Y: 794}, res.Position)
	assert.Equal(t, "up", res.Orientation)
	assert.False(t, res.Busy)
	assert.Empty(t, res.ManeuverID)
	assert.Equal(t, domain.TurningRadius, res.TurningRadius)
	assert.Equal(t, domain.CarWidth, res.Width)
	assert.Equal(t, domain.CarLength, res.Length)
}

func TestTapDrivesVehicle(t *testing.T) {
	s := newTestServer(t, upAt(0, 0))

	rec := s.do(http.MethodPost, "/taps", `{"x":150,"y":0}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	res := decode[dto.TapResponse](t, rec)
	require.NotEmpty(t, res.ManeuverID)
	assert.Equal(t, dto.PositionDTO{X: 150, Y: 0}, res.Destination)

	s.driver.Wait()
	assert.Equal(t, domain.VehicleState{Position: domain.Position{X: 80, Y: -70}, Orientation: domain.Right}, s.driver.State())

	rec = s.do(http.MethodGet, "/maneuvers", "")
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[dto.ListManeuversResponse](t, rec)
	require.Len(t, list.Maneuvers, 1)
	m := list.Maneuvers[0]
	assert.Equal(t, res.ManeuverID, m.ManeuverID)
	assert.Equal(t, "arrived", m.Status)
	require.Len(t, m.Steps, 2)
	assert.Equal(t, "turn", m.Steps[0].Action)
	assert.Equal(t, "right", m.Steps[0].Direction)
	assert.Equal(t, "move", m.Steps[1].Action)
	require.NotNil(t, m.Steps[1].Distance)
	assert.InDelta(t, 10, *m.Steps[1].Distance, 1e-9)
}

func TestTapWhileMovingConflicts(t *testing.T) {
	s := newTestServer(t, upAt(0, 0))

	entered := make(chan struct{}, 8)
	release := make(chan struct{})
	s.recorder.Hook = func(ctx context.Context, _ domain.Animation) error {
		entered <- struct{}{}
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	rec := s.do(http.MethodPost, "/taps", `{"x":0,"y":-400}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("animation never started")
	}

	rec = s.do(http.MethodGet, "/vehicle", "")
	vehicle := decode[dto.VehicleResponse](t, rec)
	assert.True(t, vehicle.Busy)
	assert.NotEmpty(t, vehicle.ManeuverID)

	rec = s.do(http.MethodPost, "/taps", `{"x":300,"y":300}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	close(release)
	s.driver.Wait()
}

func TestTapRejections(t *testing.T) {
	s := newTestServer(t, upAt(100, 100))

	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"on vehicle", http.MethodPost, `{"x":100,"y":120}`, http.StatusUnprocessableEntity},
		{"missing y", http.MethodPost, `{"x":100}`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, `{"x":1,"y":2,"z":3}`, http.StatusBadRequest},
		{"two objects", http.MethodPost, `{"x":1,"y":2}{"x":1,"y":2}`, http.StatusBadRequest},
		{"not json", http.MethodPost, `tap`, http.StatusBadRequest},
		{"wrong method", http.MethodGet, ``, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(tt.method, "/taps", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	assert.False(t, s.driver.Busy())
	assert.Empty(t, s.recorder.Animations())
}

func TestPlanFromCurrentState(t *testing.T) {
	s := newTestServer(t, upAt(0, 0))

	rec := s.do(http.MethodPost, "/plans", `{"x":0,"y":-200}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.ManeuverResponse](t, rec)
	assert.Equal(t, "arrived", res.Status)
	assert.Empty(t, res.ManeuverID)
	assert.Nil(t, res.StartedAt)
	require.Len(t, res.Steps, 1)
	require.NotNil(t, res.Steps[0].Distance)
	assert.Equal(t, 130.0, *res.Steps[0].Distance)
	assert.Equal(t, dto.PositionDTO{X: 0, Y: -130}, res.Steps[0].After.Position)
	assert.Equal(t, 130.0, res.TotalDistance)

	// A dry run never moves the vehicle.
	assert.Equal(t, upAt(0, 0), s.driver.State())
	assert.Empty(t, s.recorder.Animations())
}

func TestPlanFromGivenState(t *testing.T) {
	s := newTestServer(t, upAt(0, 0))

	rec := s.do(http.MethodPost, "/plans", `{"x":-300,"y":0,"from":{"position":{"x":0,"y":0},"orientation":"left"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.ManeuverResponse](t, rec)
	assert.Equal(t, "left", res.Start.Orientation)
	require.Len(t, res.Steps, 1)
	assert.Equal(t, "move", res.Steps[0].Action)
	assert.Equal(t, dto.PositionDTO{X: -230, Y: 0}, res.Steps[0].After.Position)
}

func TestPlanRejections(t *testing.T) {
	s := newTestServer(t, upAt(0, 0))

	rec := s.do(http.MethodPost, "/plans", `{"x":1,"y":2,"from":{"position":{"x":0,"y":0},"orientation":"north"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/plans", `{"y":2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/plans", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListManeuversLimit(t *testing.T) {
	s := newTestServer(t, upAt(0, 0))

	for _, bad := range []string{"0", "101", "many"} {
		rec := s.do(http.MethodGet, "/maneuvers?limit="+bad, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", bad)
	}

	rec := s.do(http.MethodGet, "/maneuvers?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"maneuvers":[]}`, rec.Body.String())
}
