package services

import (
	"car-maneuver-service/internal/adapters/animation"
	"car-maneuver-service/internal/adapters/cache"
	"car-maneuver-service/internal/adapters/repositories"
	"car-maneuver-service/internal/domain"
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type driverFixture struct {
	driver   *Driver
	recorder *animation.Recorder
	store    *cache.MemoryVehicleStore
	repo     *repositories.MemoryManeuverRepository
}

func newDriverFixture(t *testing.T, initial domain.VehicleState) *driverFixture {
	t.Helper()

	f := &driverFixture{
		recorder: animation.NewRecorder(),
		store:    cache.NewMemoryVehicleStore(),
		repo:     repositories.NewMemoryManeuverRepository(),
	}

	d, err := NewDriver(context.Background(), initial, f.recorder, f.store, f.repo)
	require.NoError(t, err)
	t.Cleanup(d.Close)

	f.driver = d
	return f
}

func TestDriverDriveWithTurn(t *testing.T) {
	f := newDriverFixture(t, state(0, 0, domain.Up))

	m, err := f.driver.Drive(context.Background(), domain.Position{X: 150, Y: 0})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusArrived, m.Status)
	require.NotNil(t, m.FinishedAt)
	require.Len(t, m.Steps, 2)
	assert.Equal(t, state(80, -70, domain.Right), f.driver.State())
	assert.False(t, f.driver.Busy())

	anims := f.recorder.Animations()
	require.Len(t, anims, 2)
	assert.Len(t, anims[0].Tracks, 3)
	assert.Len(t, anims[1].Tracks, 1)

	saved, ok, err := f.store.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, state(80, -70, domain.Right), saved)

	logged, err := f.repo.ListManeuvers(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Equal(t, m.ID, logged[0].ID)
	assert.Len(t, logged[0].Steps, 2)
}

func TestDriverArrivesWithoutAnimating(t *testing.T) {
	f := newDriverFixture(t, state(0, 0, domain.Up))

	m, err := f.driver.Drive(context.Background(), domain.Position{X: 60, Y: 0})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusArrived, m.Status)
	assert.Empty(t, m.Steps)
	assert.Empty(t, f.recorder.Animations())
	assert.Equal(t, state(0, 0, domain.Up), f.driver.State())
}

func TestDriverRejectsTapOnVehicle(t *testing.T) {
	f := newDriverFixture(t, state(100, 100, domain.Up))

	_, err := f.driver.Tap(domain.Position{X: 110, Y: 140})
	require.ErrorIs(t, err, ErrTapOnVehicle)
	assert.False(t, f.driver.Busy())
}

func TestDriverRejectsInvalidDestination(t *testing.T) {
	f := newDriverFixture(t, state(0, 0, domain.Up))

	_, err := f.driver.Tap(domain.Position{X: math.NaN(), Y: 0})
	require.ErrorIs(t, err, ErrInvalidDestination)

	_, err = f.driver.Drive(context.Background(), domain.Position{X: 0, Y: math.Inf(-1)})
	require.ErrorIs(t, err, ErrInvalidDestination)
}

func TestDriverIgnoresTapsWhileMoving(t *testing.T) {
	f := newDriverFixture(t, state(0, 0, domain.Up))

	entered := make(chan struct{}, 8)
	release := make(chan struct{})
	f.recorder.Hook = func(ctx context.Context, _ domain.Animation) error {
		entered <- struct{}{}
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	id, err := f.driver.Tap(domain.Position{X: 0, Y: -400})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("animation never started")
	}

	assert.True(t, f.driver.Busy())
	assert.Equal(t, id, f.driver.CurrentManeuverID())

	_, err = f.driver.Tap(domain.Position{X: 300, Y: 300})
	require.ErrorIs(t, err, ErrManeuverInProgress)

	close(release)
	f.driver.Wait()

	assert.False(t, f.driver.Busy())
	assert.Equal(t, state(0, -330, domain.Up), f.driver.State())

	logged, err := f.repo.ListManeuvers(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Equal(t, id, logged[0].ID)
	assert.Equal(t, domain.StatusArrived, logged[0].Status)
}

func TestDriverCloseAbortsManeuver(t *testing.T) {
	f := newDriverFixture(t, state(0, 0, domain.Up))

	entered := make(chan struct{}, 8)
	f.recorder.Hook = func(ctx context.Context, _ domain.Animation) error {
		entered <- struct{}{}
		<-ctx.Done()
		return ctx.Err()
	}

	_, err := f.driver.Tap(domain.Position{X: 0, Y: -400})
	require.NoError(t, err)
	<-entered

	f.driver.Close()

	logged, err := f.repo.ListManeuvers(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Equal(t, domain.StatusAborted, logged[0].Status)
	assert.Len(t, logged[0].Steps, 1)

	_, err = f.driver.Tap(domain.Position{X: 300, Y: 300})
	require.ErrorIs(t, err, ErrDriverClosed)
}

func TestDriverDriveContextCancelled(t *testing.T) {
	f := newDriverFixture(t, state(0, 0, domain.Up))

	ctx, cancel := context.WithCancel(context.Background())
	f.recorder.Hook = func(context.Context, domain.Animation) error {
		cancel()
		return nil
	}

	m, err := f.driver.Drive(ctx, domain.Position{X: 500, Y: 500})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.StatusAborted, m.Status)
	assert.Len(t, m.Steps, 1)
	assert.False(t, f.driver.Busy())
}

func TestDriverStepLimit(t *testing.T) {
	recorder := animation.NewRecorder()
	d, err := NewDriver(
		context.Background(),
		state(0, 0, domain.Up),
		recorder,
		cache.NewMemoryVehicleStore(),
		repositories.NewMemoryManeuverRepository(),
		WithMaxSteps(1),
	)
	require.NoError(t, err)
	defer d.Close()

	m, err := d.Drive(context.Background(), domain.Position{X: 0, Y: 500})
	require.ErrorIs(t, err, ErrPlanDidNotConverge)
	assert.Equal(t, domain.StatusAborted, m.Status)
	assert.Len(t, recorder.Animations(), 1)
}

func TestNewDriverRestoresSavedState(t *testing.T) {
	store := cache.NewMemoryVehicleStore()
	saved := state(-40, 12, domain.Left)
	require.NoError(t, store.Save(context.Background(), saved))

	d, err := NewDriver(
		context.Background(),
		state(0, 0, domain.Up),
		animation.NewRecorder(),
		store,
		repositories.NewMemoryManeuverRepository(),
	)
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, saved, d.State())
}

func TestNewDriverRejectsInvalidInitialState(t *testing.T) {
	_, err := NewDriver(
		context.Background(),
		state(math.NaN(), 0, domain.Up),
		animation.NewRecorder(),
		cache.NewMemoryVehicleStore(),
		repositories.NewMemoryManeuverRepository(),
	)
	require.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestDriverUsesClock(t *testing.T) {
	at := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	d, err := NewDriver(
		context.Background(),
		state(0, 0, domain.Up),
		animation.NewRecorder(),
		cache.NewMemoryVehicleStore(),
		repositories.NewMemoryManeuverRepository(),
		WithClock(func() time.Time { return at }),
	)
	require.NoError(t, err)
	defer d.Close()

	m, err := d.Drive(context.Background(), domain.Position{X: 0, Y: -200})
	require.NoError(t, err)
	assert.Equal(t, at, m.StartedAt)
	require.NotNil(t, m.FinishedAt)
	assert.Equal(t, at, *m.FinishedAt)
}
