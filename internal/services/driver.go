package services

import (
	"car-maneuver-service/internal/domain"
	"car-maneuver-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidDestination = errors.New("destination must be a finite point")
	ErrTapOnVehicle       = errors.New("tap landed on the vehicle")
	ErrManeuverInProgress = errors.New("maneuver in progress")
	ErrDriverClosed       = errors.New("driver closed")
)

// Driver runs the control loop for the session's single vehicle.
//
// It owns the VehicleState: the planner is asked for the next action, the
// action is applied to the state and handed to the Animator, and only once
// the animation has completed is the next action planned. Input is locked
// for the whole maneuver, so a tap can never overwrite a running step.
//
// The Driver is safe for concurrent use.
type Driver struct {
	animator ports.Animator
	store    ports.VehicleStateStore
	repo     ports.ManeuverRepository

	maxSteps int
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	state   domain.VehicleState
	current *domain.Maneuver
	closed  bool
}

type DriverOption func(*Driver)

func WithMaxSteps(n int) DriverOption {
	return func(d *Driver) {
		if n > 0 {
			d.maxSteps = n
		}
	}
}

func WithClock(now func() time.Time) DriverOption {
	return func(d *Driver) { d.now = now }
}

// NewDriver restores the last saved vehicle state from store, falling back to
// initial when nothing was saved.
func NewDriver(
	ctx context.Context,
	initial domain.VehicleState,
	animator ports.Animator,
	store ports.VehicleStateStore,
	repo ports.ManeuverRepository,
	opts ...DriverOption,
) (*Driver, error) {
	if animator == nil || store == nil || repo == nil {
		return nil, errors.New("new driver: animator, store and repo must be non-nil")
	}

	state := initial
	saved, ok, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("new driver: load vehicle state: %w", err)
	}
	if ok {
		state = saved
	}
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("new driver: %w", err)
	}

	d := &Driver{
		animator: animator,
		store:    store,
		repo:     repo,
		maxSteps: DefaultMaxSteps,
		now:      time.Now,
		state:    state,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.ctx, d.cancel = context.WithCancel(context.WithoutCancel(ctx))
	return d, nil
}

// State returns a snapshot of the vehicle state.
func (d *Driver) State() domain.VehicleState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Busy reports whether a maneuver is in progress (input is locked).
func (d *Driver) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current != nil
}

// CurrentManeuverID returns the ID of the running maneuver, or "".
func (d *Driver) CurrentManeuverID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current == nil {
		return ""
	}
	return d.current.ID
}

// Tap starts a maneuver towards p in the background and returns its ID.
// Taps on the vehicle itself and taps while moving are rejected.
func (d *Driver) Tap(p domain.Position) (string, error) {
	m, err := d.begin(p)
	if err != nil {
		return "", err
	}

	go func() {
		defer d.wg.Done()
		if err := d.run(d.ctx, m); err != nil {
			log.Printf("maneuver=%s err=%v", m.ID, err)
		}
	}()

	return m.ID, nil
}

// Drive runs a maneuver towards p and blocks until the vehicle arrives or
// ctx is cancelled.
func (d *Driver) Drive(ctx context.Context, p domain.Position) (*domain.Maneuver, error) {
	m, err := d.begin(p)
	if err != nil {
		return nil, err
	}

	defer d.wg.Done()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(d.ctx, cancel)
	defer stop()

	if err := d.run(ctx, m); err != nil {
		return m, err
	}
	return m, nil
}

// Wait blocks until no maneuver is running.
func (d *Driver) Wait() {
	d.wg.Wait()
}

// Close aborts any running maneuver, interrupting its current animation,
// and waits for it to be recorded. Later taps fail with ErrDriverClosed.
func (d *Driver) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()
}

// begin validates the tap and takes the input lock. On success the caller
// owns one count of d.wg.
func (d *Driver) begin(p domain.Position) (*domain.Maneuver, error) {
	if !p.IsFinite() {
		return nil, ErrInvalidDestination
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrDriverClosed
	}
	if d.current != nil {
		return nil, fmt.Errorf("%w: %s", ErrManeuverInProgress, d.current.ID)
	}
	if d.state.Contains(p) {
		return nil, ErrTapOnVehicle
	}

	m := &domain.Maneuver{
		ID:          uuid.NewString(),
		StartedAt:   d.now(),
		Start:       d.state,
		Destination: p,
		Steps:       []domain.Step{},
		Status:      domain.StatusRunning,
	}
	d.current = m
	d.wg.Add(1)
	return m, nil
}

// run is the driver loop proper. It always releases the input lock and
// records the maneuver, whatever the outcome.
func (d *Driver) run(ctx context.Context, m *domain.Maneuver) (err error) {
	log.Printf("maneuver=%s start=(%.1f,%.1f) heading=%s dest=(%.1f,%.1f)",
		m.ID, m.Start.Position.X, m.Start.Position.Y, m.Start.Orientation, m.Destination.X, m.Destination.Y)

	defer func() {
		status := domain.StatusArrived
		if err != nil {
			status = domain.StatusAborted
		}

		d.mu.Lock()
		m.Finish(status, d.now())
		d.current = nil
		d.mu.Unlock()

		// Recording outlives the maneuver's context so aborted runs are kept too.
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if saveErr := d.repo.SaveManeuver(saveCtx, m); saveErr != nil {
			err = errors.Join(err, fmt.Errorf("drive: save maneuver: %w", saveErr))
		}

		log.Printf("maneuver=%s status=%s steps=%d distance=%.1f", m.ID, m.Status, len(m.Steps), m.TotalDistance())
	}()

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("drive: %w", err)
		}

		d.mu.Lock()
		before := d.state
		d.mu.Unlock()

		action := NextAction(before, m.Destination)
		if action.Kind() == domain.KindArrived {
			return nil
		}

		if len(m.Steps) >= d.maxSteps {
			return fmt.Errorf("drive: %w after %d steps", ErrPlanDidNotConverge, d.maxSteps)
		}

		after := before
		after.Apply(action)
		step := domain.Step{Action: action, Before: before, After: after}

		d.mu.Lock()
		d.state = after
		m.Steps = append(m.Steps, step)
		d.mu.Unlock()

		if err := d.store.Save(ctx, after); err != nil {
			log.Printf("maneuver=%s save vehicle state failed: %v", m.ID, err)
		}

		log.Printf("maneuver=%s step=%d action=%s", m.ID, len(m.Steps), describe(action))

		if err := d.animator.Animate(ctx, domain.AnimationFor(step)); err != nil {
			return fmt.Errorf("drive: animate step %d: %w", len(m.Steps), err)
		}
	}
}

func describe(a domain.Action) string {
	switch a := a.(type) {
	case domain.Move:
		return fmt.Sprintf("move(%.1f)", a.Distance)
	case domain.Turn:
		return fmt.Sprintf("turn(%s)", a.Direction)
	default:
		return string(a.Kind())
	}
}
