package repositories

import (
	"car-maneuver-service/internal/domain"
	"car-maneuver-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Postgres-backed implementation of the ManeuverRepository port.
type PostgresManeuverRepository struct{ DB *sql.DB }

func NewPostgresManeuverRepository(db *sql.DB) *PostgresManeuverRepository {
	return &PostgresManeuverRepository{DB: db}
}

// Store a maneuver and replace its steps, in one transaction.
func (s *PostgresManeuverRepository) SaveManeuver(ctx context.Context, m *domain.Maneuver) (err error) {
	defer obs.Time(ctx, "maneuver.repo.Save")(&err)

	if s.DB == nil {
		return errors.New("postgres maneuver repository: DB is nil")
	}
	if m == nil || m.ID == "" {
		return errors.New("save maneuver: maneuver must have an id")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save maneuver: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO maneuvers (
		maneuver_id, started_at, finished_at,
		start_x, start_y, start_orientation,
		destination_x, destination_y, status
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (maneuver_id) DO UPDATE
	SET finished_at = EXCLUDED.finished_at,
		status = EXCLUDED.status;
	`,
		m.ID, m.StartedAt, m.FinishedAt,
		m.Start.Position.X, m.Start.Position.Y, m.Start.Orientation.String(),
		m.Destination.X, m.Destination.Y, string(m.Status),
	)
	if err != nil {
		return fmt.Errorf("save maneuver id=%s: upsert maneuver: %w", m.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM maneuver_steps WHERE maneuver_id = $1;`, m.ID); err != nil {
		return fmt.Errorf("save maneuver id=%s: clear steps: %w", m.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO maneuver_steps (
		maneuver_id, seq, kind, distance, direction,
		after_x, after_y, after_orientation
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`)
	if err != nil {
		return fmt.Errorf("save maneuver: db prepare: %w", err)
	}
	defer stmt.Close()

	for i, step := range m.Steps {
		var (
			distance  sql.NullFloat64
			direction sql.NullString
		)
		switch a := step.Action.(type) {
		case domain.Move:
			distance = sql.NullFloat64{Float64: a.Distance, Valid: true}
		case domain.Turn:
			direction = sql.NullString{String: a.Direction.String(), Valid: true}
		default:
			return fmt.Errorf("save maneuver id=%s: step %d: unexpected action %q", m.ID, i+1, step.Action.Kind())
		}

		_, err := stmt.ExecContext(ctx,
			m.ID, i+1, string(step.Action.Kind()), distance, direction,
			step.After.Position.X, step.After.Position.Y, step.After.Orientation.String(),
		)
		if err != nil {
			return fmt.Errorf("save maneuver id=%s: insert step %d: %w", m.ID, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save maneuver commit: %w", err)
	}

	return nil
}

// Return the most recent maneuvers with their steps, newest first.
func (s *PostgresManeuverRepository) ListManeuvers(ctx context.Context, limit int) (_ []*domain.Maneuver, err error) {
	defer obs.Time(ctx, "maneuver.repo.List")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres maneuver repository: DB is nil")
	}
	if limit <= 0 {
		return []*domain.Maneuver{}, nil
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		maneuver_id, started_at, finished_at,
		start_x, start_y, start_orientation,
		destination_x, destination_y, status
	FROM maneuvers
	ORDER BY started_at DESC, maneuver_id
	LIMIT $1;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list maneuvers: query maneuvers table: %w", err)
	}
	defer rows.Close()

	maneuvers := make([]*domain.Maneuver, 0, limit)
	byID := make(map[string]*domain.Maneuver, limit)
	ids := make([]string, 0, limit)
	for rows.Next() {
		var (
			m           domain.Maneuver
			finishedAt  sql.NullTime
			orientation string
			status      string
		)
		err := rows.Scan(
			&m.ID, &m.StartedAt, &finishedAt,
			&m.Start.Position.X, &m.Start.Position.Y, &orientation,
			&m.Destination.X, &m.Destination.Y, &status,
		)
		if err != nil {
			return nil, fmt.Errorf("list maneuvers: scan row: %w", err)
		}

		if m.Start.Orientation, err = domain.ParseOrientation(orientation); err != nil {
			return nil, fmt.Errorf("list maneuvers: maneuver %s: %w", m.ID, err)
		}
		if finishedAt.Valid {
			t := finishedAt.Time
			m.FinishedAt = &t
		}
		m.Status = domain.ManeuverStatus(status)
		m.Steps = []domain.Step{}

		maneuvers = append(maneuvers, &m)
		byID[m.ID] = &m
		ids = append(ids, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list maneuvers: row iteration: %w", err)
	}

	if len(ids) == 0 {
		return maneuvers, nil
	}

	if err := s.loadSteps(ctx, ids, byID); err != nil {
		return nil, fmt.Errorf("list maneuvers: %w", err)
	}

	return maneuvers, nil
}

// loadSteps attaches steps in seq order; each step's Before is the previous
// step's After (or the maneuver start).
func (s *PostgresManeuverRepository) loadSteps(ctx context.Context, ids []string, byID map[string]*domain.Maneuver) error {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT
		maneuver_id, kind, distance, direction,
		after_x, after_y, after_orientation
	FROM maneuver_steps
	WHERE maneuver_id = ANY($1::text[])
	ORDER BY maneuver_id, seq;
	`, ids)
	if err != nil {
		return fmt.Errorf("query maneuver_steps table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id          string
			kind        string
			distance    sql.NullFloat64
			direction   sql.NullString
			after       domain.VehicleState
			orientation string
		)
		if err := rows.Scan(&id, &kind, &distance, &direction, &after.Position.X, &after.Position.Y, &orientation); err != nil {
			return fmt.Errorf("scan step row: %w", err)
		}

		m, ok := byID[id]
		if !ok {
			continue
		}

		if after.Orientation, err = domain.ParseOrientation(orientation); err != nil {
			return fmt.Errorf("maneuver %s: %w", id, err)
		}

		action, err := decodeAction(kind, distance, direction)
		if err != nil {
			return fmt.Errorf("maneuver %s: %w", id, err)
		}

		m.Steps = append(m.Steps, domain.Step{Action: action, Before: m.Final(), After: after})
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("step row iteration: %w", err)
	}
	return nil
}

func decodeAction(kind string, distance sql.NullFloat64, direction sql.NullString) (domain.Action, error) {
	switch domain.ActionKind(kind) {
	case domain.KindMove:
		if !distance.Valid {
			return nil, errors.New("move step without distance")
		}
		return domain.NewMove(distance.Float64), nil
	case domain.KindTurn:
		dir, err := domain.ParseTurnDirection(direction.String)
		if err != nil {
			return nil, err
		}
		return domain.Turn{Direction: dir}, nil
	}
	return nil, fmt.Errorf("unknown step kind %q", kind)
}

// Delete maneuvers that started before cutoff. Returns the number removed.
func (s *PostgresManeuverRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("postgres maneuver repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM maneuvers WHERE started_at < $1;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune maneuvers: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune maneuvers: rows affected: %w", err)
	}
	return n, nil
}
