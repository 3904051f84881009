package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// timeLayout has fixed-width fractions so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Status is the lifecycle state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// ErrRunNotFound is returned when a run ID is unknown.
var ErrRunNotFound = errors.New("run not found")

// Run is one performer build.
type Run struct {
	ID           string
	Performer    string
	Status       Status
	FailureClass string
	Songs        int
	Pages        int
	Bytes        int64
	OutputPath   string
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Duration returns the wall time of a finished run.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Start records a new running row.
func (s *Store) Start(ctx context.Context, id, performer string, startedAt time.Time) error {
	_, err := s.exec(ctx,
		`INSERT INTO runs (id, performer, status, started_at) VALUES (?, ?, ?, ?)`,
		id, performer, StatusRunning, startedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Finish stores the outcome of run. The row must have been created by Start.
func (s *Store) Finish(ctx context.Context, run Run) error {
	finished := run.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	res, err := s.exec(ctx,
		`UPDATE runs SET status = ?, failure_class = ?, songs = ?, pages = ?, bytes = ?,
            output_path = ?, error_message = ?, finished_at = ?
        WHERE id = ?`,
		run.Status,
		nullableString(run.FailureClass),
		run.Songs,
		run.Pages,
		run.Bytes,
		nullableString(run.OutputPath),
		nullableString(run.ErrorMessage),
		finished.UTC().Format(timeLayout),
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, run.ID)
	}
	return nil
}

const runColumns = `id, performer, status, failure_class, songs, pages, bytes,
    output_path, error_message, started_at, finished_at`

// Get returns the run with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// Recent returns up to limit runs, newest first. An empty performer matches
// every run.
func (s *Store) Recent(ctx context.Context, performer string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + runColumns + ` FROM runs`
	args := []any{}
	if performer != "" {
		query += ` WHERE performer = ?`
		args = append(args, performer)
	}
	query += ` ORDER BY started_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run                                 Run
		status                              string
		class, output, message, finishedRaw sql.NullString
		startedRaw                          string
	)
	if err := sc.Scan(
		&run.ID, &run.Performer, &status, &class, &run.Songs, &run.Pages, &run.Bytes,
		&output, &message, &startedRaw, &finishedRaw,
	); err != nil {
		return Run{}, err
	}
	run.Status = Status(status)
	run.FailureClass = class.String
	run.OutputPath = output.String
	run.ErrorMessage = message.String
	run.StartedAt = parseTime(startedRaw)
	if finishedRaw.Valid {
		run.FinishedAt = parseTime(finishedRaw.String)
	}
	return run, nil
}

func parseTime(value string) time.Time {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
