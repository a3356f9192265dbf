// Package runctx tags one scrape run with an ID that follows it through the
// context, the logger and any fatal error.
package runctx

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type key int

const runKey key = 0

// Run identifies a single invocation of the pipeline.
type Run struct {
	ID        string
	Command   string
	StartTime time.Time
}

// Elapsed returns the time since the run started.
func (r *Run) Elapsed() time.Duration {
	return time.Since(r.StartTime)
}

// Start attaches a new Run and a logger carrying its ID to ctx.
func Start(ctx context.Context, command string) (context.Context, *Run) {
	run := &Run{
		ID:        uuid.NewString(),
		Command:   command,
		StartTime: time.Now(),
	}
	logger := log.Logger.With().
		Str("run_id", run.ID).
		Str("command", command).
		Logger()

	ctx = context.WithValue(ctx, runKey, run)
	return logger.WithContext(ctx), run
}

// From returns the Run stored in ctx, or nil.
func From(ctx context.Context) *Run {
	run, _ := ctx.Value(runKey).(*Run)
	return run
}

// Logger returns the run's logger, falling back to the global logger.
func Logger(ctx context.Context) *zerolog.Logger {
	if From(ctx) == nil {
		return &log.Logger
	}
	return zerolog.Ctx(ctx)
}

// Error wraps a fatal error with the run it ended.
type Error struct {
	RunID string
	Err   error
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("[run %s] %v", e.RunID, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap tags err with the run stored in ctx. A nil err or a context without
// a run is returned unchanged.
func Wrap(ctx context.Context, err error) error {
	run := From(ctx)
	if err == nil || run == nil {
		return err
	}
	return &Error{RunID: run.ID, Err: err}
}
