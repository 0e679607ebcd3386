package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// DB is the store handle services run against. *sqlx.DB satisfies it.
type DB interface {
	sqlx.ExtContext
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// FanoutMode selects how a primary insert and its dependent inserts are
// written.
type FanoutMode string

const (
	// FanoutAtomic writes the primary row and its dependents in one
	// transaction.
	FanoutAtomic FanoutMode = "atomic"
	// FanoutSequential commits the primary row first and inserts dependents
	// one at a time. A dependent failure leaves the primary row in place.
	FanoutSequential FanoutMode = "sequential"
)

func ParseFanoutMode(raw string) (FanoutMode, error) {
	switch FanoutMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FanoutAtomic:
		return FanoutAtomic, nil
	case FanoutSequential:
		return FanoutSequential, nil
	default:
		return "", fmt.Errorf("unknown fan-out mode %q", raw)
	}
}

type writeStep func(ctx context.Context, ext sqlx.ExtContext) error

type fanout struct {
	primary    writeStep
	dependents []writeStep
}

// fanoutResult reports how far a fan-out got. PrimaryDone stays true after a
// failure only when the primary row was committed.
type fanoutResult struct {
	PrimaryDone bool
	Written     int
}

func (f fanout) run(ctx context.Context, db DB, mode FanoutMode) (fanoutResult, error) {
	if mode == FanoutSequential || len(f.dependents) == 0 {
		return f.runSequential(ctx, db)
	}
	return f.runAtomic(ctx, db)
}

func (f fanout) runSequential(ctx context.Context, db sqlx.ExtContext) (fanoutResult, error) {
	var res fanoutResult
	if err := f.primary(ctx, db); err != nil {
		return res, err
	}
	res.PrimaryDone = true
	for _, step := range f.dependents {
		if err := step(ctx, db); err != nil {
			return res, err
		}
		res.Written++
	}
	return res, nil
}

func (f fanout) runAtomic(ctx context.Context, db DB) (fanoutResult, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fanoutResult{}, WrapError(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err := f.primary(ctx, tx); err != nil {
		return fanoutResult{}, err
	}
	for _, step := range f.dependents {
		if err := step(ctx, tx); err != nil {
			return fanoutResult{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return fanoutResult{}, WrapError(err, "commit transaction")
	}
	return fanoutResult{PrimaryDone: true, Written: len(f.dependents)}, nil
}

// PartialWrite is the payload of a partial_write error: the primary record
// that was stored and how many of its dependents made it.
type PartialWrite struct {
	Record            interface{} `json:"record"`
	DependentsWritten int         `json:"dependents_written"`
	DependentsTotal   int         `json:"dependents_total"`
}

// fanoutError turns a failed fan-out into a ServiceError. A committed
// primary row with missing dependents is reported as a partial write.
func fanoutError(res fanoutResult, total int, record interface{}, entity string, err error) error {
	if res.PrimaryDone {
		return ErrPartialWrite(
			fmt.Sprintf("%s created but incomplete: %d of %d related records written", entity, res.Written, total),
			PartialWrite{Record: record, DependentsWritten: res.Written, DependentsTotal: total},
			err,
		)
	}
	return classify(err, "create "+entity)
}
