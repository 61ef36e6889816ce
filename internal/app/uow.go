package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/neomorfeo/onboardiq/internal/domain"
)

type action struct {
	name string
	fn   func(ctx context.Context) error
}

// unitOfWork is an ordered list of transactional steps plus best-effort
// effects that run only after the steps committed.
//
// Steps share one transaction: the first failing step aborts the rest and
// rolls everything back. Errors outside the domain taxonomy are reported as
// a StorageError naming the step. Effects never undo a commit; their
// failures are logged.
type unitOfWork struct {
	tx      domain.Transactor
	steps   []action
	effects []action
}

func newUnitOfWork(tx domain.Transactor) *unitOfWork {
	return &unitOfWork{tx: tx}
}

// step appends a transactional step.
func (u *unitOfWork) step(name string, fn func(ctx context.Context) error) {
	u.steps = append(u.steps, action{name: name, fn: fn})
}

// afterCommit appends a post-commit effect.
func (u *unitOfWork) afterCommit(name string, fn func(ctx context.Context) error) {
	u.effects = append(u.effects, action{name: name, fn: fn})
}

func (u *unitOfWork) run(ctx context.Context) error {
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, s := range u.steps {
			if err := s.fn(ctx); err != nil {
				if domain.IsDomainError(err) {
					return err
				}
				return &domain.StorageError{Op: s.name, Err: err}
			}
		}
		return nil
	})
	if err != nil {
		if domain.IsDomainError(err) {
			return err
		}
		var storageErr *domain.StorageError
		if errors.As(err, &storageErr) {
			return err
		}
		return &domain.StorageError{Op: "commit", Err: err}
	}

	for _, e := range u.effects {
		if err := e.fn(ctx); err != nil {
			slog.WarnContext(ctx, "post-commit effect failed",
				"effect", e.name,
				"kind", domain.KindOf(err),
				"error", err,
			)
		}
	}
	return nil
}
