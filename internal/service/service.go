// Package service implements the ledger engine on top of the domain
// model: account and type registry maintenance, record entry, summary
// aggregation, and document import/export. All mutators follow the same
// discipline: clone the state, change the clone, persist it, and only
// then make it the current state. A failed save therefore leaves both
// memory and storage exactly as they were.
package service

import (
	"context"
	"log/slog"
	"time"

	"ledgerbook/internal/core"
)

// Store is the persistence surface the engine needs.
type Store interface {
	Save(ctx context.Context, state *core.State) error
	Load(ctx context.Context) (*core.State, error)
}

// Change identifies which slice of state a committed mutation touched.
type Change int

const (
	ChangeAccounts Change = iota
	ChangeRecords
	ChangeTypes
)

// Listener receives change notifications after a successful commit.
type Listener func(Change)

type Ledger struct {
	store     Store
	actor     string
	clock     func() time.Time
	state     *core.State
	listeners []Listener
}

type Option func(*Ledger)

// WithClock overrides the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) { l.clock = clock }
}

// New loads the persisted state and returns a ready engine. actor is
// stamped into the audit-trail fields of every record written.
func New(ctx context.Context, store Store, actor string, opts ...Option) (*Ledger, error) {
	state, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}

	l := &Ledger{
		store: store,
		actor: actor,
		clock: time.Now,
		state: state,
	}
	for _, opt := range opts {
		opt(l)
	}

	slog.InfoContext(ctx, "Ledger loaded",
		"component", "service",
		"accounts", len(state.Settings.Accounts),
		"records", len(state.Records))
	return l, nil
}

// Subscribe registers a listener for post-commit notifications.
func (l *Ledger) Subscribe(fn Listener) {
	l.listeners = append(l.listeners, fn)
}

// commit persists next and, only on success, makes it the current state
// and notifies listeners.
func (l *Ledger) commit(ctx context.Context, next *core.State, changes ...Change) error {
	if err := l.store.Save(ctx, next); err != nil {
		return err
	}
	l.state = next
	for _, change := range changes {
		for _, fn := range l.listeners {
			fn(change)
		}
	}
	return nil
}

func (l *Ledger) now() string {
	return l.clock().Format(time.RFC3339)
}
