// Package store persists the last comparison so the CLI and TUI can resume it.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rgehrsitz/comparatrib/internal/config"
	"github.com/rgehrsitz/comparatrib/internal/domain"
)

// ErrNoSession is returned by Load when nothing has been saved yet
var ErrNoSession = errors.New("no saved session")

// AppState is the explicit application state carried between runs
type AppState struct {
	Input   domain.CalculationInput  `yaml:"input" json:"input"`
	Result  *domain.ComparisonResult `yaml:"result,omitempty" json:"result,omitempty"`
	SavedAt time.Time                `yaml:"saved_at" json:"savedAt"`
}

// Store loads and saves the application state
type Store interface {
	Load(ctx context.Context) (*AppState, error)
	Save(ctx context.Context, state *AppState) error
	Clear(ctx context.Context) error
	Close() error
}

// NopStore keeps nothing; Load always reports ErrNoSession
type NopStore struct{}

func (NopStore) Load(context.Context) (*AppState, error) { return nil, ErrNoSession }
func (NopStore) Save(context.Context, *AppState) error   { return nil }
func (NopStore) Clear(context.Context) error             { return nil }
func (NopStore) Close() error                            { return nil }

// Open returns the store selected by store.driver
func Open(ctx context.Context, settings config.Settings) (Store, error) {
	switch settings.Store.Driver {
	case "file", "":
		return NewFileStore(settings.Store.Path), nil
	case "postgres":
		return NewPostgresStore(ctx, settings.Store.DSN, settings.Store.Session)
	case "none":
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", settings.Store.Driver)
	}
}

// stamp sets SavedAt and writes the period out explicitly; a zero period would
// not load back
func stamp(state *AppState) {
	if state.SavedAt.IsZero() {
		state.SavedAt = time.Now().UTC()
	}
	state.Input.Period = state.Input.EffectivePeriod()
}
