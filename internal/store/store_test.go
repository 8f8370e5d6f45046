package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rgehrsitz/comparatrib/internal/calculation"
	"github.com/rgehrsitz/comparatrib/internal/compare"
	"github.com/rgehrsitz/comparatrib/internal/config"
	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState(t *testing.T) *AppState {
	t.Helper()
	iss := decimal.RequireFromString("0.05")
	input := domain.CalculationInput{
		RBT12:    decimal.NewFromInt(1200000),
		Activity: domain.ActivityServico,
		ISSRate:  &iss,
		Period:   domain.Annual,
	}
	result, err := compare.NewComparator(calculation.NewEngine()).Compare(context.Background(), input, compare.Options{})
	require.NoError(t, err)
	return &AppState{Input: input, Result: result}
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := NewFileStore(filepath.Join(t.TempDir(), "nested", "session.yaml"))

	_, err := fs.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	state := sampleState(t)
	require.NoError(t, fs.Save(ctx, state))
	assert.False(t, state.SavedAt.IsZero())

	loaded, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.True(t, state.Input.RBT12.Equal(loaded.Input.RBT12))
	assert.Equal(t, domain.ActivityServico, loaded.Input.Activity)
	require.NotNil(t, loaded.Input.ISSRate)
	assert.True(t, state.Input.ISSRate.Equal(*loaded.Input.ISSRate))
	assert.Equal(t, 12, loaded.Input.Period.Months)
	assert.WithinDuration(t, state.SavedAt, loaded.SavedAt, time.Millisecond)

	require.NotNil(t, loaded.Result)
	assert.Equal(t, state.Result.BestOption, loaded.Result.BestOption)
	assert.Equal(t, state.Result.Ranking, loaded.Result.Ranking)
	for regime, rr := range state.Result.Regimes {
		got, ok := loaded.Result.Regimes[regime]
		require.True(t, ok, "regime %s missing", regime)
		assert.True(t, rr.TotalTax.Equal(got.TotalTax), "regime %s: %s != %s", regime, rr.TotalTax, got.TotalTax)
	}
}

func TestFileStore_OverwriteAndClear(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.yaml")
	fs := NewFileStore(path)

	first := sampleState(t)
	require.NoError(t, fs.Save(ctx, first))

	second := &AppState{Input: domain.CalculationInput{
		RBT12:    decimal.NewFromInt(300000),
		Activity: domain.ActivityComercio,
		Period:   domain.Quarterly,
	}}
	require.NoError(t, fs.Save(ctx, second))

	loaded, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityComercio, loaded.Input.Activity)
	assert.Nil(t, loaded.Result)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")

	require.NoError(t, fs.Clear(ctx))
	require.NoError(t, fs.Clear(ctx))
	_, err = fs.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input: [unterminated"), 0o644))

	_, err := NewFileStore(path).Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	var s config.Settings

	s.Store.Driver = "none"
	st, err := Open(ctx, s)
	require.NoError(t, err)
	_, err = st.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	s.Store.Driver = "file"
	s.Store.Path = filepath.Join(t.TempDir(), "s.yaml")
	st, err = Open(ctx, s)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, st)

	s.Store.Driver = "redis"
	_, err = Open(ctx, s)
	assert.Error(t, err)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("COMPARATRIB_TEST_DSN")
	if dsn == "" {
		t.Skip("COMPARATRIB_TEST_DSN not set")
	}
	ctx := context.Background()
	ps, err := NewPostgresStore(ctx, dsn, "test-"+t.Name())
	require.NoError(t, err)
	defer ps.Close()
	require.NoError(t, ps.Clear(ctx))

	state := sampleState(t)
	require.NoError(t, ps.Save(ctx, state))
	loaded, err := ps.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, state.Result.BestOption, loaded.Result.BestOption)

	require.NoError(t, ps.Clear(ctx))
	_, err = ps.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}
