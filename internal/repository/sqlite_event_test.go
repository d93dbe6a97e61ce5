package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/coinplan/internal/db"
	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/alexanderramin/coinplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepo_ReplaceAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteEventRepo(db)
	ctx := context.Background()

	pass := testutil.NewTestEvent("Battle pass", "gems", 950, testutil.WithPriority(0), testutil.WithDurationDays(42))
	skin := testutil.NewTestEvent("Skin", "coins", 20, testutil.WithPriority(1), testutil.WithLockedTo(pass.ID))
	require.NoError(t, repo.ReplaceQueue(ctx, []domain.SpendingEvent{skin, pass}))

	q, err := repo.ListQueue(ctx)
	require.NoError(t, err)
	require.Len(t, q, 2)
	assert.Equal(t, pass.ID, q[0].ID, "ordered by priority")
	require.NotNil(t, q[0].DurationDays)
	assert.Equal(t, 42, *q[0].DurationDays)
	assert.Nil(t, q[0].LockedToEventID)

	assert.Equal(t, skin.ID, q[1].ID)
	assert.Nil(t, q[1].DurationDays)
	assert.Equal(t, pass.ID, q[1].LockedTo())
	assert.Equal(t, 20.0, q[1].Amount)
	assert.False(t, q[1].CreatedAt.IsZero())
}

func TestEventRepo_ReplaceDropsRemovedEvents(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteEventRepo(db)
	ctx := context.Background()

	a := testutil.NewTestEvent("A", "gems", 1, testutil.WithPriority(0))
	b := testutil.NewTestEvent("B", "gems", 2, testutil.WithPriority(1))
	require.NoError(t, repo.ReplaceQueue(ctx, []domain.SpendingEvent{a, b}))

	b.Priority = 0
	require.NoError(t, repo.ReplaceQueue(ctx, []domain.SpendingEvent{b}))

	q, err := repo.ListQueue(ctx)
	require.NoError(t, err)
	require.Len(t, q, 1)
	assert.Equal(t, b.ID, q[0].ID)

	_, err = repo.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventRepo_DanglingLockSurvives(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteEventRepo(db)
	ctx := context.Background()

	e := testutil.NewTestEvent("Orphan", "gems", 5, testutil.WithLockedTo("gone"))
	require.NoError(t, repo.ReplaceQueue(ctx, []domain.SpendingEvent{e}))

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "gone", got.LockedTo())
}

func TestEventRepo_EmptyLockStoredAsNull(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteEventRepo(db)
	ctx := context.Background()

	e := testutil.NewTestEvent("Free", "gems", 5, testutil.WithLockedTo(""))
	require.NoError(t, repo.ReplaceQueue(ctx, []domain.SpendingEvent{e}))

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LockedToEventID)
}

func TestEventRepo_ReplaceKeepsCreatedAt(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteEventRepo(db)
	ctx := context.Background()

	e := testutil.NewTestEvent("A", "gems", 1)
	e.CreatedAt = e.CreatedAt.AddDate(0, 0, -3)
	require.NoError(t, repo.ReplaceQueue(ctx, []domain.SpendingEvent{e}))

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(e.CreatedAt))
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
}

func TestEventRepo_CountByCurrency(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteEventRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceQueue(ctx, []domain.SpendingEvent{
		testutil.NewTestEvent("A", "gems", 1, testutil.WithPriority(0)),
		testutil.NewTestEvent("B", "gems", 1, testutil.WithPriority(1)),
		testutil.NewTestEvent("C", "coins", 1, testutil.WithPriority(2)),
	}))

	n, err := repo.CountByCurrency(ctx, "gems")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.CountByCurrency(ctx, "tickets")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEventRepo_ReplaceRollsBackInTx(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	original := testutil.NewTestEvent("Keep", "gems", 1)
	require.NoError(t, NewSQLiteEventRepo(database).ReplaceQueue(ctx, []domain.SpendingEvent{original}))

	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 3, Err: assert.AnError}
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return NewSQLiteEventRepo(tx).ReplaceQueue(ctx, []domain.SpendingEvent{
			testutil.NewTestEvent("X", "gems", 1, testutil.WithPriority(0)),
			testutil.NewTestEvent("Y", "gems", 1, testutil.WithPriority(1)),
		})
	})
	require.ErrorIs(t, err, assert.AnError)

	q, err := NewSQLiteEventRepo(database).ListQueue(ctx)
	require.NoError(t, err)
	require.Len(t, q, 1)
	assert.Equal(t, original.ID, q[0].ID)
}
