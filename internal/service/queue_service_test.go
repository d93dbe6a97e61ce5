package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/coinplan/internal/domain"
	"github.com/alexanderramin/coinplan/internal/queue"
	"github.com/alexanderramin/coinplan/internal/repository"
	"github.com/alexanderramin/coinplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueService_AddAppends(t *testing.T) {
	f := newFixture(t)
	f.addCurrency(t, "gems", 0, 10)

	a := f.addEvent(t, "A", "gems", 10, false)
	b := f.addEvent(t, "B", "gems", 20, true)

	assert.Equal(t, 0, a.Priority)
	assert.Equal(t, 1, b.Priority)
	assert.Equal(t, a.ID, b.LockedTo(), "lock joins the previous event")
	assert.Equal(t, []string{"A", "B"}, f.names(t))

	last := f.observer.last()
	assert.Equal(t, "add-event", last.Name)
	assert.True(t, last.Success)
}

func TestQueueService_AddFirstEventIgnoresLock(t *testing.T) {
	f := newFixture(t)
	f.addCurrency(t, "gems", 0, 10)

	a := f.addEvent(t, "A", "gems", 10, true)
	assert.False(t, a.IsChained())
}

func TestQueueService_AddValidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addCurrency(t, "gems", 0, 10)

	_, err := f.Queue.Add(ctx, testutil.NewTestEvent("A", "coins", 10), false)
	assert.ErrorIs(t, err, repository.ErrNotFound, "unknown currency")

	_, err = f.Queue.Add(ctx, testutil.NewTestEvent("A", "gems", 0), false)
	assert.Error(t, err)

	_, err = f.Queue.Add(ctx, testutil.NewTestEvent("  ", "gems", 5), false)
	assert.Error(t, err)

	assert.Empty(t, f.names(t))
}

func TestQueueService_Resolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addCurrency(t, "gems", 0, 10)
	a := f.addEvent(t, "A", "gems", 10, false)
	f.addEvent(t, "B", "gems", 10, false)

	got, err := f.Queue.Resolve(ctx, "#2")
	require.NoError(t, err)
	assert.Equal(t, "B", got.Name)

	got, err = f.Queue.Resolve(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)

	_, err = f.Queue.Resolve(ctx, "#3")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.Queue.Resolve(ctx, "#0")
	assert.ErrorIs(t, err, ErrInvalidRef)
	_, err = f.Queue.Resolve(ctx, "#x")
	assert.ErrorIs(t, err, ErrInvalidRef)
	_, err = f.Queue.Resolve(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestQueueService_RemoveUnlinksDependents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addCurrency(t, "gems", 0, 10)
	a := f.addEvent(t, "A", "gems", 10, false)
	b := f.addEvent(t, "B", "gems", 10, true)

	require.NoError(t, f.Queue.Remove(ctx, a.ID))

	got, err := f.Queue.Resolve(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, got.IsChained())
	assert.Equal(t, 0, got.Priority)

	assert.ErrorIs(t, f.Queue.Remove(ctx, a.ID), repository.ErrNotFound)
}

func TestQueueService_Clone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addCurrency(t, "gems", 0, 10)
	a := f.addEvent(t, "A", "gems", 10, false)
	f.addEvent(t, "B", "gems", 10, false)

	clone, err := f.Queue.Clone(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A"+queue.CopySuffix, clone.Name)
	assert.NotEqual(t, a.ID, clone.ID)
	assert.Equal(t, []string{"A", "A (copy)", "B"}, f.names(t))

	_, err = f.Queue.Clone(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestQueueService_MoveCarriesChain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addCurrency(t, "gems", 0, 10)
	f.addEvent(t, "A", "gems", 10, false)
	f.addEvent(t, "B", "gems", 10, false)
	f.addEvent(t, "C", "gems", 10, true)

	moved, err := f.Queue.Move(ctx, 1, 0)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, []string{"B", "C", "A"}, f.names(t))

	moved, err = f.Queue.Move(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, moved, "a chained non-head cannot move on its own")
	assert.Equal(t, []string{"B", "C", "A"}, f.names(t))

	assert.Equal(t, false, f.observer.last().Fields["moved"])
}

func TestQueueService_ToggleChain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addCurrency(t, "gems", 0, 10)
	a := f.addEvent(t, "A", "gems", 10, false)
	b := f.addEvent(t, "B", "gems", 10, false)

	res, err := f.Queue.ToggleChain(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, queue.NotApplicable, res)

	res, err = f.Queue.ToggleChain(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, queue.Linked, res)
	got, _ := f.Queue.Resolve(ctx, b.ID)
	assert.Equal(t, a.ID, got.LockedTo())

	res, err = f.Queue.ToggleChain(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, queue.Unlinked, res)

	_, err = f.Queue.ToggleChain(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestQueueService_SaveNormalizes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := testutil.NewTestEvent("A", "gems", 1, testutil.WithEventID("a"), testutil.WithPriority(7), testutil.WithLockedTo("b"))
	b := testutil.NewTestEvent("B", "gems", 1, testutil.WithEventID("b"), testutil.WithPriority(3), testutil.WithLockedTo("a"))
	c := testutil.NewTestEvent("C", "gems", 1, testutil.WithEventID("c"), testutil.WithPriority(9), testutil.WithLockedTo("gone"))
	require.NoError(t, f.Queue.Save(ctx, []domain.SpendingEvent{a, b, c}))

	q, err := f.Queue.List(ctx)
	require.NoError(t, err)
	require.Len(t, q, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{q[0].ID, q[1].ID, q[2].ID})
	assert.Equal(t, 2, q[2].Priority)
	assert.Empty(t, queue.Validate(q), "cycle and dangling lock are cleared")

	bad := testutil.NewTestEvent("", "gems", 1)
	assert.Error(t, f.Queue.Save(ctx, []domain.SpendingEvent{bad}))
}

func TestQueueService_RollbackOnWriteFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addCurrency(t, "gems", 0, 10)
	f.addEvent(t, "A", "gems", 10, false)
	f.addEvent(t, "B", "gems", 10, false)

	// ExecContext calls in a rewrite: #1 = delete, #2 = insert A, #3 = insert B.
	f.rewire(&testutil.FailOnNthExecUoW{DB: f.db, FailOn: 3, Err: assert.AnError})

	_, err := f.Queue.Move(ctx, 1, 0)
	require.ErrorIs(t, err, assert.AnError)

	assert.Equal(t, []string{"A", "B"}, f.names(t), "queue is unchanged after rollback")
	assert.False(t, f.observer.last().Success)
}
