package domain_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/addressbook/internal/domain"
	"github.com/utafrali/addressbook/internal/field"
	"github.com/utafrali/addressbook/internal/hook"
	apperrors "github.com/utafrali/addressbook/pkg/errors"
)

func TestLoadAndLoadAll(t *testing.T) {
	env := newTestEnv(t)
	book := env.books.Get(7)
	ctx := context.Background()

	a := book.NewAddress()
	require.True(t, a.SetName("home"))
	b := book.NewAddress()
	require.NoError(t, a.Save(ctx))
	require.NoError(t, b.Save(ctx))

	// Every Get builds a fresh book over the same store.
	fresh := env.books.Get(7)

	loaded, err := fresh.Load(ctx, a.ID())
	require.NoError(t, err)
	assert.Equal(t, "home", loaded.Name())
	assert.False(t, loaded.IsDirty(), "loaded addresses start clean")

	// Loading again returns the same member, not a second copy.
	again, err := fresh.Load(ctx, a.ID())
	require.NoError(t, err)
	assert.Same(t, loaded, again)

	all, err := fresh.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Same(t, loaded, fresh.FindByName("home"))
}

func TestLoadWrongOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.books.Get(7).NewAddress()
	require.NoError(t, a.Save(ctx))

	_, err := env.books.Get(8).Load(ctx, a.ID())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteAddress(t *testing.T) {
	env := newTestEnv(t)
	book := env.books.Get(7)
	ctx := context.Background()

	var deleted int64
	env.hooks.OnPostDelete(func(_ context.Context, a hook.Address) { deleted = a.ID() })

	a := book.NewAddress()
	require.NoError(t, a.Save(ctx))
	aid := a.ID()

	ok, err := book.DeleteAddress(ctx, a)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, aid, deleted)
	assert.Empty(t, book.Addresses())
	assert.Equal(t, 1, env.store.deletes)

	_, err = env.store.GetByID(ctx, aid)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteDefaultRefused(t *testing.T) {
	env := newTestEnv(t)
	book := env.books.Get(7)
	ctx := context.Background()

	a := book.NewAddress()
	require.NoError(t, a.SetAsDefault(domain.KindShipping))
	require.NoError(t, a.Save(ctx))

	ok, err := a.Delete(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "a default address must not be deletable")
	assert.Len(t, book.Addresses(), 1)
	assert.Equal(t, 0, env.store.deletes)
}

func TestDeleteFailureKeepsMembership(t *testing.T) {
	env := newTestEnv(t)
	book := env.books.Get(7)
	ctx := context.Background()

	a := book.NewAddress()
	require.NoError(t, a.Save(ctx))

	env.store.failDelete = true
	_, err := book.DeleteAddress(ctx, a)
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
	assert.Len(t, book.Addresses(), 1)
}

func TestDeleteUnsaved(t *testing.T) {
	env := newTestEnv(t)
	book := env.books.Get(7)

	a := book.NewAddress()
	book.DeleteUnsaved(a)
	assert.Empty(t, book.Addresses())
	assert.Equal(t, 0, env.store.deletes)
}

func TestAddAddress(t *testing.T) {
	env := newTestEnv(t)
	book := env.books.Get(7)
	ctx := context.Background()

	a := book.NewAddress()
	require.NoError(t, a.Save(ctx))

	// Re-adding a member is a silent no-op.
	require.NoError(t, book.AddAddress(a))
	assert.Len(t, book.Addresses(), 1)

	// A different address under an occupied id is rejected.
	_, err := book.Restore(domain.Record{domain.FieldID: a.ID()})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateAddress)
}

func TestRestoreObservesTemporaryIDs(t *testing.T) {
	env := newTestEnv(t)
	book := env.books.Get(7)

	restored, err := book.Restore(domain.Record{
		domain.FieldID: int64(-4),
		field.City:     "Mbeya",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-4), restored.ID())
	assert.False(t, restored.IsDirty())

	// The sequence moves past the restored id.
	fresh := book.NewAddress()
	assert.Equal(t, int64(-5), fresh.ID())
}

func TestSetAddressOwner(t *testing.T) {
	env := newTestEnv(t)
	anonymous := env.books.Get(0)
	owned := env.books.Get(7)
	ctx := context.Background()

	a := anonymous.NewAddress()
	require.NoError(t, a.SetField(field.City, "Zanzibar"))

	require.NoError(t, anonymous.SetAddressOwner(a, owned))
	assert.Equal(t, int64(7), a.Owner())
	assert.Empty(t, anonymous.Addresses())
	assert.Len(t, owned.Addresses(), 1)

	require.NoError(t, a.Save(ctx))
	assert.Positive(t, a.ID())

	// Once owned, the address can not be reassigned.
	err := owned.SetAddressOwner(a, env.books.Get(8))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestSaveDirty(t *testing.T) {
	env := newTestEnv(t)
	book := env.books.Get(7)
	ctx := context.Background()

	a := book.NewAddress()
	b := book.NewAddress()
	require.NoError(t, a.SetAsDefault(domain.KindShipping))
	require.NoError(t, book.SaveDirty(ctx))

	// Promoting b dirties both; one SaveDirty persists the swap.
	require.NoError(t, b.SetAsDefault(domain.KindShipping))
	require.NoError(t, book.SaveDirty(ctx))
	assert.False(t, a.IsDirty())
	assert.False(t, b.IsDirty())

	recA, err := env.store.GetByID(ctx, a.ID())
	require.NoError(t, err)
	assert.False(t, recA.Bool(field.DefaultShipping))

	recB, err := env.store.GetByID(ctx, b.ID())
	require.NoError(t, err)
	assert.True(t, recB.Bool(field.DefaultShipping))
}

func TestGetBuildsIndependentBooks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.books.Get(7)
	saved := first.NewAddress()
	require.NoError(t, saved.Save(ctx))
	unsaved := first.NewAddress()

	// A second Get must not see the first book's unsaved member.
	second := env.books.Get(7)
	all, err := second.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, saved.ID(), all[0].ID())
	assert.True(t, unsaved.IsNew())
}

func TestConcurrentBooksSameOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			book := env.books.Get(7)
			if _, err := book.LoadAll(ctx); err != nil {
				errs <- err
				return
			}
			a := book.NewAddress()
			if err := a.SetField(field.City, "Mwanza"); err != nil {
				errs <- err
				return
			}
			errs <- a.Save(ctx)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	all, err := env.books.Get(7).LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, writers)
}
