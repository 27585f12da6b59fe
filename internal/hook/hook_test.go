package hook_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/utafrali/addressbook/internal/hook"
)

func TestNotifyOrder(t *testing.T) {
	r := hook.NewRegistry()

	var calls []string
	r.OnPreSave(func(context.Context, hook.Address) { calls = append(calls, "first") })
	r.OnPreSave(func(context.Context, hook.Address) { calls = append(calls, "second") })

	r.PreSave(context.Background(), nil)
	assert.Equal(t, []string{"first", "second"}, calls, "subscribers run in registration order")
}

func TestLifecycleChannelsAreIndependent(t *testing.T) {
	r := hook.NewRegistry()

	counts := make(map[string]int)
	r.OnPostInsert(func(context.Context, hook.Address) { counts["insert"]++ })
	r.OnPostUpdate(func(context.Context, hook.Address) { counts["update"]++ })
	r.OnPostDelete(func(context.Context, hook.Address) { counts["delete"]++ })

	ctx := context.Background()
	r.PostInsert(ctx, nil)
	r.PostInsert(ctx, nil)
	r.PostUpdate(ctx, nil)

	assert.Equal(t, 2, counts["insert"])
	assert.Equal(t, 1, counts["update"])
	assert.Equal(t, 0, counts["delete"])
}

func TestVetoSemantics(t *testing.T) {
	t.Run("no subscribers permits", func(t *testing.T) {
		r := hook.NewRegistry()
		assert.True(t, r.MayView(7, nil))
		assert.True(t, r.MayEdit(7, nil))
		assert.True(t, r.MayDelete(7, nil))
	})

	t.Run("any false denies", func(t *testing.T) {
		r := hook.NewRegistry()
		r.OnMayEdit(func(int64, hook.Address) bool { return true })
		r.OnMayEdit(func(int64, hook.Address) bool { return false })
		r.OnMayEdit(func(int64, hook.Address) bool { return true })
		assert.False(t, r.MayEdit(7, nil))
	})

	t.Run("veto channels are independent", func(t *testing.T) {
		r := hook.NewRegistry()
		r.OnMayView(func(int64, hook.Address) bool { return false })
		r.OnMayEdit(func(int64, hook.Address) bool { return true })
		r.OnMayDelete(func(int64, hook.Address) bool { return true })
		assert.False(t, r.MayView(7, nil))
		assert.True(t, r.MayEdit(7, nil))
		assert.True(t, r.MayDelete(7, nil))
	})

	t.Run("vetoes see the owner", func(t *testing.T) {
		r := hook.NewRegistry()
		r.OnMayDelete(func(owner int64, _ hook.Address) bool { return owner != 7 })
		assert.False(t, r.MayDelete(7, nil))
		assert.True(t, r.MayDelete(8, nil))
	})
}
