package permission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/utafrali/addressbook/internal/hook"
	"github.com/utafrali/addressbook/internal/permission"
)

const superID = int64(1)

// stubAddress is a minimal hook.Address for evaluator tests.
type stubAddress struct {
	id, owner int64
	shipping  bool
	billing   bool
}

func (s *stubAddress) ID() int64    { return s.id }
func (s *stubAddress) Owner() int64 { return s.owner }
func (s *stubAddress) Name() string { return "" }

func (s *stubAddress) IsDefault(kind string) bool {
	switch kind {
	case "shipping":
		return s.shipping
	case "billing":
		return s.billing
	}
	return false
}
func (s *stubAddress) GetField(string) (any, error) { return nil, nil }
func (s *stubAddress) SetField(string, any) error   { return nil }

func actor(id int64, caps ...permission.Capability) permission.Actor {
	return permission.Actor{UserID: id, Caps: permission.NewSet(caps...)}
}

func TestCanViewOwn(t *testing.T) {
	e := permission.NewEvaluator(hook.NewRegistry(), superID)
	plain := &stubAddress{id: 10, owner: 7}
	def := &stubAddress{id: 11, owner: 7, shipping: true}

	t.Run("view own sees everything", func(t *testing.T) {
		a := actor(7, permission.ViewOwn)
		assert.True(t, e.CanView(a, 7, nil))
		assert.True(t, e.CanView(a, 7, plain))
		assert.True(t, e.CanView(a, 7, def))
	})

	t.Run("defaults-only grant sees only defaults", func(t *testing.T) {
		a := actor(7, permission.ViewOwnDefault)
		assert.True(t, e.CanView(a, 7, nil), "book-level question is answered optimistically")
		assert.False(t, e.CanView(a, 7, plain))
		assert.True(t, e.CanView(a, 7, def))
	})

	t.Run("edit own implies view own", func(t *testing.T) {
		a := actor(7, permission.EditOwn)
		assert.True(t, e.CanView(a, 7, plain))
	})

	t.Run("no grant sees nothing", func(t *testing.T) {
		a := actor(7)
		assert.False(t, e.CanView(a, 7, nil))
		assert.False(t, e.CanView(a, 7, def))
	})
}

func TestCanViewOthers(t *testing.T) {
	e := permission.NewEvaluator(hook.NewRegistry(), superID)
	plain := &stubAddress{id: 10, owner: 7}
	def := &stubAddress{id: 11, owner: 7, billing: true}

	t.Run("own grants do not reach other books", func(t *testing.T) {
		a := actor(9, permission.ViewOwn, permission.EditOwn, permission.DeleteOwn)
		assert.False(t, e.CanView(a, 7, plain))
		assert.False(t, e.CanView(a, 7, nil))
	})

	t.Run("view all defaults sees only defaults", func(t *testing.T) {
		a := actor(9, permission.ViewAllDefaults)
		assert.True(t, e.CanView(a, 7, nil))
		assert.False(t, e.CanView(a, 7, plain))
		assert.True(t, e.CanView(a, 7, def))
	})

	t.Run("view all sees everything", func(t *testing.T) {
		a := actor(9, permission.ViewAll)
		assert.True(t, e.CanView(a, 7, plain))
	})
}

func TestCanEdit(t *testing.T) {
	e := permission.NewEvaluator(hook.NewRegistry(), superID)
	plain := &stubAddress{id: 10, owner: 7}

	assert.True(t, e.CanEdit(actor(7, permission.EditOwn), 7, plain))
	assert.False(t, e.CanEdit(actor(7, permission.ViewOwn), 7, plain))
	assert.False(t, e.CanEdit(actor(9, permission.EditOwn), 7, plain))
	assert.True(t, e.CanEdit(actor(9, permission.EditAll), 7, plain))
}

func TestCanDelete(t *testing.T) {
	e := permission.NewEvaluator(hook.NewRegistry(), superID)
	plain := &stubAddress{id: 10, owner: 7}
	def := &stubAddress{id: 11, owner: 7, shipping: true}

	assert.True(t, e.CanDelete(actor(7, permission.DeleteOwn), 7, plain))
	assert.False(t, e.CanDelete(actor(7, permission.DeleteOwn), 7, def),
		"defaults are never deletable")
	assert.False(t, e.CanDelete(actor(9, permission.DeleteOwn), 7, plain))
	assert.True(t, e.CanDelete(actor(9, permission.DeleteAll), 7, plain))
}

func TestSuperIdentity(t *testing.T) {
	e := permission.NewEvaluator(hook.NewRegistry(), superID)
	plain := &stubAddress{id: 10, owner: 7}
	def := &stubAddress{id: 11, owner: 7, shipping: true}

	super := actor(superID)
	assert.True(t, e.CanView(super, 7, plain))
	assert.True(t, e.CanEdit(super, 7, plain))
	assert.True(t, e.CanDelete(super, 7, plain))

	// The default-address rule binds even the super identity.
	assert.False(t, e.CanDelete(super, 7, def))
}

func TestSuperIdentityDisabled(t *testing.T) {
	e := permission.NewEvaluator(hook.NewRegistry(), 0)
	plain := &stubAddress{id: 10, owner: 7}

	assert.False(t, e.CanView(actor(1), 7, plain))
}

func TestVetoes(t *testing.T) {
	hooks := hook.NewRegistry()
	e := permission.NewEvaluator(hooks, superID)
	plain := &stubAddress{id: 10, owner: 7}

	// One permissive subscriber, one that vetoes address id 10.
	hooks.OnMayView(func(int64, hook.Address) bool { return true })
	hooks.OnMayView(func(_ int64, a hook.Address) bool {
		return a == nil || a.ID() != 10
	})
	hooks.OnMayEdit(func(int64, hook.Address) bool { return false })
	hooks.OnMayDelete(func(int64, hook.Address) bool { return false })

	viewer := actor(7, permission.ViewOwn, permission.EditOwn, permission.DeleteOwn)
	assert.False(t, e.CanView(viewer, 7, plain), "any veto denies")
	assert.True(t, e.CanView(viewer, 7, nil))
	assert.False(t, e.CanEdit(viewer, 7, plain))
	assert.False(t, e.CanDelete(viewer, 7, plain))

	// The super identity bypasses vetoes.
	super := actor(superID)
	assert.True(t, e.CanView(super, 7, plain))
	assert.True(t, e.CanEdit(super, 7, plain))
	assert.True(t, e.CanDelete(super, 7, plain))
}
