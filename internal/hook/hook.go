// Package hook implements the extension-point registry for the address book.
//
// Subscribers register observation callbacks (pre-save, post-insert,
// post-update, post-delete) and veto predicates (may-view, may-edit,
// may-delete). Observation callbacks have no consumed return value. A veto
// predicate can only turn a permit into a deny, never the reverse: if any
// registered predicate returns false the operation is denied.
package hook

import (
	"context"
	"sync"
)

// Address is the read/write view of an address exposed to hook subscribers.
type Address interface {
	ID() int64
	Owner() int64
	Name() string
	IsDefault(kind string) bool
	GetField(name string) (any, error)
	SetField(name string, value any) error
}

// NotifyFunc is an observation callback invoked around address lifecycle events.
type NotifyFunc func(ctx context.Context, address Address)

// VetoFunc is a veto predicate. The address argument is nil when the check
// is address-agnostic (e.g. "may this user view any address of this owner").
type VetoFunc func(owner int64, address Address) bool

// Registry holds all registered hook subscribers.
type Registry struct {
	mu         sync.RWMutex
	preSave    []NotifyFunc
	postInsert []NotifyFunc
	postUpdate []NotifyFunc
	postDelete []NotifyFunc
	mayView    []VetoFunc
	mayEdit    []VetoFunc
	mayDelete  []VetoFunc
}

// NewRegistry creates an empty hook registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// OnPreSave registers a callback invoked just before an address is persisted.
// The callback may still mutate the address.
func (r *Registry) OnPreSave(fn NotifyFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.preSave = append(r.preSave, fn)
}

// OnPostInsert registers a callback invoked after the first successful persist.
func (r *Registry) OnPostInsert(fn NotifyFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.postInsert = append(r.postInsert, fn)
}

// OnPostUpdate registers a callback invoked after a successful update.
func (r *Registry) OnPostUpdate(fn NotifyFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.postUpdate = append(r.postUpdate, fn)
}

// OnPostDelete registers a callback invoked after an address is deleted.
func (r *Registry) OnPostDelete(fn NotifyFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.postDelete = append(r.postDelete, fn)
}

// OnMayView registers a veto predicate for view access.
func (r *Registry) OnMayView(fn VetoFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mayView = append(r.mayView, fn)
}

// OnMayEdit registers a veto predicate for edit access.
func (r *Registry) OnMayEdit(fn VetoFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mayEdit = append(r.mayEdit, fn)
}

// OnMayDelete registers a veto predicate for delete access.
func (r *Registry) OnMayDelete(fn VetoFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mayDelete = append(r.mayDelete, fn)
}

// PreSave invokes all pre-save callbacks.
func (r *Registry) PreSave(ctx context.Context, address Address) {
	r.notify(ctx, address, snapshot(r, &r.preSave))
}

// PostInsert invokes all post-insert callbacks.
func (r *Registry) PostInsert(ctx context.Context, address Address) {
	r.notify(ctx, address, snapshot(r, &r.postInsert))
}

// PostUpdate invokes all post-update callbacks.
func (r *Registry) PostUpdate(ctx context.Context, address Address) {
	r.notify(ctx, address, snapshot(r, &r.postUpdate))
}

// PostDelete invokes all post-delete callbacks.
func (r *Registry) PostDelete(ctx context.Context, address Address) {
	r.notify(ctx, address, snapshot(r, &r.postDelete))
}

// MayView returns false if any registered view veto denies the operation.
func (r *Registry) MayView(owner int64, address Address) bool {
	return r.veto(owner, address, snapshot(r, &r.mayView))
}

// MayEdit returns false if any registered edit veto denies the operation.
func (r *Registry) MayEdit(owner int64, address Address) bool {
	return r.veto(owner, address, snapshot(r, &r.mayEdit))
}

// MayDelete returns false if any registered delete veto denies the operation.
func (r *Registry) MayDelete(owner int64, address Address) bool {
	return r.veto(owner, address, snapshot(r, &r.mayDelete))
}

// snapshot copies a subscriber list under the read lock so dispatch never
// holds the lock while running callbacks.
func snapshot[T any](r *Registry, list *[]T) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, len(*list))
	copy(out, *list)
	return out
}

func (r *Registry) notify(ctx context.Context, address Address, fns []NotifyFunc) {
	for _, fn := range fns {
		fn(ctx, address)
	}
}

func (r *Registry) veto(owner int64, address Address, fns []VetoFunc) bool {
	for _, fn := range fns {
		if !fn(owner, address) {
			return false
		}
	}
	return true
}
