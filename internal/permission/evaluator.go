package permission

import (
	"github.com/utafrali/addressbook/internal/hook"
)

// Actor is the subject of a permission check: an authenticated user and the
// capabilities their roles grant.
type Actor struct {
	UserID int64
	Caps   Set
}

// Evaluator decides whether an actor may view, edit, or delete addresses.
// Decisions combine the capability lattice, ownership, default-address
// status, registered veto hooks, and the super identity.
//
// The super identity bypasses capability requirements and vetoes, with one
// exception: default addresses can not be deleted by anyone.
type Evaluator struct {
	hooks       *hook.Registry
	superUserID int64
}

// NewEvaluator creates an evaluator backed by the given hook registry. A
// superUserID of 0 disables the super identity.
func NewEvaluator(hooks *hook.Registry, superUserID int64) *Evaluator {
	return &Evaluator{hooks: hooks, superUserID: superUserID}
}

func (e *Evaluator) isSuper(actor Actor) bool {
	return e.superUserID != 0 && actor.UserID == e.superUserID
}

// CanView reports whether the actor may view the owner's address. A nil
// address asks the book-level question: may the actor view any address of
// this owner at all. View vetoes can deny, except for the super identity.
func (e *Evaluator) CanView(actor Actor, owner int64, address hook.Address) bool {
	if e.isSuper(actor) {
		return true
	}
	caps := actor.Caps.Expand()

	var allowed bool
	if actor.UserID == owner {
		switch {
		case caps.Has(ViewOwn):
			allowed = true
		case caps.Has(ViewOwnDefault):
			allowed = address == nil || isDefault(address)
		}
	} else {
		switch {
		case caps.Has(ViewAll):
			allowed = true
		case caps.Has(ViewAllDefaults):
			allowed = address == nil || isDefault(address)
		}
	}
	if !allowed {
		return false
	}
	return e.hooks.MayView(owner, address)
}

// CanEdit reports whether the actor may create or modify addresses of the
// owner. A nil address asks the book-level question. Edit vetoes can deny,
// except for the super identity.
func (e *Evaluator) CanEdit(actor Actor, owner int64, address hook.Address) bool {
	if e.isSuper(actor) {
		return true
	}
	caps := actor.Caps.Expand()

	var allowed bool
	if actor.UserID == owner {
		allowed = caps.Has(EditOwn)
	} else {
		allowed = caps.Has(EditAll)
	}
	if !allowed {
		return false
	}
	return e.hooks.MayEdit(owner, address)
}

// CanDelete reports whether the actor may delete the owner's address. A
// default address is never deletable; that check runs before the super
// identity bypass, so not even the super identity passes it. Delete vetoes
// can deny, except for the super identity.
func (e *Evaluator) CanDelete(actor Actor, owner int64, address hook.Address) bool {
	if address != nil && isDefault(address) {
		return false
	}
	if e.isSuper(actor) {
		return true
	}
	caps := actor.Caps.Expand()

	var allowed bool
	if actor.UserID == owner {
		allowed = caps.Has(DeleteOwn)
	} else {
		allowed = caps.Has(DeleteAll)
	}
	if !allowed {
		return false
	}
	return e.hooks.MayDelete(owner, address)
}

func isDefault(address hook.Address) bool {
	return address.IsDefault("shipping") || address.IsDefault("billing")
}
