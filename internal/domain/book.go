package domain

import (
	"context"
	"log/slog"

	"github.com/utafrali/addressbook/internal/field"
	"github.com/utafrali/addressbook/internal/hook"
	apperrors "github.com/utafrali/addressbook/pkg/errors"
)

// AddressBook is the aggregate of one user's addresses. It enforces nickname
// uniqueness and default-address exclusivity across its members and is the
// only way addresses are created, loaded, and deleted.
//
// A book with owner 0 is an anonymous book: its addresses can be built up and
// later transferred to a real user, but never saved directly.
type AddressBook struct {
	owner   int64
	members []*Address

	store  Store
	hooks  *hook.Registry
	fields *field.Registry
	seq    *IDSequence
	logger *slog.Logger

	loadedAll bool
}

// Owner returns the id of the user the book belongs to.
func (b *AddressBook) Owner() int64 {
	return b.owner
}

// Addresses returns the book's current members in load/creation order.
func (b *AddressBook) Addresses() []*Address {
	out := make([]*Address, len(b.members))
	copy(out, b.members)
	return out
}

// NewAddress creates a fresh, unsaved address in the book. Every registered
// field is backfilled with its handler's default value and the address gets
// a temporary negative id.
func (b *AddressBook) NewAddress() *Address {
	a := &Address{
		book:  b,
		rec:   Record{FieldID: b.seq.Next(), FieldOwner: b.owner},
		dirty: true,
	}
	for _, def := range b.fields.Fields() {
		h, err := b.fields.Handler(def.Name, a, "")
		if err != nil {
			continue
		}
		a.rec[def.Name] = h.DefaultValue()
	}
	b.members = append(b.members, a)
	return a
}

// AddAddress registers an externally constructed address (e.g. one restored
// from a serialized snapshot) with the book. Adding an address that is
// already a member is a no-op; adding a different address under an id the
// book already holds is an error. Temporary ids are reported to the id
// sequence so later ids stay unique.
func (b *AddressBook) AddAddress(a *Address) error {
	for _, m := range b.members {
		if m == a {
			return nil
		}
		if m.ID() == a.ID() {
			return apperrors.DuplicateAddress(a.ID())
		}
	}
	b.seq.Observe(a.ID())
	a.book = b
	b.members = append(b.members, a)
	return nil
}

// Restore rebuilds an address from a raw record, registers it with the book,
// and returns it. Restored addresses are clean until modified.
func (b *AddressBook) Restore(rec Record) (*Address, error) {
	a := &Address{book: b, rec: rec.Clone()}
	delete(a.rec, FieldOwner)
	if err := b.AddAddress(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Load fetches one address by id into the book. If the address is already a
// member the member is returned as is. An address that exists but belongs to
// another user is reported as not found.
func (b *AddressBook) Load(ctx context.Context, aid int64) (*Address, error) {
	if a := b.byID(aid); a != nil {
		return a, nil
	}
	rec, err := b.store.GetByID(ctx, aid)
	if err != nil {
		return nil, err
	}
	if rec.Int64(FieldOwner) != b.owner {
		return nil, apperrors.NotFound("address", aid)
	}
	return b.adopt(rec), nil
}

// LoadAll fetches every stored address of the book's owner. Addresses that
// are already members keep their in-memory state.
func (b *AddressBook) LoadAll(ctx context.Context) ([]*Address, error) {
	if b.loadedAll {
		return b.Addresses(), nil
	}
	recs, err := b.store.ListByOwner(ctx, b.owner)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if b.byID(rec.Int64(FieldID)) != nil {
			continue
		}
		b.adopt(rec)
	}
	b.loadedAll = true
	return b.Addresses(), nil
}

// FindByName returns the member with the given nickname, nil if none.
func (b *AddressBook) FindByName(name string) *Address {
	if name == "" {
		return nil
	}
	for _, m := range b.members {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

// DefaultAddress returns the member flagged as default of the given kind,
// nil if none is loaded.
func (b *AddressBook) DefaultAddress(kind string) *Address {
	for _, m := range b.members {
		if m.IsDefault(kind) {
			return m
		}
	}
	return nil
}

// DeleteAddress removes an address from the book and, when persisted, from
// storage. Default addresses can not be deleted; the call reports false and
// leaves everything untouched. Post-delete hooks run after a successful
// removal.
func (b *AddressBook) DeleteAddress(ctx context.Context, a *Address) (bool, error) {
	if a.IsDefault(KindShipping) || a.IsDefault(KindBilling) {
		return false, nil
	}
	if !a.IsNew() {
		if err := b.store.Delete(ctx, a.ID()); err != nil {
			return false, apperrors.Persistence(err)
		}
	}
	b.remove(a)
	b.hooks.PostDelete(ctx, a)
	b.logger.InfoContext(ctx, "address deleted",
		slog.Int64("address_id", a.ID()),
		slog.Int64("user_id", b.owner),
	)
	return true, nil
}

// DeleteUnsaved discards a never-persisted address from the book without
// touching storage or running delete hooks. Used to back out of a failed
// create.
func (b *AddressBook) DeleteUnsaved(a *Address) {
	if a.IsNew() {
		b.remove(a)
	}
}

// SetAddressOwner transfers an address from an anonymous book to a real
// user's book. It is only permitted while the address is unowned.
func (b *AddressBook) SetAddressOwner(a *Address, target *AddressBook) error {
	if b.owner > 0 {
		return apperrors.InvalidInput("the address already has an owner")
	}
	if target == nil || target.owner < 1 {
		return apperrors.InvalidInput("the target address book has no owner")
	}
	if b.byID(a.ID()) == nil {
		return apperrors.NotFound("address", a.ID())
	}
	if err := target.AddAddress(a); err != nil {
		return err
	}
	b.remove(a)
	a.dirty = true
	return nil
}

// setAddressName renames a member, enforcing nickname uniqueness within the
// book. Clearing the name always succeeds.
func (b *AddressBook) setAddressName(a *Address, name string) bool {
	if name != "" {
		if other := b.FindByName(name); other != nil && other != a {
			return false
		}
	}
	a.rec[field.Nickname] = name
	a.dirty = true
	return true
}

// setAddressAsDefault promotes a member to the default of the given kind and
// demotes the current one. Both addresses end up dirty; persisting the swap
// is the caller's concern.
func (b *AddressBook) setAddressAsDefault(a *Address, kind string) error {
	if kind != KindShipping && kind != KindBilling {
		return apperrors.InvalidInput("unknown default address kind: " + kind)
	}
	flag := defaultFlagField(kind)
	if a.rec.Bool(flag) {
		return nil
	}
	for _, m := range b.members {
		if m != a && m.rec.Bool(flag) {
			m.rec[flag] = false
			m.dirty = true
		}
	}
	a.rec[flag] = true
	a.dirty = true
	return nil
}

// SaveDirty persists every member with unsaved changes. Used after
// operations like a default swap that dirty more than one address.
func (b *AddressBook) SaveDirty(ctx context.Context) error {
	for _, m := range b.members {
		if !m.dirty {
			continue
		}
		if err := m.Save(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (b *AddressBook) adopt(rec Record) *Address {
	a := &Address{book: b, rec: rec.Clone()}
	delete(a.rec, FieldOwner)
	b.members = append(b.members, a)
	return a
}

func (b *AddressBook) byID(aid int64) *Address {
	for _, m := range b.members {
		if m.ID() == aid {
			return m
		}
	}
	return nil
}

func (b *AddressBook) remove(a *Address) {
	for i, m := range b.members {
		if m == a {
			b.members = append(b.members[:i], b.members[i+1:]...)
			return
		}
	}
}
