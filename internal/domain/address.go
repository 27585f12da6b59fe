package domain

import (
	"context"
	"time"

	"github.com/utafrali/addressbook/internal/field"
	apperrors "github.com/utafrali/addressbook/pkg/errors"
)

// Address is one postal address in a user's address book. Field access goes
// through the field registry so extension fields behave exactly like the
// built-in set. An address tracks whether it has unsaved changes and only
// touches storage when it does.
type Address struct {
	book  *AddressBook
	rec   Record
	dirty bool
}

// FieldView is one rendered field of an address.
type FieldView struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Value string `json:"value"`
}

// ID returns the address identifier. Persisted addresses have positive ids;
// unsaved addresses carry a negative temporary id.
func (a *Address) ID() int64 {
	return a.rec.Int64(FieldID)
}

// Owner returns the id of the user whose book holds the address.
func (a *Address) Owner() int64 {
	return a.book.Owner()
}

// Name returns the address nickname, empty if unnamed.
func (a *Address) Name() string {
	return a.rec.String(field.Nickname)
}

// IsNew reports whether the address has never been persisted.
func (a *Address) IsNew() bool {
	return a.ID() < 1
}

// IsOwned reports whether the address belongs to a real user.
func (a *Address) IsOwned() bool {
	return a.Owner() > 0
}

// IsDirty reports whether the address has unsaved changes.
func (a *Address) IsDirty() bool {
	return a.dirty
}

// IsDefault reports whether the address is the owner's default of the given
// kind ("shipping" or "billing").
func (a *Address) IsDefault(kind string) bool {
	return a.rec.Bool(defaultFlagField(kind))
}

// Created returns the creation timestamp, zero for unsaved addresses.
func (a *Address) Created() int64 {
	return a.rec.Int64(FieldCreated)
}

// Modified returns the last-save timestamp, zero for unsaved addresses.
func (a *Address) Modified() int64 {
	return a.rec.Int64(FieldModified)
}

// GetField returns the raw value of a schema or registered field.
func (a *Address) GetField(name string) (any, error) {
	switch name {
	case FieldID:
		return a.ID(), nil
	case FieldOwner:
		return a.Owner(), nil
	case FieldCreated, FieldModified:
		return a.rec.Int64(name), nil
	}
	if !a.book.fields.IsRegistered(name) {
		return nil, apperrors.InvalidField(name)
	}
	return a.rec[name], nil
}

// SetField writes a raw value to a field, marking the address dirty when the
// value actually changes. Some fields get special treatment:
//
//   - the identifier is never writable and the write is silently ignored;
//   - the nickname routes through SetName so uniqueness holds;
//   - a truthy default flag routes through SetAsDefault so exclusivity
//     holds, and a falsy one is ignored since a default is only displaced
//     by promoting another address.
func (a *Address) SetField(name string, value any) error {
	switch name {
	case FieldID:
		return nil
	case FieldOwner:
		return apperrors.InvalidInput("the address owner is assigned through the address book")
	case FieldCreated, FieldModified:
		ts := Record{name: value}.Int64(name)
		if a.rec.Int64(name) != ts {
			a.rec[name] = ts
			a.dirty = true
		}
		return nil
	case field.Nickname:
		if !a.SetName(stringField(value)) {
			return apperrors.InvalidInput("address nickname is already in use")
		}
		return nil
	case field.DefaultShipping, field.DefaultBilling:
		if !truthyField(value) {
			return nil
		}
		return a.SetAsDefault(name[len("default_"):])
	}
	if !a.book.fields.IsRegistered(name) {
		return apperrors.InvalidField(name)
	}
	if cur, ok := a.rec[name]; ok && cur == value {
		return nil
	}
	a.rec[name] = value
	a.dirty = true
	return nil
}

// SetFields writes multiple raw fields. With strict set, an unregistered
// field name fails the whole write; otherwise unknown names are skipped.
func (a *Address) SetFields(fields map[string]any, strict bool) error {
	for name, value := range fields {
		if !strict && !a.isKnownField(name) {
			continue
		}
		if err := a.SetField(name, value); err != nil {
			return err
		}
	}
	return nil
}

func (a *Address) isKnownField(name string) bool {
	switch name {
	case FieldID, FieldOwner, FieldCreated, FieldModified:
		return true
	}
	return a.book.fields.IsRegistered(name)
}

// SetName renames the address. It reports false when another address in the
// same book already uses the nickname; renaming to the current name is a
// no-op that reports true.
func (a *Address) SetName(name string) bool {
	if a.Name() == name {
		return true
	}
	return a.book.setAddressName(a, name)
}

// SetAsDefault promotes the address to its owner's default of the given
// kind, demoting the current default. Both addresses are marked dirty.
func (a *Address) SetAsDefault(kind string) error {
	return a.book.setAddressAsDefault(a, kind)
}

// Save persists the address if it has unsaved changes. Unowned addresses can
// not be saved. Pre-save hooks run before the write; post-insert or
// post-update hooks run after a successful one. On a storage failure the
// address stays dirty.
func (a *Address) Save(ctx context.Context) error {
	if !a.IsOwned() {
		return apperrors.Unowned()
	}
	if !a.dirty {
		return nil
	}

	a.book.hooks.PreSave(ctx, a)

	now := time.Now().UTC().Unix()
	a.rec[FieldModified] = now
	a.rec[FieldOwner] = a.Owner()

	if a.IsNew() {
		a.rec[FieldCreated] = now
		aid, err := a.book.store.Insert(ctx, a.rec.Clone())
		if err != nil {
			return apperrors.Persistence(err)
		}
		a.rec[FieldID] = aid
		a.dirty = false
		a.book.hooks.PostInsert(ctx, a)
		return nil
	}

	if err := a.book.store.Update(ctx, a.rec.Clone()); err != nil {
		return apperrors.Persistence(err)
	}
	a.dirty = false
	a.book.hooks.PostUpdate(ctx, a)
	return nil
}

// Delete removes the address from its book and from storage. It reports
// false without touching storage when the address is a default.
func (a *Address) Delete(ctx context.Context) (bool, error) {
	return a.book.DeleteAddress(ctx, a)
}

// CompareTo reports whether two addresses are interchangeable as postal
// destinations: the same entity, or equal on every comparison field.
// Nickname, default flags, and timestamps do not participate.
func (a *Address) CompareTo(other *Address) bool {
	if other == nil {
		return false
	}
	if a == other {
		return true
	}
	for _, name := range a.book.fields.CompareFields() {
		if a.rec[name] != other.rec[name] {
			return false
		}
	}
	return true
}

// CopyTo clones the postal content of the address into a fresh, unsaved
// address in the target book. Identity does not travel: the copy gets a new
// temporary id, no nickname, no default flags, and no timestamps.
func (a *Address) CopyTo(book *AddressBook) (*Address, error) {
	dup := book.NewAddress()
	for _, def := range a.book.fields.Fields() {
		switch def.Name {
		case field.Nickname, field.DefaultShipping, field.DefaultBilling:
			continue
		}
		if v, ok := a.rec[def.Name]; ok {
			if err := dup.SetField(def.Name, v); err != nil {
				return nil, err
			}
		}
	}
	return dup, nil
}

// FieldData renders every enabled field visible in the given display context,
// ordered by field weight, using each handler's default output format.
func (a *Address) FieldData(context string) ([]FieldView, error) {
	var out []FieldView
	for _, def := range a.book.fields.Fields() {
		h, err := a.book.fields.Handler(def.Name, a, context)
		if err != nil {
			return nil, err
		}
		if !h.Enabled() || !h.CheckContext() {
			continue
		}
		value, err := h.OutputValue(a.rec[def.Name], "")
		if err != nil {
			return nil, err
		}
		out = append(out, FieldView{Name: def.Name, Title: def.Title, Value: value})
	}
	return out, nil
}

// FieldValue renders a single field in the given output format and display
// context. Fields hidden in the context render as empty.
func (a *Address) FieldValue(name, format, context string) (string, error) {
	h, err := a.book.fields.Handler(name, a, context)
	if err != nil {
		return "", err
	}
	if !h.Enabled() || !h.CheckContext() {
		return "", nil
	}
	return h.OutputValue(a.rec[name], format)
}

// RawRecord returns a copy of the address's field map, including schema
// fields, suitable for serialization.
func (a *Address) RawRecord() Record {
	rec := a.rec.Clone()
	rec[FieldOwner] = a.Owner()
	return rec
}

func stringField(value any) string {
	s, _ := value.(string)
	return s
}

func truthyField(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "" && v != "0" && v != "false"
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}
