package domain

import (
	"log/slog"

	"github.com/utafrali/addressbook/internal/field"
	"github.com/utafrali/addressbook/internal/hook"
)

// Manager builds address books, one per user, sharing the store, the hook
// registry, the field registry, and the temporary id sequence across them.
type Manager struct {
	store  Store
	hooks  *hook.Registry
	fields *field.Registry
	seq    *IDSequence
	logger *slog.Logger
}

// NewManager creates an address book manager.
func NewManager(store Store, hooks *hook.Registry, fields *field.Registry, seq *IDSequence, logger *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		hooks:  hooks,
		fields: fields,
		seq:    seq,
		logger: logger,
	}
}

// Get builds the address book of the given user. Owner 0 yields an anonymous
// book. Every call returns a fresh book: a book and its members are confined
// to the caller that obtained them, so concurrent requests never share
// mutable aggregate state. The store is the single source of truth across
// books of the same owner.
func (m *Manager) Get(owner int64) *AddressBook {
	return &AddressBook{
		owner:  owner,
		store:  m.store,
		hooks:  m.hooks,
		fields: m.fields,
		seq:    m.seq,
		logger: m.logger,
	}
}

// Fields returns the shared field registry.
func (m *Manager) Fields() *field.Registry {
	return m.fields
}

// Hooks returns the shared hook registry.
func (m *Manager) Hooks() *hook.Registry {
	return m.hooks
}
