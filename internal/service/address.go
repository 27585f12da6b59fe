// Package service implements the application operations on address books,
// combining the domain aggregate with permission checks and role resolution.
package service

import (
	"context"
	"log/slog"

	"github.com/utafrali/addressbook/internal/domain"
	"github.com/utafrali/addressbook/internal/field"
	"github.com/utafrali/addressbook/internal/permission"
	apperrors "github.com/utafrali/addressbook/pkg/errors"
)

// Actor identifies the authenticated caller of a service operation.
type Actor struct {
	UserID int64
	Role   string
}

// AddressService exposes the address book operations behind permission
// checks.
type AddressService struct {
	books  *domain.Manager
	perms  *permission.Evaluator
	roles  permission.RoleSource
	logger *slog.Logger
}

// NewAddressService creates the address service.
func NewAddressService(books *domain.Manager, perms *permission.Evaluator, roles permission.RoleSource, logger *slog.Logger) *AddressService {
	return &AddressService{books: books, perms: perms, roles: roles, logger: logger}
}

func (s *AddressService) resolve(ctx context.Context, actor Actor) (permission.Actor, error) {
	caps, err := s.roles.Grants(ctx, actor.Role)
	if err != nil {
		return permission.Actor{}, apperrors.Internal(err)
	}
	return permission.Actor{UserID: actor.UserID, Caps: caps}, nil
}

// ListAddresses returns the owner's addresses the actor may view. Actors
// with a defaults-only grant see only default addresses.
func (s *AddressService) ListAddresses(ctx context.Context, actor Actor, owner int64) ([]*domain.Address, error) {
	subject, err := s.resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !s.perms.CanView(subject, owner, nil) {
		return nil, apperrors.Forbidden("you are not allowed to view these addresses")
	}

	book := s.books.Get(owner)
	all, err := book.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]*domain.Address, 0, len(all))
	for _, a := range all {
		if s.perms.CanView(subject, owner, a) {
			visible = append(visible, a)
		}
	}
	return visible, nil
}

// GetAddress returns one address the actor may view.
func (s *AddressService) GetAddress(ctx context.Context, actor Actor, owner, aid int64) (*domain.Address, error) {
	subject, err := s.resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	book := s.books.Get(owner)
	a, err := book.Load(ctx, aid)
	if err != nil {
		return nil, err
	}
	if !s.perms.CanView(subject, owner, a) {
		return nil, apperrors.Forbidden("you are not allowed to view this address")
	}
	return a, nil
}

// CreateAddress creates a new address in the owner's book from raw field
// values keyed by registered field names. Values pass through their field
// handlers, so nickname uniqueness and default exclusivity hold.
func (s *AddressService) CreateAddress(ctx context.Context, actor Actor, owner int64, fields map[string]any) (*domain.Address, error) {
	subject, err := s.resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !s.perms.CanEdit(subject, owner, nil) {
		return nil, apperrors.Forbidden("you are not allowed to add addresses to this address book")
	}

	book := s.books.Get(owner)
	// Uniqueness and exclusivity are enforced across the full member set.
	if _, err := book.LoadAll(ctx); err != nil {
		return nil, err
	}

	a := book.NewAddress()
	if err := s.applyFields(a, fields); err != nil {
		book.DeleteUnsaved(a)
		return nil, err
	}
	if err := s.validateRequired(a); err != nil {
		book.DeleteUnsaved(a)
		return nil, err
	}
	if err := book.SaveDirty(ctx); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "address created",
		slog.Int64("address_id", a.ID()),
		slog.Int64("user_id", owner),
	)
	return a, nil
}

// UpdateAddress applies raw field values to an existing address.
func (s *AddressService) UpdateAddress(ctx context.Context, actor Actor, owner, aid int64, fields map[string]any) (*domain.Address, error) {
	subject, err := s.resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	book := s.books.Get(owner)
	if _, err := book.LoadAll(ctx); err != nil {
		return nil, err
	}
	a, err := book.Load(ctx, aid)
	if err != nil {
		return nil, err
	}
	if !s.perms.CanEdit(subject, owner, a) {
		return nil, apperrors.Forbidden("you are not allowed to edit this address")
	}

	if err := s.applyFields(a, fields); err != nil {
		return nil, err
	}
	if err := s.validateRequired(a); err != nil {
		return nil, err
	}
	if err := book.SaveDirty(ctx); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "address updated",
		slog.Int64("address_id", a.ID()),
		slog.Int64("user_id", owner),
	)
	return a, nil
}

// DeleteAddress removes an address. Defaults are never deletable, for any
// actor.
func (s *AddressService) DeleteAddress(ctx context.Context, actor Actor, owner, aid int64) error {
	subject, err := s.resolve(ctx, actor)
	if err != nil {
		return err
	}

	book := s.books.Get(owner)
	a, err := book.Load(ctx, aid)
	if err != nil {
		return err
	}
	if !s.perms.CanDelete(subject, owner, a) {
		return apperrors.Forbidden("you are not allowed to delete this address")
	}

	ok, err := book.DeleteAddress(ctx, a)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Forbidden("default addresses can not be deleted")
	}
	return nil
}

// SetDefaultAddress promotes an address to the owner's default of the given
// kind and persists the swap.
func (s *AddressService) SetDefaultAddress(ctx context.Context, actor Actor, owner, aid int64, kind string) (*domain.Address, error) {
	subject, err := s.resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	book := s.books.Get(owner)
	// The current default must be loaded so the swap demotes it.
	if _, err := book.LoadAll(ctx); err != nil {
		return nil, err
	}
	a, err := book.Load(ctx, aid)
	if err != nil {
		return nil, err
	}
	if !s.perms.CanEdit(subject, owner, a) {
		return nil, apperrors.Forbidden("you are not allowed to edit this address")
	}

	if err := a.SetAsDefault(kind); err != nil {
		return nil, err
	}
	if err := book.SaveDirty(ctx); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "default address changed",
		slog.Int64("address_id", a.ID()),
		slog.Int64("user_id", owner),
		slog.String("kind", kind),
	)
	return a, nil
}

// RenderAddress returns the address's fields rendered for a display context.
func (s *AddressService) RenderAddress(ctx context.Context, actor Actor, owner, aid int64, context string) ([]domain.FieldView, error) {
	a, err := s.GetAddress(ctx, actor, owner, aid)
	if err != nil {
		return nil, err
	}
	return a.FieldData(context)
}

// applyFields routes raw values through the field handlers so every write is
// validated and special fields keep their routing.
func (s *AddressService) applyFields(a *domain.Address, fields map[string]any) error {
	reg := s.books.Fields()
	// Apply in registry order so output is deterministic.
	for _, def := range reg.Fields() {
		v, ok := fields[def.Name]
		if !ok {
			continue
		}
		h, err := reg.Handler(def.Name, a, field.ContextAddressForm)
		if err != nil {
			return err
		}
		if err := h.SetValue(v); err != nil {
			return err
		}
	}
	for name := range fields {
		if !reg.IsRegistered(name) {
			return apperrors.InvalidField(name)
		}
	}
	return nil
}

func (s *AddressService) validateRequired(a *domain.Address) error {
	reg := s.books.Fields()
	for _, def := range reg.Fields() {
		if !def.Required || !def.Enabled {
			continue
		}
		h, err := reg.Handler(def.Name, a, field.ContextAddressForm)
		if err != nil {
			return err
		}
		v, err := a.GetField(def.Name)
		if err != nil {
			return err
		}
		if _, err := h.Validate(v); err != nil {
			return err
		}
	}
	return nil
}
