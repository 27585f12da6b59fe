// Package field implements the pluggable address field registry.
//
// Every address field is described by a Definition and backed by a Handler
// that knows how to default, validate, and render values for that field.
// Extensions register additional fields and handler implementations at
// startup; the address entity consults the registry for every dynamic
// field read and write.
package field

import (
	"fmt"
	"html"

	apperrors "github.com/utafrali/addressbook/pkg/errors"
)

// Display contexts in which an address field can be shown or edited.
const (
	ContextAddressForm    = "address_form"
	ContextAddressView    = "address_view"
	ContextCheckoutForm   = "checkout_form"
	ContextCheckoutReview = "checkout_review"
	ContextOrderForm      = "order_form"
	ContextOrderView      = "order_view"
)

// Address is the view of an address entity that a field handler needs.
type Address interface {
	GetField(name string) (any, error)
	SetField(name string, value any) error
	SetAsDefault(kind string) error
}

// Definition describes a single registered address field.
type Definition struct {
	// Name is the field's machine name, unique within a registry.
	Name string
	// Handler is the id of the handler implementation backing the field.
	Handler string
	// Title is the human-readable label used when rendering.
	Title string
	// Weight orders fields in forms and rendered output.
	Weight int
	// Enabled fields participate in forms and output.
	Enabled bool
	// Required fields must be non-empty on validation.
	Required bool
	// Compare marks the field as significant for address equality.
	Compare bool
	// DisplaySettings controls per-context visibility. The "default" key
	// applies to any context without an explicit entry.
	DisplaySettings map[string]bool
	// Properties carries handler-specific configuration.
	Properties map[string]string
}

// Handler validates, defaults, and renders values for one address field.
type Handler interface {
	// DefaultValue returns the value a fresh address gets for this field.
	DefaultValue() any
	// Enabled reports whether the field participates in forms and output.
	Enabled() bool
	// Required reports whether the field must be non-empty.
	Required() bool
	// CheckContext reports whether the field is visible in the handler's
	// display context.
	CheckContext() bool
	// Validate normalizes a raw value, returning an error for rejects.
	Validate(value any) (any, error)
	// SetValue validates and writes a value to the handler's address.
	SetValue(value any) error
	// OutputFormats lists the supported render formats. The first entry is
	// the default; nil means only the unnamed default format exists.
	OutputFormats() []string
	// OutputValue renders a value in the given format. An empty format
	// selects the default.
	OutputValue(value any, format string) (string, error)
}

// Constructor builds a handler instance bound to one field of one address.
type Constructor func(base Base) Handler

// Base carries the per-instance state shared by all handler implementations
// and provides the default behavior they embed.
type Base struct {
	def     *Definition
	address Address
	context string
}

// NewBase binds a definition to an address in a display context. Exposed for
// extensions that implement their own handlers.
func NewBase(def *Definition, address Address, context string) Base {
	return Base{def: def, address: address, context: context}
}

// FieldName returns the machine name of the bound field.
func (b Base) FieldName() string { return b.def.Name }

// Definition returns the bound field definition.
func (b Base) Definition() *Definition { return b.def }

// Address returns the address the handler is bound to.
func (b Base) Address() Address { return b.address }

// Context returns the display context the handler was built for.
func (b Base) Context() string { return b.context }

// Property returns a handler configuration property from the definition.
func (b Base) Property(name string) (string, error) {
	if v, ok := b.def.Properties[name]; ok {
		return v, nil
	}
	return "", apperrors.InvalidProperty(b.def.Name, name)
}

// PropertyOr returns a configuration property or a fallback when unset.
func (b Base) PropertyOr(name, fallback string) string {
	if v, ok := b.def.Properties[name]; ok {
		return v
	}
	return fallback
}

func (b Base) DefaultValue() any { return "" }

func (b Base) Enabled() bool { return b.def.Enabled }

func (b Base) Required() bool { return b.def.Required }

// CheckContext applies the display settings to the bound context: an explicit
// per-context entry wins, otherwise the "default" entry applies.
func (b Base) CheckContext() bool {
	ds := b.def.DisplaySettings
	if ds == nil {
		return true
	}
	if v, ok := ds[b.context]; ok {
		return v
	}
	return ds["default"]
}

func (b Base) Validate(value any) (any, error) { return value, nil }

func (b Base) SetValue(value any) error {
	return b.address.SetField(b.def.Name, value)
}

func (b Base) OutputFormats() []string { return nil }

// OutputValue renders the value as escaped plain text.
func (b Base) OutputValue(value any, format string) (string, error) {
	if format != "" {
		return "", apperrors.InvalidProperty(b.def.Name, format)
	}
	return html.EscapeString(stringValue(value)), nil
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// truthy mirrors loose boolean coercion for flag-style inputs.
func truthy(value any) bool {
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
