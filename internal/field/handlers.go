package field

import (
	"strconv"
	"strings"

	apperrors "github.com/utafrali/addressbook/pkg/errors"
)

// TextHandler backs plain single-line text fields. The optional "maxlength"
// property bounds the value length.
type TextHandler struct {
	Base
}

func (h *TextHandler) Validate(value any) (any, error) {
	s := strings.TrimSpace(stringValue(value))
	if h.Required() && s == "" {
		return nil, apperrors.InvalidInput(h.FieldName() + " is required")
	}
	if max := h.PropertyOr("maxlength", ""); max != "" {
		n, err := strconv.Atoi(max)
		if err == nil && len(s) > n {
			return nil, apperrors.InvalidInput(h.FieldName() + " exceeds maximum length")
		}
	}
	return s, nil
}

func (h *TextHandler) SetValue(value any) error {
	v, err := h.Validate(value)
	if err != nil {
		return err
	}
	return h.Address().SetField(h.FieldName(), v)
}

// DefaultFlagHandler backs the default-shipping and default-billing flags.
// Writing a truthy value promotes the bound address to the default of the
// flag's kind; writing a falsy value is ignored, since a default is only
// displaced by promoting another address.
type DefaultFlagHandler struct {
	Base
}

// Kind returns which default the flag controls ("shipping" or "billing").
func (h *DefaultFlagHandler) Kind() (string, error) {
	return h.Property("kind")
}

func (h *DefaultFlagHandler) DefaultValue() any { return false }

func (h *DefaultFlagHandler) Validate(value any) (any, error) {
	return truthy(value), nil
}

func (h *DefaultFlagHandler) SetValue(value any) error {
	if !truthy(value) {
		return nil
	}
	kind, err := h.Kind()
	if err != nil {
		return err
	}
	return h.Address().SetAsDefault(kind)
}

func (h *DefaultFlagHandler) OutputValue(value any, format string) (string, error) {
	if format != "" {
		return "", apperrors.InvalidProperty(h.FieldName(), format)
	}
	if truthy(value) {
		return h.PropertyOr("on_label", "Yes"), nil
	}
	return h.PropertyOr("off_label", "No"), nil
}
