package field

import (
	"strings"

	apperrors "github.com/utafrali/addressbook/pkg/errors"
)

// Zone output formats.
const (
	FormatZoneName = "name"
	FormatZoneCode = "code"
)

// zones maps zone codes to display names. The table covers the subdivisions
// of the countries in the country table that commonly require one.
var zones = map[string]string{
	"AL": "Alabama",
	"AK": "Alaska",
	"AZ": "Arizona",
	"CA": "California",
	"CO": "Colorado",
	"FL": "Florida",
	"GA": "Georgia",
	"IL": "Illinois",
	"MA": "Massachusetts",
	"NY": "New York",
	"OR": "Oregon",
	"TX": "Texas",
	"WA": "Washington",
	"AB": "Alberta",
	"BC": "British Columbia",
	"ON": "Ontario",
	"QC": "Quebec",
	"NSW": "New South Wales",
	"QLD": "Queensland",
	"VIC": "Victoria",
}

// LookupZone resolves a zone code to its display name.
func LookupZone(code string) (string, bool) {
	name, ok := zones[strings.ToUpper(strings.TrimSpace(code))]
	return name, ok
}

// ZoneHandler backs the state/province field. Values are stored as zone
// codes and can be rendered as the code or the full name.
type ZoneHandler struct {
	Base
}

func (h *ZoneHandler) Validate(value any) (any, error) {
	s := strings.ToUpper(strings.TrimSpace(stringValue(value)))
	if h.Required() && s == "" {
		return nil, apperrors.InvalidInput(h.FieldName() + " is required")
	}
	return s, nil
}

func (h *ZoneHandler) SetValue(value any) error {
	v, err := h.Validate(value)
	if err != nil {
		return err
	}
	return h.Address().SetField(h.FieldName(), v)
}

func (h *ZoneHandler) OutputFormats() []string {
	return []string{FormatZoneName, FormatZoneCode}
}

func (h *ZoneHandler) OutputValue(value any, format string) (string, error) {
	code := strings.ToUpper(stringValue(value))
	switch format {
	case "", FormatZoneName:
		if name, ok := zones[code]; ok {
			return name, nil
		}
		return code, nil
	case FormatZoneCode:
		return code, nil
	default:
		return "", apperrors.InvalidProperty(h.FieldName(), format)
	}
}
