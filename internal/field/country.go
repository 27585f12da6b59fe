package field

import (
	"strconv"
	"strings"

	apperrors "github.com/utafrali/addressbook/pkg/errors"
)

// Country output formats.
const (
	FormatCountryName    = "name"
	FormatCountryCode2   = "code2"
	FormatCountryCode3   = "code3"
	FormatCountryNumeric = "numeric"
)

// Country is one entry of the ISO 3166 table the country handler renders from.
type Country struct {
	Name    string
	Code2   string
	Code3   string
	Numeric int
}

// countries is keyed by the two-letter code, which is also the stored value.
var countries = map[string]Country{
	"AU": {Name: "Australia", Code2: "AU", Code3: "AUS", Numeric: 36},
	"BE": {Name: "Belgium", Code2: "BE", Code3: "BEL", Numeric: 56},
	"BR": {Name: "Brazil", Code2: "BR", Code3: "BRA", Numeric: 76},
	"CA": {Name: "Canada", Code2: "CA", Code3: "CAN", Numeric: 124},
	"CN": {Name: "China", Code2: "CN", Code3: "CHN", Numeric: 156},
	"DE": {Name: "Germany", Code2: "DE", Code3: "DEU", Numeric: 276},
	"ES": {Name: "Spain", Code2: "ES", Code3: "ESP", Numeric: 724},
	"FR": {Name: "France", Code2: "FR", Code3: "FRA", Numeric: 250},
	"GB": {Name: "United Kingdom", Code2: "GB", Code3: "GBR", Numeric: 826},
	"IE": {Name: "Ireland", Code2: "IE", Code3: "IRL", Numeric: 372},
	"IN": {Name: "India", Code2: "IN", Code3: "IND", Numeric: 356},
	"IT": {Name: "Italy", Code2: "IT", Code3: "ITA", Numeric: 380},
	"JP": {Name: "Japan", Code2: "JP", Code3: "JPN", Numeric: 392},
	"MX": {Name: "Mexico", Code2: "MX", Code3: "MEX", Numeric: 484},
	"NL": {Name: "Netherlands", Code2: "NL", Code3: "NLD", Numeric: 528},
	"NZ": {Name: "New Zealand", Code2: "NZ", Code3: "NZL", Numeric: 554},
	"TZ": {Name: "Tanzania, United Republic of", Code2: "TZ", Code3: "TZA", Numeric: 834},
	"US": {Name: "United States", Code2: "US", Code3: "USA", Numeric: 840},
	"ZA": {Name: "South Africa", Code2: "ZA", Code3: "ZAF", Numeric: 710},
}

// LookupCountry resolves a two-letter country code.
func LookupCountry(code2 string) (Country, bool) {
	c, ok := countries[strings.ToUpper(strings.TrimSpace(code2))]
	return c, ok
}

// CountryHandler backs the country field. Values are stored as two-letter
// ISO codes and can be rendered as full name, either code, or the numeric id.
type CountryHandler struct {
	Base
}

func (h *CountryHandler) DefaultValue() any {
	return h.PropertyOr("default_country", "")
}

func (h *CountryHandler) Validate(value any) (any, error) {
	s := strings.ToUpper(strings.TrimSpace(stringValue(value)))
	if s == "" {
		if h.Required() {
			return nil, apperrors.InvalidInput(h.FieldName() + " is required")
		}
		return "", nil
	}
	if _, ok := countries[s]; !ok {
		return nil, apperrors.InvalidInput("unknown country code: " + s)
	}
	return s, nil
}

func (h *CountryHandler) SetValue(value any) error {
	v, err := h.Validate(value)
	if err != nil {
		return err
	}
	return h.Address().SetField(h.FieldName(), v)
}

func (h *CountryHandler) OutputFormats() []string {
	return []string{FormatCountryName, FormatCountryCode2, FormatCountryCode3, FormatCountryNumeric}
}

func (h *CountryHandler) OutputValue(value any, format string) (string, error) {
	code := strings.ToUpper(stringValue(value))
	if code == "" {
		return "", nil
	}
	c, ok := countries[code]
	if !ok {
		return code, nil
	}
	switch format {
	case "", FormatCountryName:
		return c.Name, nil
	case FormatCountryCode2:
		return c.Code2, nil
	case FormatCountryCode3:
		return c.Code3, nil
	case FormatCountryNumeric:
		return strconv.Itoa(c.Numeric), nil
	default:
		return "", apperrors.InvalidProperty(h.FieldName(), format)
	}
}
