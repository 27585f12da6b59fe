package field

// Standard address field names.
const (
	Nickname        = "address_name"
	FirstName       = "first_name"
	LastName        = "last_name"
	Company         = "company"
	Street1         = "street1"
	Street2         = "street2"
	City            = "city"
	Zone            = "zone"
	Postcode        = "postcode"
	CountryField    = "country"
	Phone           = "phone"
	DefaultShipping = "default_shipping"
	DefaultBilling  = "default_billing"
)

// DefaultRegistry builds a registry populated with the standard address
// fields. Extensions add their own fields on top of this set.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	everywhere := map[string]bool{"default": true}
	// Nickname and default flags are address-book concepts; they stay out
	// of checkout and order forms.
	bookOnly := map[string]bool{
		"default":          false,
		ContextAddressForm: true,
		ContextAddressView: true,
	}

	defs := []Definition{
		{Name: Nickname, Handler: HandlerText, Title: "Address name", Weight: -20, Enabled: true, DisplaySettings: bookOnly},
		{Name: FirstName, Handler: HandlerText, Title: "First name", Weight: -10, Enabled: true, Required: true, Compare: true, DisplaySettings: everywhere},
		{Name: LastName, Handler: HandlerText, Title: "Last name", Weight: -8, Enabled: true, Required: true, Compare: true, DisplaySettings: everywhere},
		{Name: Company, Handler: HandlerText, Title: "Company", Weight: -6, Enabled: true, Compare: true, DisplaySettings: everywhere},
		{Name: Street1, Handler: HandlerText, Title: "Street address 1", Weight: -4, Enabled: true, Required: true, Compare: true, DisplaySettings: everywhere},
		{Name: Street2, Handler: HandlerText, Title: "Street address 2", Weight: -2, Enabled: true, Compare: true, DisplaySettings: everywhere},
		{Name: City, Handler: HandlerText, Title: "City", Weight: 0, Enabled: true, Required: true, Compare: true, DisplaySettings: everywhere},
		{Name: Zone, Handler: HandlerZone, Title: "State/Province", Weight: 2, Enabled: true, Compare: true, DisplaySettings: everywhere},
		{Name: Postcode, Handler: HandlerText, Title: "Postal code", Weight: 4, Enabled: true, Required: true, Compare: true, DisplaySettings: everywhere, Properties: map[string]string{"maxlength": "10"}},
		{Name: CountryField, Handler: HandlerCountry, Title: "Country", Weight: 6, Enabled: true, Required: true, Compare: true, DisplaySettings: everywhere},
		{Name: Phone, Handler: HandlerText, Title: "Phone number", Weight: 8, Enabled: true, Compare: true, DisplaySettings: everywhere, Properties: map[string]string{"maxlength": "32"}},
		{Name: DefaultShipping, Handler: HandlerFlag, Title: "Default shipping address", Weight: 10, Enabled: true, DisplaySettings: bookOnly, Properties: map[string]string{"kind": "shipping"}},
		{Name: DefaultBilling, Handler: HandlerFlag, Title: "Default billing address", Weight: 12, Enabled: true, DisplaySettings: bookOnly, Properties: map[string]string{"kind": "billing"}},
	}
	for _, def := range defs {
		if err := r.RegisterField(def); err != nil {
			// The built-in set only references built-in handlers.
			panic(err)
		}
	}
	return r
}
