// Package domain implements the address entity and the per-user address book
// aggregate: dirty tracking, nickname uniqueness, default-address exclusivity,
// and the save/delete lifecycle with its extension hooks.
package domain

// Schema-native field names. These are managed by the entity itself rather
// than the field registry.
const (
	FieldID       = "aid"
	FieldOwner    = "uid"
	FieldCreated  = "created"
	FieldModified = "modified"
)

// Default address kinds.
const (
	KindShipping = "shipping"
	KindBilling  = "billing"
)

// Record is the flat field map an address is persisted as. Values are the
// scalar types the field handlers produce.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Int64 reads a record value as int64, tolerating the integer widths
// different scanners produce.
func (r Record) Int64(key string) int64 {
	switch v := r[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// String reads a record value as a string.
func (r Record) String(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// Bool reads a record value as a bool.
func (r Record) Bool(key string) bool {
	if b, ok := r[key].(bool); ok {
		return b
	}
	return false
}

// defaultFlagField maps a default kind to its flag field name.
func defaultFlagField(kind string) string {
	return "default_" + kind
}
