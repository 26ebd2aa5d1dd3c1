package normalize

// Field identifies a canonical reservation draft field that can be resolved
// from a source file header.
type Field string

// Canonical fields resolvable from export headers.
const (
	FieldGuestName        Field = "guest_name"
	FieldCheckIn          Field = "check_in"
	FieldCheckOut         Field = "check_out"
	FieldPrice            Field = "price"
	FieldPlatform         Field = "platform"
	FieldRoomLabel        Field = "room_label"
	FieldBookingReference Field = "booking_reference"
	FieldStatus           Field = "status"
)

// AliasTable maps each canonical field to an ordered priority list of
// acceptable header spellings. The first header present in a row wins;
// absence of every alias yields the empty string.
type AliasTable map[Field][]string

// defaultAliases covers the column-naming conventions of the supported
// booking platforms. Order within each list is significant.
var defaultAliases = AliasTable{
	FieldGuestName:        {"Guest Name", "guest_name", "Guest"},
	FieldCheckIn:          {"Check-in", "check_in", "CheckIn"},
	FieldCheckOut:         {"Check-out", "check_out", "CheckOut"},
	FieldPrice:            {"Price", "price", "Total"},
	FieldPlatform:         {"Platform", "platform"},
	FieldRoomLabel:        {"Room", "room", "Unit", "unit_name", "Room Type", "Listing"},
	FieldBookingReference: {"Book Number", "book_number", "Reservation Number", "reference"},
	FieldStatus:           {"Status", "status"},
}

// DefaultAliases returns a copy of the built-in alias table.
func DefaultAliases() AliasTable {
	out := make(AliasTable, len(defaultAliases))
	for field, names := range defaultAliases {
		out[field] = append([]string(nil), names...)
	}
	return out
}

// merge returns a table where per-field override lists take priority over the
// receiver's lists. Fields without an override keep the receiver's aliases.
func (t AliasTable) merge(overrides AliasTable) AliasTable {
	if len(overrides) == 0 {
		return t
	}
	out := make(AliasTable, len(t))
	for field, names := range t {
		out[field] = names
	}
	for field, names := range overrides {
		out[field] = append(append([]string(nil), names...), t[field]...)
	}
	return out
}

// resolve returns the value for the field's first alias present in the row,
// or the empty string when no alias is present.
func (t AliasTable) resolve(row map[string]string, field Field) string {
	for _, name := range t[field] {
		if v, ok := row[name]; ok && v != "" {
			return v
		}
	}
	return ""
}
