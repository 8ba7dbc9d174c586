package nmea

import "strconv"

// Schema is the ordered list of column names for a sentence type.
type Schema []string

// SchemaFor returns the column schema for type t. It is fixed for every
// type except GSV, whose satellite columns cover the widest sentence in
// b. A nil or empty batch yields a GSV schema with no satellite columns.
func SchemaFor(t Type, b *Batch) Schema {
	if t == TypeGSV {
		return gsvSchema(b.maxBlocks())
	}
	l, ok := layoutFor(t)
	if !ok {
		return nil
	}
	out := make(Schema, len(l.columns))
	copy(out, l.columns)
	return out
}

// Components returns the names of the raw fields of a sentence of type t
// with n fields, as printed by LogObserver.
func Components(t Type, n int) []string {
	out := make([]string, n)
	if t == TypeGSV {
		for i := range out {
			out[i] = gsvComponent(i)
		}
		return out
	}
	l, _ := layoutFor(t)
	for i := range out {
		if i < len(l.components) {
			out[i] = l.components[i]
		} else {
			out[i] = "Field " + strconv.Itoa(i)
		}
	}
	return out
}
