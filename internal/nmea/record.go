package nmea

import "fmt"

// Record is one decoded sentence.
type Record interface {
	Type() Type
	// Values returns the record's columns in schema order. GSV records
	// return their natural width; Batch.Rows pads them to the batch schema.
	Values() []string
}

// Positioned is implemented by records that carry a fix position.
type Positioned interface {
	Record
	Position() (lat, lon float64)
}

// layout is the fixed description of one sentence type: how many fields
// it needs, its output columns, the names of its raw fields (for
// diagnostics) and its decode function.
type layout struct {
	minFields  int
	columns    []string
	components []string
	decode     func(Sentence) (Record, error)
}

func layoutFor(t Type) (layout, bool) {
	switch t {
	case TypeGGA:
		return ggaLayout, true
	case TypeGLL:
		return gllLayout, true
	case TypeGSA:
		return gsaLayout, true
	case TypeRMC:
		return rmcLayout, true
	case TypeVTG:
		return vtgLayout, true
	case TypeGSV:
		return gsvLayout, true
	}
	return layout{}, false
}

// Decode decodes s as a sentence of type t. A sentence of another type
// fails with ErrWrongSentenceType, which batch callers treat as a skip.
func (t Type) Decode(s Sentence) (Record, error) {
	l, ok := layoutFor(t)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownType, t)
	}
	if s.Code() != t.String() {
		return nil, fmt.Errorf("%w: %s is not %v", ErrWrongSentenceType, s.ID(), t)
	}
	if len(s.Fields) < l.minFields {
		return nil, fmt.Errorf("%w: %s has %d fields, need %d",
			ErrTruncatedSentence, s.ID(), len(s.Fields), l.minFields)
	}
	return l.decode(s)
}

// Decode splits raw and decodes it as type t.
func Decode(t Type, raw string) (Record, error) {
	s, err := Split(raw)
	if err != nil {
		return nil, err
	}
	return t.Decode(s)
}
