package nmea

import (
	"errors"
	"strings"
)

// Batch is the ordered set of records of one type decoded from one input.
type Batch struct {
	Type    Type
	Records []Record

	// Failed counts sentences that matched nothing decodable: missing '$',
	// too few fields, or an undecodable coordinate.
	Failed int
	// Skipped counts sentences of other types.
	Skipped int
}

// Len returns the number of decoded records.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Records)
}

// Empty reports whether no record was decoded. An empty batch is a normal
// outcome (e.g. a file with no sentences of the selected type).
func (b *Batch) Empty() bool { return b.Len() == 0 }

// Schema returns SchemaFor(b.Type, b).
func (b *Batch) Schema() Schema { return SchemaFor(b.Type, b) }

// Rows projects every record onto the batch schema, in input order.
func (b *Batch) Rows() [][]string {
	if b.Empty() {
		return nil
	}
	blocks := b.maxBlocks()
	rows := make([][]string, 0, len(b.Records))
	for _, r := range b.Records {
		if g, ok := r.(GSV); ok {
			rows = append(rows, g.row(blocks))
			continue
		}
		rows = append(rows, r.Values())
	}
	return rows
}

// maxBlocks returns the widest GSV satellite block count in b.
func (b *Batch) maxBlocks() int {
	if b == nil {
		return 0
	}
	widest := 0
	for _, r := range b.Records {
		if g, ok := r.(GSV); ok && g.Blocks() > widest {
			widest = g.Blocks()
		}
	}
	return widest
}

// Runner decodes batches. The zero value is ready to use.
type Runner struct {
	// Observer, if set, is told about every decoded or failed sentence.
	Observer Observer
}

// DecodeBatch decodes every line as type t. Sentences of other types are
// skipped; other failures are counted and do not stop the batch. It
// returns the batch and the number of decoded records.
func (r *Runner) DecodeBatch(lines []string, t Type) (*Batch, int) {
	b := &Batch{Type: t}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s, err := Split(line)
		if err == nil {
			var rec Record
			rec, err = t.Decode(s)
			if err == nil {
				b.Records = append(b.Records, rec)
				if r.Observer != nil {
					r.Observer.Decoded(line, s, rec)
				}
				continue
			}
		}
		if errors.Is(err, ErrWrongSentenceType) {
			b.Skipped++
			continue
		}
		b.Failed++
		if r.Observer != nil {
			r.Observer.Failed(line, err)
		}
	}
	return b, len(b.Records)
}

// DecodeBatch decodes lines as type t with no observer.
func DecodeBatch(lines []string, t Type) (*Batch, int) {
	return (&Runner{}).DecodeBatch(lines, t)
}
