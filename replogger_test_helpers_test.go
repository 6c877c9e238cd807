package replogger

import "sync/atomic"

// fakeClock is a goroutine-safe, deterministic Clock test double.
type fakeClock struct {
	next atomic.Uint64
}

func newFakeClock(start uint64) *fakeClock {
	c := &fakeClock{}
	c.next.Store(start)
	return c
}

func (c *fakeClock) NextTick() uint64 {
	return c.next.Add(1)
}

// fakeShaper is a Shaper test double that stringifies a shapedFields
// list (built by fields) of already-JSON-safe scalar values, in the
// order the fields were given.
type fakeShaper struct{}

type shapedFields struct {
	keys   []string
	values []string // pre-rendered JSON value text, e.g. `1` or `"s"`
}

func fields(pairs ...string) ShapedDocument {
	if len(pairs)%2 != 0 {
		panic("fields: odd number of arguments")
	}
	sf := &shapedFields{}
	for i := 0; i < len(pairs); i += 2 {
		sf.keys = append(sf.keys, pairs[i])
		sf.values = append(sf.values, pairs[i+1])
	}
	return ShapedDocument{Handle: sf}
}

func (fakeShaper) Stringify(buf *Buffer, shaped ShapedDocument, withBraces bool) error {
	sf, _ := shaped.Handle.(*shapedFields)
	if withBraces {
		buf.appendByte('{')
	}
	for i, k := range sf.keys {
		if withBraces && i == 0 {
			// no leading comma for the first field in brace mode
		} else {
			buf.appendByte(',')
		}
		buf.appendQuoted(k)
		buf.appendByte(':')
		buf.appendRaw(sf.values[i])
	}
	if withBraces {
		buf.appendByte('}')
	}
	return nil
}
