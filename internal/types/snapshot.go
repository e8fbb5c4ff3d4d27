package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Entry is a single named value in a Snapshot, such as the
// program counter or the last executed opcode.
type Entry struct {
	Name  string
	Value any
}

// String returns the value as it should be displayed.
func (e Entry) String() string {
	return fmt.Sprint(e.Value)
}

// Snapshot is an ordered set of engine properties. The order
// of the entries is the order in which they are displayed.
type Snapshot []Entry

// Get returns the value of the named entry, and whether
// it was present.
func (s Snapshot) Get(name string) (any, bool) {
	for _, e := range s {
		if e.Name == name {
			return e.Value, true
		}
	}

	return nil, false
}

// MarshalJSON encodes the snapshot as an array of [name, value]
// pairs, since a JSON object would lose the entry order.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	pairs := make([][2]any, len(s))
	for i, e := range s {
		pairs[i] = [2]any{e.Name, e.Value}
	}

	return json.Marshal(pairs)
}

// UnmarshalJSON decodes an array of [name, value] pairs. Numbers
// are kept as json.Number so they display exactly as the engine
// sent them.
func (s *Snapshot) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var pairs [][]any
	if err := dec.Decode(&pairs); err != nil {
		return err
	}

	out := make(Snapshot, 0, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 {
			return fmt.Errorf("snapshot entry %d: expected [name, value], got %d elements", i, len(p))
		}
		name, ok := p[0].(string)
		if !ok {
			return errors.New("snapshot entry name must be a string")
		}
		out = append(out, Entry{Name: name, Value: p[1]})
	}
	*s = out

	return nil
}
