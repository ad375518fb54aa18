// Package arrayfield keeps the state of a repeatable sub-record field: an
// ordered list of items, each with a stable identity.
//
// Identities are assigned once and never renumbered or reused. Positions are
// never stored: anything addressed by index (display order, error paths) is
// derived from the current order when it is read.
package arrayfield

import (
	"maps"
	"sync"

	"github.com/google/uuid"

	ff "github.com/reoring/formflow"
)

// ID is the opaque identity of an item.
type ID string

// Item is one entry of the field as seen by a reader.
type Item struct {
	ID    ID
	Value ff.RawInput
}

// Field is the state of one repeatable field. The zero value is not usable;
// call New.
type Field struct {
	mu     sync.Mutex
	items  []Item
	issued map[ID]struct{}
	newID  func() string
}

var _ ff.ListSource = (*Field)(nil)

// Option configures a Field.
type Option func(*Field)

// WithIDGenerator replaces the uuid generator. Generated values that were
// already issued are discarded and the generator is called again.
func WithIDGenerator(gen func() string) Option {
	return func(f *Field) {
		if gen != nil {
			f.newID = gen
		}
	}
}

// New returns an empty field.
func New(opts ...Option) *Field {
	f := &Field{
		issued: map[ID]struct{}{},
		newID:  func() string { return uuid.NewString() },
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// fresh returns an identity never handed out before. Callers hold f.mu.
func (f *Field) fresh() ID {
	for {
		id := ID(f.newID())
		if id == "" {
			continue
		}
		if _, seen := f.issued[id]; seen {
			continue
		}
		f.issued[id] = struct{}{}
		return id
	}
}

// Append adds an item at the end and returns its identity.
func (f *Field) Append(initial ff.RawInput) ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.fresh()
	f.items = append(f.items, Item{ID: id, Value: clone(initial)})
	return id
}

// Insert adds an item before position at (clamped to [0, Len]).
func (f *Field) Insert(at int, initial ff.RawInput) ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	at = max(0, min(at, len(f.items)))
	id := f.fresh()
	f.items = append(f.items, Item{})
	copy(f.items[at+1:], f.items[at:])
	f.items[at] = Item{ID: id, Value: clone(initial)}
	return id
}

// Remove deletes the item with identity id. Removing an unknown or already
// removed identity is a no-op; the result reports whether anything changed.
func (f *Field) Remove(id ID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(id)
	if i < 0 {
		return false
	}
	f.items = append(f.items[:i], f.items[i+1:]...)
	return true
}

// Move relocates the item with identity id to position to (clamped).
func (f *Field) Move(id ID, to int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	from := f.indexLocked(id)
	if from < 0 {
		return false
	}
	to = max(0, min(to, len(f.items)-1))
	it := f.items[from]
	f.items = append(f.items[:from], f.items[from+1:]...)
	f.items = append(f.items, Item{})
	copy(f.items[to+1:], f.items[to:])
	f.items[to] = it
	return true
}

// Update replaces the value of an item.
func (f *Field) Update(id ID, value ff.RawInput) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(id)
	if i < 0 {
		return false
	}
	f.items[i].Value = clone(value)
	return true
}

// Set assigns one sub-field of an item.
func (f *Field) Set(id ID, key string, value any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(id)
	if i < 0 {
		return false
	}
	if f.items[i].Value == nil {
		f.items[i].Value = ff.RawInput{}
	}
	f.items[i].Value[key] = value
	return true
}

// Get returns a copy of an item's value.
func (f *Field) Get(id ID) (ff.RawInput, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(id)
	if i < 0 {
		return nil, false
	}
	return clone(f.items[i].Value), true
}

// Index returns the current position of id.
func (f *Field) Index(id ID) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(id)
	return i, i >= 0
}

// Len reports the number of items.
func (f *Field) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// Items returns the items in current order. Values are copies.
func (f *Field) Items() []Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Item, len(f.items))
	for i, it := range f.items {
		out[i] = Item{ID: it.ID, Value: clone(it.Value)}
	}
	return out
}

// ListItems implements formflow.ListSource so the field can be placed
// directly into a RawInput.
func (f *Field) ListItems() []ff.RawInput {
	if f == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ff.RawInput, len(f.items))
	for i, it := range f.items {
		out[i] = clone(it.Value)
		if out[i] == nil {
			out[i] = ff.RawInput{}
		}
	}
	return out
}

// PathOf addresses the item with identity id under the list path, using its
// current position.
func (f *Field) PathOf(list ff.Path, id ID) (ff.Path, bool) {
	i, ok := f.Index(id)
	if !ok {
		return ff.Path{}, false
	}
	return list.Index(i), true
}

// ErrorFor projects the message for sub-field sub of the item with identity
// id. An empty sub addresses the item itself. The lookup goes through the
// item's current position, so a tree produced before a removal or move
// reports whatever was validated at that position.
func (f *Field) ErrorFor(tree *ff.ErrorTree, list ff.Path, id ID, sub string) (string, bool) {
	p, ok := f.PathOf(list, id)
	if !ok {
		return "", false
	}
	if sub != "" {
		p = p.Field(sub)
	}
	return ff.Project(tree, p.String())
}

func (f *Field) indexLocked(id ID) int {
	for i, it := range f.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func clone(in ff.RawInput) ff.RawInput {
	if in == nil {
		return nil
	}
	return maps.Clone(in)
}
