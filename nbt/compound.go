package nbt

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Compound maps unique names to tags. Entries are kept in ascending
// byte-wise name order, so iteration and serialization order do not depend
// on insertion order.
//
// A nil *Compound behaves as an empty, read-only compound.
type Compound struct {
	entries []Entry
}

// Entry is one name/tag pair of a Compound.
type Entry struct {
	Name string
	Tag  Tag
}

// E creates an Entry, for use with NewCompound.
func E(name string, tag Tag) Entry {
	return Entry{Name: name, Tag: tag}
}

// NewCompound creates a compound holding entries. Later entries overwrite
// earlier ones with the same name.
func NewCompound(entries ...Entry) *Compound {
	c := &Compound{entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		c.Set(e.Name, e.Tag)
	}
	return c
}

func (*Compound) Type() TagType { return TagCompound }
func (*Compound) isTag()        {}

func (c *Compound) search(name string) (int, bool) {
	return slices.BinarySearchFunc(c.entries, name, func(e Entry, n string) int {
		return strings.Compare(e.Name, n)
	})
}

// Len returns the number of entries.
func (c *Compound) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Set inserts or replaces the entry for name.
func (c *Compound) Set(name string, tag Tag) {
	if tag == nil {
		panic("nbt: cannot set nil tag")
	}
	i, found := c.search(name)
	if found {
		c.entries[i].Tag = tag
		return
	}
	c.entries = slices.Insert(c.entries, i, Entry{Name: name, Tag: tag})
}

// Lookup returns the tag stored under name.
func (c *Compound) Lookup(name string) (Tag, bool) {
	if c == nil {
		return nil, false
	}
	i, found := c.search(name)
	if !found {
		return nil, false
	}
	return c.entries[i].Tag, true
}

// Get returns the tag stored under name, or an error wrapping
// ErrKeyNotFound.
func (c *Compound) Get(name string) (Tag, error) {
	t, ok := c.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("nbt: %w: %q", ErrKeyNotFound, name)
	}
	return t, nil
}

// Has reports whether name is present.
func (c *Compound) Has(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

// Delete removes name and reports whether it was present.
func (c *Compound) Delete(name string) bool {
	if c == nil {
		return false
	}
	i, found := c.search(name)
	if !found {
		return false
	}
	c.entries = slices.Delete(c.entries, i, i+1)
	return true
}

// Names returns the entry names in order.
func (c *Compound) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// All iterates over the entries in name order.
func (c *Compound) All() iter.Seq2[string, Tag] {
	return func(yield func(string, Tag) bool) {
		if c == nil {
			return
		}
		for _, e := range c.entries {
			if !yield(e.Name, e.Tag) {
				return
			}
		}
	}
}
