// Package snapshot builds the immutable number-to-name maps served by the resolver.
package snapshot

import (
	"maps"

	"github.com/huangsam/callerid/schema"
)

// Normalizer maps a raw phone number to its lookup key.
type Normalizer interface {
	Normalize(raw string) string
}

// Snapshot is an immutable mapping from normalized key to display name.
// A Snapshot is never modified after Build returns it.
type Snapshot struct {
	entries   map[string]string
	contacts  int
	conflicts int
}

var empty = &Snapshot{entries: map[string]string{}}

// Empty returns the shared empty snapshot. Publishing it invalidates the cache.
func Empty() *Snapshot {
	return empty
}

// Build normalizes every number of every record and returns the resulting snapshot.
//
// When two records normalize to the same key, the record later in enumeration
// order wins. Each overwritten key counts as one conflict. Blank names and
// numbers that normalize to "" are skipped.
func Build(records []schema.ContactRecord, n Normalizer) *Snapshot {
	entries := make(map[string]string, len(records))
	conflicts := 0
	contacts := 0
	for _, rec := range records {
		name := schema.CleanDisplayName(rec.Name)
		if name == "" {
			continue
		}
		contacts++
		for _, raw := range rec.Numbers {
			key := n.Normalize(raw)
			if key == "" {
				continue
			}
			if prev, ok := entries[key]; ok && prev != name {
				conflicts++
			}
			entries[key] = name
		}
	}
	return &Snapshot{entries: entries, contacts: contacts, conflicts: conflicts}
}

// Lookup returns the name stored under an already normalized key.
func (s *Snapshot) Lookup(key string) (string, bool) {
	if s == nil || key == "" {
		return "", false
	}
	name, ok := s.entries[key]
	return name, ok
}

// Len returns the number of keys.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Contacts returns how many named records contributed to the snapshot.
func (s *Snapshot) Contacts() int {
	if s == nil {
		return 0
	}
	return s.contacts
}

// Conflicts returns how many keys were claimed by more than one distinct name.
func (s *Snapshot) Conflicts() int {
	if s == nil {
		return 0
	}
	return s.conflicts
}

// Entries returns a copy of the mapping.
func (s *Snapshot) Entries() map[string]string {
	if s == nil {
		return map[string]string{}
	}
	return maps.Clone(s.entries)
}
