package snapshot

import (
	"testing"

	"github.com/huangsam/callerid/internal/phone"
	"github.com/huangsam/callerid/schema"
	"github.com/stretchr/testify/assert"
)

var czech = phone.New("420", 9, "0")

func TestBuildResolvesBothForms(t *testing.T) {
	snap := Build([]schema.ContactRecord{
		{Name: "Mother", Numbers: []string{"+420 123 456 789"}},
	}, czech)

	for _, raw := range []string{"420123456789", "+420123456789", "123456789"} {
		name, ok := snap.Lookup(czech.Normalize(raw))
		assert.True(t, ok, raw)
		assert.Equal(t, "Mother", name, raw)
	}
	assert.Equal(t, 1, snap.Len())
	assert.Equal(t, 1, snap.Contacts())
}

func TestBuildLastRecordWins(t *testing.T) {
	records := []schema.ContactRecord{
		{Name: "Office", Numbers: []string{"+420 111 222 333", "+420 999 888 777"}},
		{Name: "Jana", Numbers: []string{"111222333"}},
	}

	first := Build(records, czech)
	name, ok := first.Lookup("+420111222333")
	assert.True(t, ok)
	assert.Equal(t, "Jana", name)
	assert.Equal(t, 1, first.Conflicts())

	// Same input order gives the same winner every time.
	second := Build(records, czech)
	assert.Equal(t, first.Entries(), second.Entries())

	// Reversing the order flips the winner.
	reversed := Build([]schema.ContactRecord{records[1], records[0]}, czech)
	name, _ = reversed.Lookup("+420111222333")
	assert.Equal(t, "Office", name)
}

func TestBuildSameNameIsNotConflict(t *testing.T) {
	snap := Build([]schema.ContactRecord{
		{Name: "Mother", Numbers: []string{"+420123456789", "00420 123 456 789"}},
	}, czech)
	assert.Equal(t, 1, snap.Len())
	assert.Zero(t, snap.Conflicts())
}

func TestBuildSkipsBlankInput(t *testing.T) {
	snap := Build([]schema.ContactRecord{
		{Name: "  ", Numbers: []string{"+420123456789"}},
		{Name: "No Number", Numbers: []string{"", "n/a"}},
		{Name: "  Jan   Novak ", Numbers: []string{"777 000 111"}},
	}, czech)

	assert.Equal(t, 1, snap.Len())
	assert.Equal(t, 2, snap.Contacts())
	name, ok := snap.Lookup("+420777000111")
	assert.True(t, ok)
	assert.Equal(t, "Jan Novak", name)
	_, ok = snap.Lookup("")
	assert.False(t, ok)
}

func TestEmptyAndNilSnapshots(t *testing.T) {
	assert.Zero(t, Empty().Len())
	assert.Same(t, Empty(), Empty())
	_, ok := Empty().Lookup("+420123456789")
	assert.False(t, ok)

	var nilSnap *Snapshot
	assert.Zero(t, nilSnap.Len())
	assert.Zero(t, nilSnap.Conflicts())
	assert.Empty(t, nilSnap.Entries())
	_, ok = nilSnap.Lookup("+1")
	assert.False(t, ok)
}

func TestEntriesReturnsCopy(t *testing.T) {
	snap := Build([]schema.ContactRecord{{Name: "Mother", Numbers: []string{"+420123456789"}}}, czech)
	entries := snap.Entries()
	entries["+420123456789"] = "Mallory"
	entries["+1"] = "Extra"

	name, _ := snap.Lookup("+420123456789")
	assert.Equal(t, "Mother", name)
	assert.Equal(t, 1, snap.Len())
}
