package enrollment

import (
	"github.com/alkime/speakerid/internal/backend"
	"github.com/alkime/speakerid/internal/sample"
	"github.com/alkime/speakerid/pkg/collections"
)

// Entry is one speaker slot. Its position in the Roster is its identity.
type Entry struct {
	Name   string
	Sample sample.Sample
}

// Complete reports whether both the name and the sample are present.
func (e Entry) Complete() bool {
	return e.Name != "" && !e.Sample.IsEmpty()
}

// Roster is the ordered list of speaker entries.
type Roster []Entry

func newRoster(n int) Roster {
	return collections.Repeat(n, func() Entry { return Entry{} })
}

// Completed returns the number of complete entries.
func (r Roster) Completed() int {
	return collections.Count(r, Entry.Complete)
}

// Complete reports whether every entry is complete.
func (r Roster) Complete() bool {
	return collections.All(r, Entry.Complete)
}

func (r Roster) clone() Roster {
	out := make(Roster, len(r))
	copy(out, r)

	return out
}

func (r Roster) speakers() []backend.Speaker {
	return collections.Apply(r, func(e Entry) backend.Speaker {
		return backend.Speaker{Name: e.Name, Sample: e.Sample}
	})
}
