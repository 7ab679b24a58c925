// Package knowledge is the companion's library of recurring community terms.
// Entries are created when a term is seen often enough in the feed and are
// only ever updated by merging new sightings into them.
package knowledge

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"time"

	"github.com/ziadkadry99/fc-companion/internal/patterns"
)

var (
	// ErrInvalidEntry is returned when an entry fails validation on Add.
	ErrInvalidEntry = errors.New("invalid knowledge entry")

	// ErrInvalidOption is returned for learner options outside their domain.
	ErrInvalidOption = errors.New("invalid knowledge option")
)

// Entry is one explained term.
type Entry struct {
	ID          string        `json:"id"`
	Type        patterns.Kind `json:"type"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Explanation string        `json:"explanation"`
	WhyMatters  string        `json:"why_matters,omitempty"`
	Examples    []string      `json:"examples"`
	Sources     []string      `json:"sources"`
	FirstSeen   time.Time     `json:"first_seen"`
	LastUpdated time.Time     `json:"last_updated"`
	Confidence  float64       `json:"confidence"`
	Related     []string      `json:"related"`
}

var slugRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidTypes are the kinds an entry may carry.
var ValidTypes = []patterns.Kind{
	patterns.KindPerson,
	patterns.KindFeature,
	patterns.KindCulture,
	patterns.KindTopic,
	patterns.KindChannel,
	patterns.KindTool,
}

// Validate checks the entry's id, type and confidence.
func (e Entry) Validate() error {
	if !slugRe.MatchString(e.ID) {
		return fmt.Errorf("%w: id %q is not a lowercase slug", ErrInvalidEntry, e.ID)
	}
	if !slices.Contains(ValidTypes, e.Type) {
		return fmt.Errorf("%w: %s has unknown type %q", ErrInvalidEntry, e.ID, e.Type)
	}
	if e.Title == "" {
		return fmt.Errorf("%w: %s has no title", ErrInvalidEntry, e.ID)
	}
	if math.IsNaN(e.Confidence) || e.Confidence < 0 || e.Confidence > 1 {
		return fmt.Errorf("%w: %s confidence %v outside [0,1]", ErrInvalidEntry, e.ID, e.Confidence)
	}
	return nil
}

// clone returns a deep copy with timestamps normalised to UTC.
func (e Entry) clone() Entry {
	e.Examples = slices.Clone(e.Examples)
	e.Sources = slices.Clone(e.Sources)
	e.Related = slices.Clone(e.Related)
	e.FirstSeen = e.FirstSeen.UTC()
	e.LastUpdated = e.LastUpdated.UTC()
	return e
}

// SourceConfidence maps a number of independent sightings to a confidence,
// saturating at ten.
func SourceConfidence(n int) float64 {
	return math.Min(1, float64(n)/10)
}

// unionSources appends the ids in add that are not already in base,
// preserving first-seen order.
func unionSources(base, add []string) []string {
	seen := make(map[string]struct{}, len(base)+len(add))
	out := make([]string, 0, len(base)+len(add))
	for _, list := range [][]string{base, add} {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
