// Package detector finds community references in post text and says which
// of them a newcomer would need explained.
package detector

import (
	"strings"

	"github.com/ziadkadry99/fc-companion/internal/knowledge"
	"github.com/ziadkadry99/fc-companion/internal/patterns"
)

// Reference confidences.
const (
	ConfidenceResolved   = 0.9
	ConfidenceUnresolved = 0.5
	ConfidenceFeature    = 0.7
	ConfidenceChannel    = 0.8
)

// ContextNeeded is the suggestion text for references with no entry.
const ContextNeeded = "[Context needed - not in knowledge library yet]"

// Lookup is the read side of the knowledge store.
type Lookup interface {
	Get(id string) (knowledge.Entry, bool)
}

// Reference is one term found in a text.
type Reference struct {
	Kind       patterns.Kind    `json:"kind"`
	Text       string           `json:"text"`
	Entry      *knowledge.Entry `json:"entry,omitempty"`
	Confidence float64          `json:"confidence"`
}

// Resolved reports whether the reference was matched to an entry.
func (r Reference) Resolved() bool { return r.Entry != nil }

// Analysis is the detector's result for one post.
type Analysis struct {
	ItemHash         string      `json:"item_hash"`
	References       []Reference `json:"references"`
	NeedsExplanation bool        `json:"needs_explanation"`
	SuggestedContext []string    `json:"suggested_context"`
}

// Detector reads from a knowledge lookup and never writes to it.
type Detector struct {
	lookup Lookup
}

// New creates a detector backed by lookup.
func New(lookup Lookup) *Detector {
	return &Detector{lookup: lookup}
}

// Analyze collects culture, tool, feature and channel references in text.
// Culture and tool references are resolved against the knowledge store;
// features and channels never are. Duplicates are dropped ignoring case,
// keeping the first occurrence.
func (d *Detector) Analyze(text, itemHash string) Analysis {
	var refs []Reference
	for _, m := range patterns.FindAll(patterns.Culture, text) {
		refs = append(refs, d.resolve(m))
	}
	for _, m := range patterns.FindAll(patterns.Tools, text) {
		refs = append(refs, d.resolve(m))
	}
	for _, m := range patterns.FindAll(patterns.Features, text) {
		refs = append(refs, Reference{Kind: patterns.KindFeature, Text: m.Text, Confidence: ConfidenceFeature})
	}
	for _, m := range patterns.FindAll(patterns.Channels, text) {
		refs = append(refs, Reference{Kind: patterns.KindChannel, Text: m.Text, Confidence: ConfidenceChannel})
	}

	refs = dedupe(refs)
	return Analysis{
		ItemHash:         itemHash,
		References:       refs,
		NeedsExplanation: len(refs) > 0,
		SuggestedContext: suggestions(refs),
	}
}

// resolve looks a match up first by its rule's id, then by the lowercased
// text itself.
func (d *Detector) resolve(m patterns.Match) Reference {
	ref := Reference{Kind: m.Rule.Kind, Text: m.Text, Confidence: ConfidenceUnresolved}
	for _, id := range []string{m.ID(), strings.ToLower(m.Text)} {
		if e, ok := d.lookup.Get(id); ok {
			ref.Entry = &e
			ref.Confidence = ConfidenceResolved
			break
		}
	}
	return ref
}

func dedupe(refs []Reference) []Reference {
	seen := make(map[string]struct{}, len(refs))
	out := make([]Reference, 0, len(refs))
	for _, r := range refs {
		key := strings.ToLower(r.Text)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

func suggestions(refs []Reference) []string {
	var out []string
	for _, r := range refs {
		if r.Entry == nil {
			out = append(out, r.Text+": "+ContextNeeded)
			continue
		}
		out = append(out, r.Text+": "+r.Entry.Explanation)
		if r.Entry.WhyMatters != "" {
			out = append(out, "Why it matters: "+r.Entry.WhyMatters)
		}
	}
	return out
}
