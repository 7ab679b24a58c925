// Package companion assembles the daily engagement report and runs the
// pipeline that produces it.
package companion

import (
	"math"
	"time"

	"github.com/ziadkadry99/fc-companion/internal/detector"
	"github.com/ziadkadry99/fc-companion/internal/quality"
	"github.com/ziadkadry99/fc-companion/internal/radar"
)

// DateLayout is the calendar-date format used in reports and storage keys.
const DateLayout = "2006-01-02"

// Entry is one opportunity in a report, with its optional quality
// assessment and context analysis.
type Entry struct {
	radar.Opportunity
	Quality *quality.Assessment `json:"quality,omitempty"`
	Context *detector.Analysis  `json:"context,omitempty"`
}

// Summary aggregates a report's entries.
type Summary struct {
	Count          int `json:"count"`
	AverageScore   int `json:"average_score"`
	ContextsNeeded int `json:"contexts_needed"`
}

// Report is the daily companion for one account.
type Report struct {
	ID            string            `json:"id,omitempty"`
	Date          string            `json:"date"`
	FID           int64             `json:"fid"`
	GeneratedAt   time.Time         `json:"generated_at"`
	Opportunities []Entry           `json:"opportunities"`
	Summary       Summary           `json:"summary"`
	Rejected      []radar.Rejection `json:"rejected,omitempty"`
}

// FromOpportunities wraps ranked opportunities as report entries.
func FromOpportunities(opps []radar.Opportunity) []Entry {
	out := make([]Entry, len(opps))
	for i, o := range opps {
		out[i] = Entry{Opportunity: o}
	}
	return out
}

// FromAssessed wraps quality-filtered opportunities as report entries.
func FromAssessed(assessed []quality.Assessed) []Entry {
	out := make([]Entry, len(assessed))
	for i, a := range assessed {
		q := a.Quality
		out[i] = Entry{Opportunity: a.Opportunity, Quality: &q}
	}
	return out
}

// Assembler builds reports, attaching a context analysis to each entry.
type Assembler struct {
	detector *detector.Detector
}

// NewAssembler creates an assembler using d for context analysis.
func NewAssembler(d *detector.Detector) *Assembler {
	return &Assembler{detector: d}
}

// Assemble analyses every entry's text and computes the summary. Entry
// order is preserved.
func (a *Assembler) Assemble(entries []Entry, date time.Time, fid int64) Report {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		analysis := a.detector.Analyze(e.Item.Text, e.Item.Hash)
		e.Context = &analysis
		out[i] = e
	}
	return Report{
		Date:          date.Format(DateLayout),
		FID:           fid,
		GeneratedAt:   date,
		Opportunities: out,
		Summary:       Summarize(out),
	}
}

// Summarize computes count, rounded mean score (0 when empty) and the
// number of entries whose analysis needs explanation.
func Summarize(entries []Entry) Summary {
	s := Summary{Count: len(entries)}
	if len(entries) == 0 {
		return s
	}
	total := 0
	for _, e := range entries {
		total += e.Score
		if e.Context != nil && e.Context.NeedsExplanation {
			s.ContextsNeeded++
		}
	}
	s.AverageScore = int(math.Round(float64(total) / float64(len(entries))))
	return s
}
