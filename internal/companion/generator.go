package companion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/fc-companion/internal/feed"
	"github.com/ziadkadry99/fc-companion/internal/knowledge"
	"github.com/ziadkadry99/fc-companion/internal/logging"
	"github.com/ziadkadry99/fc-companion/internal/metrics"
	"github.com/ziadkadry99/fc-companion/internal/quality"
	"github.com/ziadkadry99/fc-companion/internal/radar"
)

// Artifacts writes report outputs somewhere a person will read them.
type Artifacts interface {
	WriteFeedLog(fid int64, items []feed.ActivityItem, at time.Time) (string, error)
	WriteReport(r Report) ([]string, error)
}

// Options controls one report run.
type Options struct {
	FID   int64
	Fetch feed.PaginateOptions
	Rank  radar.Options
	// Filter enables the quality stage when set.
	Filter       *quality.Filter
	Learn        bool
	LearnOptions knowledge.LearnOptions
}

// Result is everything a run produced.
type Result struct {
	Report   Report
	Fetched  int
	Filtered int
	Paths    []string
	Learned  *knowledge.LearnResult
}

// Generator runs the pipeline: fetch, rank, optionally filter by quality,
// assemble, persist, and optionally learn from the fetched batch. Artifacts,
// Reports, Knowledge and Metrics may be nil.
type Generator struct {
	Source     feed.Source
	Scorer     *radar.Scorer
	Classifier *quality.Classifier
	Assembler  *Assembler
	Learner    *knowledge.Learner
	Store      *knowledge.Store
	Knowledge  *knowledge.Repository
	Artifacts  Artifacts
	Reports    *ReportStore
	Metrics    *metrics.Collector
	Log        logrus.FieldLogger
	Now        func() time.Time
}

func (g *Generator) logger() logrus.FieldLogger {
	if g.Log == nil {
		return logging.Discard()
	}
	return g.Log
}

func (g *Generator) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}

func (g *Generator) fetch(ctx context.Context, fid int64, opts feed.PaginateOptions) ([]feed.ActivityItem, error) {
	done := g.Metrics.Time("fetch")
	defer done()
	items, err := feed.Paginate(ctx, g.Source, fid, opts)
	if err != nil {
		return nil, err
	}
	g.Metrics.ObserveFetch(len(items))
	return items, nil
}

// Generate produces and persists today's report.
func (g *Generator) Generate(ctx context.Context, opts Options) (Result, error) {
	now := g.now()
	log := g.logger().WithField("fid", opts.FID)

	items, err := g.fetch(ctx, opts.FID, opts.Fetch)
	if err != nil {
		return Result{}, err
	}
	res := Result{Fetched: len(items)}

	if g.Artifacts != nil {
		path, err := g.Artifacts.WriteFeedLog(opts.FID, items, now)
		if err != nil {
			return res, fmt.Errorf("writing feed log: %w", err)
		}
		res.Paths = append(res.Paths, path)
	}

	doneRank := g.Metrics.Time("rank")
	ranking, err := g.Scorer.FindOpportunities(items, opts.Rank)
	doneRank()
	if err != nil {
		return res, err
	}
	g.Metrics.ObserveRanking(len(ranking.Opportunities), len(ranking.Rejected))

	entries := FromOpportunities(ranking.Opportunities)
	if opts.Filter != nil && g.Classifier != nil {
		assessed, err := g.Classifier.Filter(ranking.Opportunities, *opts.Filter)
		if err != nil {
			return res, err
		}
		res.Filtered = len(ranking.Opportunities) - len(assessed)
		g.Metrics.ObserveFiltered(res.Filtered)
		entries = FromAssessed(assessed)
	}

	report := g.Assembler.Assemble(entries, now, opts.FID)
	report.ID = uuid.New().String()
	report.Rejected = ranking.Rejected
	g.Metrics.ObserveContextsNeeded(report.Summary.ContextsNeeded)

	if g.Reports != nil {
		if _, err := g.Reports.Save(ctx, report); err != nil {
			return res, err
		}
	}
	if g.Artifacts != nil {
		paths, err := g.Artifacts.WriteReport(report)
		if err != nil {
			return res, fmt.Errorf("writing report: %w", err)
		}
		res.Paths = append(res.Paths, paths...)
	}
	res.Report = report

	if opts.Learn && g.Learner != nil {
		learned, err := g.learn(ctx, items, opts.LearnOptions)
		if err != nil {
			return res, err
		}
		res.Learned = &learned
	}

	log.WithFields(logrus.Fields{
		"fetched":         res.Fetched,
		"opportunities":   report.Summary.Count,
		"average_score":   report.Summary.AverageScore,
		"contexts_needed": report.Summary.ContextsNeeded,
		"filtered":        res.Filtered,
	}).Info("companion: report generated")
	return res, nil
}

// Learn fetches a batch and folds its terms into the knowledge store.
func (g *Generator) Learn(ctx context.Context, fid int64, fetch feed.PaginateOptions, opts knowledge.LearnOptions) (knowledge.LearnResult, error) {
	items, err := g.fetch(ctx, fid, fetch)
	if err != nil {
		return knowledge.LearnResult{}, err
	}
	return g.learn(ctx, items, opts)
}

func (g *Generator) learn(ctx context.Context, items []feed.ActivityItem, opts knowledge.LearnOptions) (knowledge.LearnResult, error) {
	done := g.Metrics.Time("learn")
	res, err := g.Learner.Learn(items, opts)
	done()
	if err != nil {
		return res, err
	}
	g.Metrics.ObserveLearn(len(res.Created), len(res.Updated))

	if g.Knowledge != nil && g.Store != nil {
		if err := g.Knowledge.SaveStore(ctx, g.Store); err != nil {
			return res, fmt.Errorf("saving knowledge: %w", err)
		}
	}
	return res, nil
}
