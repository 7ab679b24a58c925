package knowledge

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ziadkadry99/fc-companion/internal/db"
	"github.com/ziadkadry99/fc-companion/internal/patterns"
)

// Repository persists entries in the knowledge_entries table.
type Repository struct {
	db *db.DB
}

// NewRepository creates a Repository backed by the given database.
func NewRepository(database *db.DB) *Repository {
	return &Repository{db: database}
}

// Save upserts every entry in one transaction.
func (r *Repository) Save(ctx context.Context, entries []Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		if err := saveEntry(ctx, tx, e); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing knowledge entries: %w", err)
	}
	return nil
}

func saveEntry(ctx context.Context, tx *sql.Tx, e Entry) error {
	examples, err := json.Marshal(e.Examples)
	if err != nil {
		return fmt.Errorf("marshalling examples for %s: %w", e.ID, err)
	}
	sources, err := json.Marshal(e.Sources)
	if err != nil {
		return fmt.Errorf("marshalling sources for %s: %w", e.ID, err)
	}
	related, err := json.Marshal(e.Related)
	if err != nil {
		return fmt.Errorf("marshalling related for %s: %w", e.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO knowledge_entries (
			id, type, title, description, explanation, why_matters,
			examples, sources, first_seen, last_updated, confidence, related
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			title = excluded.title,
			description = excluded.description,
			explanation = excluded.explanation,
			why_matters = excluded.why_matters,
			examples = excluded.examples,
			sources = excluded.sources,
			first_seen = excluded.first_seen,
			last_updated = excluded.last_updated,
			confidence = excluded.confidence,
			related = excluded.related`,
		e.ID,
		string(e.Type),
		e.Title,
		e.Description,
		e.Explanation,
		e.WhyMatters,
		string(examples),
		string(sources),
		e.FirstSeen.UTC().Format(time.RFC3339Nano),
		e.LastUpdated.UTC().Format(time.RFC3339Nano),
		e.Confidence,
		string(related),
	)
	if err != nil {
		return fmt.Errorf("upserting knowledge entry %s: %w", e.ID, err)
	}
	return nil
}

// Load returns every stored entry ordered by id.
func (r *Repository) Load(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, title, description, explanation, why_matters,
		       examples, sources, first_seen, last_updated, confidence, related
		FROM knowledge_entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying knowledge entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                          Entry
			kind                       string
			examples, sources, related string
			firstSeen, lastUpdated     string
		)
		if err := rows.Scan(&e.ID, &kind, &e.Title, &e.Description, &e.Explanation, &e.WhyMatters,
			&examples, &sources, &firstSeen, &lastUpdated, &e.Confidence, &related); err != nil {
			return nil, fmt.Errorf("scanning knowledge entry: %w", err)
		}
		e.Type = patterns.Kind(kind)
		if err := json.Unmarshal([]byte(examples), &e.Examples); err != nil {
			return nil, fmt.Errorf("decoding examples for %s: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(sources), &e.Sources); err != nil {
			return nil, fmt.Errorf("decoding sources for %s: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(related), &e.Related); err != nil {
			return nil, fmt.Errorf("decoding related for %s: %w", e.ID, err)
		}
		if e.FirstSeen, err = time.Parse(time.RFC3339Nano, firstSeen); err != nil {
			return nil, fmt.Errorf("parsing first_seen for %s: %w", e.ID, err)
		}
		if e.LastUpdated, err = time.Parse(time.RFC3339Nano, lastUpdated); err != nil {
			return nil, fmt.Errorf("parsing last_updated for %s: %w", e.ID, err)
		}
		entries = append(entries, e.clone())
	}
	return entries, rows.Err()
}

// LoadInto fills store from the database, then seeds any bootstrap entries
// still missing. It returns the number of entries loaded and seeded.
func (r *Repository) LoadInto(ctx context.Context, store *Store, now time.Time) (loaded, seeded int, err error) {
	entries, err := r.Load(ctx)
	if err != nil {
		return 0, 0, err
	}
	for _, e := range entries {
		if err := store.Add(e); err != nil {
			return loaded, 0, fmt.Errorf("loading %s: %w", e.ID, err)
		}
		loaded++
	}
	seeded, err = store.Seed(Bootstrap(now))
	return loaded, seeded, err
}

// SaveStore persists the full contents of store.
func (r *Repository) SaveStore(ctx context.Context, store *Store) error {
	return r.Save(ctx, store.All())
}
