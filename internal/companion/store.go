package companion

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/fc-companion/internal/db"
)

// ErrReportNotFound is returned when no report exists for the requested date.
var ErrReportNotFound = errors.New("report not found")

// createdLayout is fixed width so text order in the created_at column is
// time order.
const createdLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Record is a stored report's header.
type Record struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	FID       int64     `json:"fid"`
	Summary   Summary   `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// ReportStore keeps generated reports in the reports table. One report is
// kept per date and account; regenerating replaces it.
type ReportStore struct {
	db *db.DB
}

// NewReportStore creates a ReportStore backed by the given database.
func NewReportStore(database *db.DB) *ReportStore {
	return &ReportStore{db: database}
}

// Save stores r, assigning an id when it has none. The row is stamped with
// r.GeneratedAt, or the current time when that is zero. It returns the
// stored id.
func (s *ReportStore) Save(ctx context.Context, r Report) (string, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	created := r.GeneratedAt
	if created.IsZero() {
		created = time.Now()
	}
	body, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshalling report: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (id, date, fid, opportunities, average_score, contexts_needed, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, fid) DO UPDATE SET
			id = excluded.id,
			opportunities = excluded.opportunities,
			average_score = excluded.average_score,
			contexts_needed = excluded.contexts_needed,
			body = excluded.body,
			created_at = excluded.created_at`,
		r.ID, r.Date, r.FID,
		r.Summary.Count, r.Summary.AverageScore, r.Summary.ContextsNeeded,
		string(body),
		created.UTC().Format(createdLayout),
	)
	if err != nil {
		return "", fmt.Errorf("saving report: %w", err)
	}
	return r.ID, nil
}

// Get returns the report for date and fid. A non-positive fid matches any
// account and returns the most recently generated report for the date.
func (s *ReportStore) Get(ctx context.Context, date string, fid int64) (Report, error) {
	query := `SELECT body FROM reports WHERE date = ?`
	args := []any{date}
	if fid > 0 {
		query += ` AND fid = ?`
		args = append(args, fid)
	}
	query += ` ORDER BY created_at DESC LIMIT 1`

	var body string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return Report{}, fmt.Errorf("%w: %s", ErrReportNotFound, date)
	}
	if err != nil {
		return Report{}, fmt.Errorf("querying report: %w", err)
	}

	var r Report
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return Report{}, fmt.Errorf("decoding report %s: %w", date, err)
	}
	return r, nil
}

// List returns report headers, newest date first. A non-positive limit
// returns all of them.
func (s *ReportStore) List(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT id, date, fid, opportunities, average_score, contexts_needed, created_at
		FROM reports ORDER BY date DESC, created_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec     Record
			created string
		)
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.FID,
			&rec.Summary.Count, &rec.Summary.AverageScore, &rec.Summary.ContextsNeeded, &created); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		if rec.CreatedAt, err = time.Parse(createdLayout, created); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
