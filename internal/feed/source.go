package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Source supplies ordered batches of activity items for an account.
type Source interface {
	Fetch(ctx context.Context, fid int64, opts FetchOptions) (Page, error)
}

// FileSource serves a batch stored as JSON on disk. The file holds either
// a Page object or a bare array of items. Cursors are ignored.
type FileSource struct {
	Path string
}

// NewFileSource creates a source reading from path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Fetch reads the file and returns at most opts.Limit items.
func (s *FileSource) Fetch(_ context.Context, _ int64, opts FetchOptions) (Page, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return Page{}, fmt.Errorf("%w: reading %s: %v", ErrFetchFailed, s.Path, err)
	}

	var page Page
	if err := json.Unmarshal(data, &page); err != nil {
		var items []ActivityItem
		if err2 := json.Unmarshal(data, &items); err2 != nil {
			return Page{}, fmt.Errorf("%w: decoding %s: %v", ErrFetchFailed, s.Path, err)
		}
		page = Page{Items: items}
	}
	page.NextCursor = ""

	if opts.Limit > 0 && len(page.Items) > opts.Limit {
		page.Items = page.Items[:opts.Limit]
	}
	return page, nil
}

// PaginateOptions controls a multi-page fetch.
type PaginateOptions struct {
	PageSize  int
	MaxPages  int
	PageDelay time.Duration
	// MaxItems caps the total returned; zero means no cap.
	MaxItems int
	// OnPage is called after each page with the 1-based page number.
	OnPage func(page int, items int)
}

// Paginate fetches up to MaxPages pages sequentially, stopping early when
// the source reports no further cursor or MaxItems items have been
// collected. PageDelay is slept between pages.
func Paginate(ctx context.Context, src Source, fid int64, opts PaginateOptions) ([]ActivityItem, error) {
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}

	var (
		all    []ActivityItem
		cursor string
	)
	for page := 1; page <= maxPages; page++ {
		size := opts.PageSize
		if opts.MaxItems > 0 {
			if remaining := opts.MaxItems - len(all); size <= 0 || remaining < size {
				size = remaining
			}
		}
		p, err := src.Fetch(ctx, fid, FetchOptions{Limit: size, Cursor: cursor})
		if err != nil {
			return nil, err
		}
		items := p.Items
		if opts.MaxItems > 0 && len(all)+len(items) > opts.MaxItems {
			items = items[:opts.MaxItems-len(all)]
		}
		all = append(all, items...)
		if opts.OnPage != nil {
			opts.OnPage(page, len(items))
		}

		cursor = p.NextCursor
		if cursor == "" || page == maxPages || (opts.MaxItems > 0 && len(all) >= opts.MaxItems) {
			break
		}

		if opts.PageDelay > 0 {
			t := time.NewTimer(opts.PageDelay)
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, ctx.Err()
			case <-t.C:
			}
		}
	}
	return all, nil
}
