// Package session holds the state of one analysis: the rate table, the
// per-file results and the set of hidden merchants. Aggregates are always
// recomputed from a snapshot of that state.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/omriav/credit-analyzer/internal/aggregate"
	"github.com/omriav/credit-analyzer/internal/extract"
	"github.com/omriav/credit-analyzer/internal/layout"
	"github.com/omriav/credit-analyzer/internal/models"
	"github.com/omriav/credit-analyzer/internal/rates"
)

// Input is one file to analyze. Load is called once, when the file's turn
// comes, so later files are not decoded before earlier ones finish.
type Input struct {
	Name string
	Load func(ctx context.Context) ([]models.Row, error)
	// Layout forces a layout instead of detecting one. Empty means detect.
	Layout models.LayoutID
}

// Session is not safe for concurrent use.
type Session struct {
	ID    uuid.UUID
	Rates *rates.Table

	files  []models.FileResult
	hidden map[string]bool
}

// New starts a session converting with table. A nil table converts
// nothing.
func New(table *rates.Table) *Session {
	return &Session{
		ID:     uuid.New(),
		Rates:  table,
		hidden: make(map[string]bool),
	}
}

// ProcessFiles analyzes inputs in order and appends their results. A file
// that fails is recorded with its error and does not stop the batch or
// discard transactions from earlier files.
func (s *Session) ProcessFiles(ctx context.Context, inputs []Input) []models.FileResult {
	results := make([]models.FileResult, 0, len(inputs))
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			results = append(results, models.FileResult{FileName: in.Name, Error: err.Error()})
			continue
		}

		res := s.processFile(ctx, in)
		if res.Failed() {
			slog.Error("failed to process file", "session_id", s.ID, "file", in.Name, "error", res.Error)
		} else {
			slog.Info("processed file", "session_id", s.ID, "file", in.Name,
				"layout", res.LayoutID, "count", res.Count, "skipped", res.Skipped, "malformed", res.Malformed)
		}
		results = append(results, res)
	}

	s.files = append(s.files, results...)
	return results
}

func (s *Session) processFile(ctx context.Context, in Input) (res models.FileResult) {
	res.FileName = in.Name

	defer func() {
		if rec := recover(); rec != nil {
			res = models.FileResult{FileName: in.Name, Error: fmt.Sprintf("recovered from panic: %v", rec)}
		}
	}()

	rows, err := in.Load(ctx)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	var out extract.Result
	if in.Layout != "" {
		l, ok := layout.Lookup(in.Layout)
		if !ok {
			res.Error = fmt.Sprintf("unknown layout %q", in.Layout)
			return res
		}
		out = extract.ExtractWith(rows, layout.Anchor(l, rows), s.Rates)
	} else {
		out = extract.Extract(rows, s.Rates)
	}

	res.LayoutID = out.Layout.ID
	res.LayoutName = out.Layout.DisplayName
	res.Count = len(out.Transactions)
	res.Skipped = out.Skipped
	res.Malformed = out.Malformed
	res.Transactions = out.Transactions
	return res
}

// Files returns the results of every file processed so far.
func (s *Session) Files() []models.FileResult {
	return slices.Clone(s.files)
}

// Transactions returns every extracted transaction, hidden or not, in file
// order.
func (s *Session) Transactions() []models.Transaction {
	var all []models.Transaction
	for _, f := range s.files {
		all = append(all, f.Transactions...)
	}
	return all
}

// Visible returns the transactions of merchants that are not hidden.
func (s *Session) Visible() []models.Transaction {
	return aggregate.Exclude(s.Transactions(), s.hidden)
}

// Empty reports whether no visible transactions remain.
func (s *Session) Empty() bool {
	return len(s.Visible()) == 0
}

func (s *Session) Hide(merchant string) {
	s.hidden[merchant] = true
}

func (s *Session) Unhide(merchant string) {
	delete(s.hidden, merchant)
}

// Hidden returns the hidden merchants sorted by name.
func (s *Session) Hidden() []string {
	var names []string
	for name := range s.hidden {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Merchants ranks the visible transactions by merchant.
func (s *Session) Merchants(topN int) models.MerchantSummary {
	return aggregate.ByMerchant(s.Visible(), topN)
}

// Monthly returns the monthly series of one visible merchant. A hidden
// merchant yields an empty series.
func (s *Session) Monthly(merchant string) models.MonthlySeries {
	return aggregate.ByMonth(s.Visible(), merchant)
}

// Clear drops every file and hidden merchant. The rate table is kept.
func (s *Session) Clear() {
	s.files = nil
	clear(s.hidden)
}
