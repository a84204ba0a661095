package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"

	"github.com/omriav/credit-analyzer/internal/aggregate"
	"github.com/omriav/credit-analyzer/internal/models"
	"github.com/omriav/credit-analyzer/internal/rates"
	"github.com/omriav/credit-analyzer/internal/services"
	"github.com/omriav/credit-analyzer/internal/session"
	"github.com/omriav/credit-analyzer/internal/writer"
)

// errAllFilesFailed is returned after the results were printed, so main
// only has to set the exit status.
var errAllFilesFailed = errors.New("every input file failed")

func runAnalyze(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	o := registerOptions(fs)
	top := fs.Int("top", aggregate.DefaultTopN, "number of merchants ranked individually")
	csvPath := fs.String("csv", "", "write the visible transactions to this CSV file")
	uploadName := fs.String("upload", "", "upload the CSV export as this blob in -container")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := o.validate(); err != nil {
		return err
	}
	if *uploadName != "" && o.container == "" {
		return errors.New("-upload requires -container")
	}

	s, results, err := analyze(ctx, o, fs.Args())
	if err != nil {
		return err
	}

	var summary *models.MerchantSummary
	if !s.Empty() {
		sum := s.Merchants(*top)
		summary = &sum
	}

	if o.format == "json" {
		err = writeJSON(out, analyzeReport{
			SessionID: s.ID.String(),
			Rates:     s.Rates,
			Files:     results,
			Hidden:    s.Hidden(),
			Summary:   summary,
		})
	} else {
		err = renderAnalyze(out, s, results, summary)
	}
	if err != nil {
		return err
	}

	if *csvPath != "" || *uploadName != "" {
		if err := export(ctx, o, s, *csvPath, *uploadName); err != nil {
			return err
		}
	}

	if allFailed(results) {
		return errAllFilesFailed
	}
	return nil
}

func runTrend(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("trend", flag.ContinueOnError)
	o := registerOptions(fs)
	merchant := fs.String("merchant", "", "merchant name, matched exactly")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := o.validate(); err != nil {
		return err
	}
	if *merchant == "" {
		return errors.New("-merchant is required")
	}

	s, results, err := analyze(ctx, o, fs.Args())
	if err != nil {
		return err
	}
	series := s.Monthly(*merchant)

	if o.format == "json" {
		err = writeJSON(out, series)
	} else {
		err = renderTrend(out, series)
	}
	if err != nil {
		return err
	}

	if allFailed(results) {
		return errAllFilesFailed
	}
	return nil
}

func runLayouts(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("layouts", flag.ContinueOnError)
	format := fs.String("format", "text", "output format: text or json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *format == "json" {
		return writeJSON(out, layoutsReport())
	}
	return renderLayouts(out)
}

func runRates(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("rates", flag.ContinueOnError)
	home := fs.String("home", rates.DefaultHome, "home currency code")
	url := fs.String("rates-url", rates.DefaultURL, "live rates endpoint, %s is replaced by the home currency")
	save := fs.Bool("save", false, "store live rates in the rates table")
	format := fs.String("format", "text", "output format: text or json")
	logLevel := fs.String("log-level", "warn", "log level: debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := setupLogging(*logLevel); err != nil {
		return err
	}

	table := rates.Load(ctx, rates.NewHTTPFetcher(*url), *home)

	if *save {
		if table.Source != rates.SourceLive {
			return errors.New("live rates unavailable, nothing saved")
		}
		svc, err := services.NewRateTableService(ctx)
		if err != nil {
			return err
		}
		if err := svc.SaveRates(ctx, table); err != nil {
			return err
		}
	}

	if *format == "json" {
		return writeJSON(out, table)
	}
	return renderRates(out, table)
}

// analyze runs every input through a new session and applies -hide.
func analyze(ctx context.Context, o *options, args []string) (*session.Session, []models.FileResult, error) {
	inputs, err := buildInputs(ctx, o, args)
	if err != nil {
		return nil, nil, err
	}

	s := session.New(loadRates(ctx, o))
	slog.Info("starting analysis", "session_id", s.ID, "files", len(inputs), "rates_source", s.Rates.Source)

	results := s.ProcessFiles(ctx, inputs)
	for _, m := range o.hide {
		s.Hide(m)
	}
	return s, results, nil
}

func export(ctx context.Context, o *options, s *session.Session, path, blobName string) error {
	w := &writer.CSVWriter{IncludeHeader: true, Rates: s.Rates}
	txs := s.Visible()

	if path != "" {
		if err := w.WriteToFile(path, txs); err != nil {
			return err
		}
		slog.Info("exported transactions", "path", path, "count", len(txs))
	}

	if blobName != "" {
		var buf bytes.Buffer
		if err := w.Write(&buf, txs); err != nil {
			return err
		}
		blobs, err := services.NewBlobService()
		if err != nil {
			return err
		}
		if err := blobs.UploadBytes(ctx, o.container, blobName, buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func allFailed(results []models.FileResult) bool {
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		if !r.Failed() {
			return false
		}
	}
	return true
}
