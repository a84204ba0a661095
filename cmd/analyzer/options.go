package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/omriav/credit-analyzer/internal/models"
	"github.com/omriav/credit-analyzer/internal/rates"
	"github.com/omriav/credit-analyzer/internal/services"
	"github.com/omriav/credit-analyzer/internal/session"
	"github.com/omriav/credit-analyzer/internal/sheet"
)

// stringList collects a repeatable flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// options are shared by the commands that analyze files.
type options struct {
	home      string
	ratesMode string
	ratesURL  string
	layout    string
	container string
	prefix    string
	format    string
	logLevel  string
	hide      stringList
}

func registerOptions(fs *flag.FlagSet) *options {
	o := &options{}
	fs.StringVar(&o.home, "home", rates.DefaultHome, "home currency code")
	fs.StringVar(&o.ratesMode, "rates", "live", "rate source: live, table or fallback")
	fs.StringVar(&o.ratesURL, "rates-url", rates.DefaultURL, "live rates endpoint, %s is replaced by the home currency")
	fs.StringVar(&o.layout, "layout", "", "force a layout id instead of detecting one")
	fs.StringVar(&o.container, "container", "", "read files from this blob container instead of the local disk")
	fs.StringVar(&o.prefix, "prefix", "", "blob name prefix used when no files are given with -container")
	fs.StringVar(&o.format, "format", "text", "output format: text or json")
	fs.StringVar(&o.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	fs.Var(&o.hide, "hide", "hide a merchant from the results (repeatable)")
	return o
}

func (o *options) validate() error {
	switch o.ratesMode {
	case "live", "table", "fallback":
	default:
		return fmt.Errorf("unknown rate source %q", o.ratesMode)
	}
	switch o.format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown output format %q", o.format)
	}
	return setupLogging(o.logLevel)
}

// loadRates never fails. Any problem reaching a rate source degrades to
// the fallback table.
func loadRates(ctx context.Context, o *options) *rates.Table {
	switch o.ratesMode {
	case "fallback":
		return rates.Fallback(o.home)
	case "table":
		svc, err := services.NewRateTableService(ctx)
		if err != nil {
			slog.Warn("rate table unavailable, using fallback rates", "error", err)
			return rates.Fallback(o.home)
		}
		return rates.Load(ctx, svc, o.home)
	default:
		return rates.Load(ctx, rates.NewHTTPFetcher(o.ratesURL), o.home)
	}
}

// buildInputs resolves command arguments into session inputs. Local
// directories are expanded to the supported files they contain.
func buildInputs(ctx context.Context, o *options, args []string) ([]session.Input, error) {
	var inputs []session.Input
	if o.container != "" {
		blobs, err := services.NewBlobService()
		if err != nil {
			return nil, err
		}
		names := args
		if len(names) == 0 {
			listed, err := blobs.ListBlobs(ctx, o.container, o.prefix)
			if err != nil {
				return nil, err
			}
			names = supportedOnly(listed)
		}
		for _, name := range names {
			inputs = append(inputs, blobInput(blobs, o.container, name))
		}
	} else {
		paths, err := expandPaths(args)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			inputs = append(inputs, fileInput(p))
		}
	}

	if len(inputs) == 0 {
		return nil, errors.New("no input files")
	}
	for i := range inputs {
		inputs[i].Layout = models.LayoutID(o.layout)
	}
	return inputs, nil
}

func fileInput(path string) session.Input {
	return session.Input{
		Name: path,
		Load: func(context.Context) ([]models.Row, error) {
			return sheet.ReadFile(path)
		},
	}
}

func blobInput(blobs *services.BlobService, container, name string) session.Input {
	return session.Input{
		Name: container + "/" + name,
		Load: func(ctx context.Context) ([]models.Row, error) {
			data, err := blobs.DownloadBytes(ctx, container, name)
			if err != nil {
				return nil, err
			}
			return sheet.ReadBytes(name, data)
		},
	}
}

func expandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			// Missing files surface as per-file errors.
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", arg, err)
		}
		for _, e := range entries {
			if !e.IsDir() && sheet.Supported(e.Name()) {
				paths = append(paths, filepath.Join(arg, e.Name()))
			}
		}
	}
	return paths, nil
}

func supportedOnly(names []string) []string {
	var out []string
	for _, n := range names {
		if sheet.Supported(n) {
			out = append(out, n)
		}
	}
	return out
}
