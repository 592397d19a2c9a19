// Package dataset loads activity fixtures for a profile: JSON exports,
// iCalendar files and clockr databases, plus the daily reflections that go
// with them.
package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/christopherklint97/timescape/internal/activity"
	"github.com/christopherklint97/timescape/internal/normalize"
)

// Kind names a source layout.
type Kind string

const (
	KindCanonical Kind = "canonical"
	KindJournal   Kind = "journal"
	KindICal      Kind = "ical"
	KindClockr    Kind = "clockr"
)

var Kinds = []Kind{KindCanonical, KindJournal, KindICal, KindClockr}

// ParseKind accepts a kind name. The empty string is returned as-is and means
// "detect from the path".
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return "", nil
	}
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", normalize.ErrUnsupportedFormat, s)
}

// DetectKind guesses the kind from a file extension, defaulting to canonical JSON.
func DetectKind(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ics", ".ical":
		return KindICal
	case ".db", ".sqlite", ".sqlite3":
		return KindClockr
	}
	return KindCanonical
}

// Source describes where one profile's data lives.
type Source struct {
	Path        string
	Kind        Kind
	Reflections string
}

// Dataset is a loaded, normalized profile.
type Dataset struct {
	Activities  []activity.Activity
	Reflections *activity.ReflectionBook
	Rejected    []normalize.Rejection
}

// Loader reads sources and normalizes them.
type Loader struct {
	normalizer *normalize.Normalizer
	loc        *time.Location
	logger     *slog.Logger
	client     *http.Client
}

func NewLoader(n *normalize.Normalizer, loc *time.Location, logger *slog.Logger) *Loader {
	if n == nil {
		n = normalize.New(nil, loc, logger)
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{normalizer: n, loc: loc, logger: logger, client: http.DefaultClient}
}

// Load reads and normalizes src. Records that fail normalization are
// reported in Dataset.Rejected; only unreadable sources are errors.
func (l *Loader) Load(ctx context.Context, src Source) (*Dataset, error) {
	kind := src.Kind
	if kind == "" {
		kind = DetectKind(src.Path)
	}

	batch, err := l.batch(ctx, kind, src.Path)
	if err != nil {
		return nil, err
	}
	res, err := l.normalizer.Normalize(batch)
	if err != nil {
		return nil, fmt.Errorf("normalizing %s: %w", src.Path, err)
	}

	ds := &Dataset{Activities: res.Activities, Rejected: res.Rejected}
	if src.Reflections != "" {
		if ds.Reflections, err = LoadReflections(src.Reflections); err != nil {
			return nil, err
		}
	} else {
		ds.Reflections, _ = activity.NewReflectionBook(nil)
	}

	l.logger.Info("loaded dataset",
		"path", src.Path,
		"kind", kind,
		"activities", len(ds.Activities),
		"rejected", len(ds.Rejected),
		"reflections", ds.Reflections.Len(),
	)
	return ds, nil
}

func (l *Loader) batch(ctx context.Context, kind Kind, path string) (normalize.Batch, error) {
	switch kind {
	case KindCanonical, KindJournal:
		data, err := l.read(ctx, path)
		if err != nil {
			return nil, err
		}
		return normalize.Decode(string(kind), data)
	case KindICal:
		r, err := l.open(ctx, path)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		records, err := ReadCalendar(r, l.loc)
		if err != nil {
			return nil, err
		}
		return normalize.CanonicalBatch{Records: records}, nil
	case KindClockr:
		records, err := ReadClockr(ctx, path)
		if err != nil {
			return nil, err
		}
		return normalize.CanonicalBatch{Records: records}, nil
	}
	return nil, fmt.Errorf("%w: %q", normalize.ErrUnsupportedFormat, kind)
}

func (l *Loader) read(ctx context.Context, path string) ([]byte, error) {
	r, err := l.open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// open returns a reader for a local path or an http(s) URL.
func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("opening dataset: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching dataset: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("dataset fetch returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
