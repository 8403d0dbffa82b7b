// Package countries loads the static country list shown in organization and
// request forms.
package countries

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// nameColumn is the CSV header holding the country name.
const nameColumn = "name"

// ObjectReader opens objects from a bucket (implemented by *storage.S3).
type ObjectReader interface {
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Source is one place a countries file can live.
type Source func(ctx context.Context) (io.ReadCloser, error)

// FileSource reads the CSV from disk.
func FileSource(path string) Source {
	return func(context.Context) (io.ReadCloser, error) {
		return os.Open(path)
	}
}

// S3Source reads the CSV from object storage.
func S3Source(r ObjectReader, bucket, key string) Source {
	return func(ctx context.Context) (io.ReadCloser, error) {
		return r.Open(ctx, bucket, key)
	}
}

// Loader reads and sorts the country list on every call; the file is small and
// may be replaced while the server runs.
type Loader struct {
	src    Source
	tag    language.Tag
	logger *zap.Logger
}

// NewLoader creates a Loader sorting names with French collation.
func NewLoader(src Source, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{src: src, tag: language.French, logger: logger}
}

// Countries returns the country names sorted for display.
func (l *Loader) Countries(ctx context.Context) ([]string, error) {
	rc, err := l.src(ctx)
	if err != nil {
		return nil, fmt.Errorf("open countries: %w", err)
	}
	defer rc.Close()

	names, err := Parse(rc)
	if err != nil {
		return nil, err
	}
	collate.New(l.tag, collate.Loose).SortStrings(names)
	return names, nil
}

// Safe is Countries for page reads: a missing or unreadable file yields an
// empty list and a log line instead of failing the whole page.
func (l *Loader) Safe(ctx context.Context) []string {
	names, err := l.Countries(ctx)
	if err != nil {
		l.logger.Warn("countries unavailable", zap.Error(err))
		return []string{}
	}
	return names
}

// Parse reads the name column of a countries CSV. Blank names are skipped.
func Parse(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read countries header: %w", err)
	}
	col := -1
	for i, h := range header {
		if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) == nameColumn {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("countries file has no %q column", nameColumn)
	}

	names := []string{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read countries row: %w", err)
		}
		if col >= len(rec) {
			continue
		}
		if name := strings.TrimSpace(rec[col]); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
