// Package repository loads the bundled yearly source files.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"

	"github.com/okian/pdxcrime/internal/domain/model"
	"github.com/okian/pdxcrime/pkg/logger"
	"github.com/okian/pdxcrime/pkg/metrics"
)

//go:embed assets
var assets embed.FS

// Store returns the raw bytes of one source file.
type Store interface {
	// Fetch returns the file for kind and year. The year is ignored for
	// datasets that are not yearly.
	Fetch(ctx context.Context, kind model.Kind, year int) ([]byte, error)
}

// FSStore is a Store over a file tree laid out as
// crime/{year}.csv, real_estate/{year}.csv and neighborhoods/Neighborhoods.csv.
type FSStore struct {
	fsys fs.FS
	log  logger.Logger
}

// NewEmbeddedStore returns a store over the files compiled into the binary.
func NewEmbeddedStore(opts ...Option) *FSStore {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		// assets is a literal directory in this package
		panic(err)
	}
	return NewFSStore(sub, opts...)
}

// NewDirStore returns a store rooted at dir on disk.
func NewDirStore(dir string, opts ...Option) *FSStore {
	return NewFSStore(os.DirFS(dir), opts...)
}

// NewFSStore returns a store over fsys.
func NewFSStore(fsys fs.FS, opts ...Option) *FSStore {
	s := &FSStore{fsys: fsys}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("repository")
	}
	return s
}

// Path returns the location of a source file inside the store.
func Path(kind model.Kind, year int) (string, error) {
	switch kind {
	case model.KindCrime:
		return path.Join("crime", strconv.Itoa(year)+".csv"), nil
	case model.KindRealEstate:
		return path.Join("real_estate", strconv.Itoa(year)+".csv"), nil
	case model.KindNeighborhoods:
		return path.Join("neighborhoods", "Neighborhoods.csv"), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDataset, kind)
	}
}

// Fetch implements Store.
func (s *FSStore) Fetch(ctx context.Context, kind model.Kind, year int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if kind.Yearly() {
		if err := model.CheckYear(year); err != nil {
			return nil, err
		}
	}
	p, err := Path(kind, year)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.fsys, p)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s not found", model.ErrEmptySource, p)
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", p, err)
	case len(data) == 0:
		return nil, fmt.Errorf("%w: %s is empty", model.ErrEmptySource, p)
	}
	s.log.Debug(ctx, "fetched source file",
		logger.Dataset(string(kind)), logger.String("path", p), logger.Int("bytes", len(data)))
	metrics.RecordBytesFetched(string(kind), len(data))
	return data, nil
}
