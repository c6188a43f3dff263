package sink

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go/compress"

	"github.com/okian/pdxcrime/pkg/logger"
	"github.com/okian/pdxcrime/pkg/metrics"
)

// Writer places output files in one directory and records each in a
// manifest.
type Writer struct {
	dir      string
	codec    compress.Codec
	manifest *Manifest
	log      logger.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithCodec sets the Parquet compression codec.
func WithCodec(c compress.Codec) Option {
	return func(w *Writer) {
		if c != nil {
			w.codec = c
		}
	}
}

// WithManifest records files into m instead of a fresh manifest.
func WithManifest(m *Manifest) Option {
	return func(w *Writer) {
		if m != nil {
			w.manifest = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.log = l
		}
	}
}

// NewWriter prepares dir for output. The parent of dir must already exist;
// dir itself is created when missing.
func NewWriter(dir string, opts ...Option) (*Writer, error) {
	dir = filepath.Clean(dir)
	parent := filepath.Dir(dir)
	if st, err := os.Stat(parent); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNoParent, parent)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	w := &Writer{dir: dir}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = logger.Named("sink")
	}
	if w.manifest == nil {
		w.manifest = NewManifest("", "")
	}
	return w, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// Manifest returns the manifest files are recorded in.
func (w *Writer) Manifest() *Manifest { return w.manifest }

// Close writes the manifest.
func (w *Writer) Close() error {
	return w.manifest.Write(w.dir)
}

// Table names one output file.
type Table struct {
	Name    string // file name inside the output directory
	Dataset string
	Year    int
	Header  []string // CSV only
}

// Write encodes rows in format into the named file and records it.
func Write[T Row](ctx context.Context, w *Writer, format Format, t Table, rows []T) (File, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatCSV:
		err = WriteCSV(&buf, t.Header, rows)
	case FormatParquet:
		err = WriteParquet(&buf, rows, w.codec)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", t.Name, err)
	}

	path := filepath.Join(w.dir, t.Name)
	sum := sha256.New()
	f, err := os.Create(path)
	if err != nil {
		return File{}, err
	}
	n, err := io.Copy(io.MultiWriter(f, sum), &buf)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return File{}, fmt.Errorf("write %s: %w", path, err)
	}

	out := File{
		Name:    t.Name,
		Dataset: t.Dataset,
		Year:    t.Year,
		Format:  format,
		Rows:    len(rows),
		Bytes:   n,
		SHA256:  hex.EncodeToString(sum.Sum(nil)),
	}
	w.manifest.Add(out)
	metrics.RecordFileWritten(string(format))
	w.log.Info(ctx, "wrote output file",
		logger.String("path", path),
		logger.Dataset(t.Dataset),
		logger.Int("rows", len(rows)))
	return out, nil
}
