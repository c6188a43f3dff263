package sink

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"

	"github.com/okian/pdxcrime/internal/domain/model"
)

// WriteParquet writes rows to w using the schema derived from T's struct
// tags. A nil codec means Snappy.
func WriteParquet[T any](w io.Writer, rows []T, codec compress.Codec) error {
	if codec == nil {
		codec = &parquet.Snappy
	}
	pw := parquet.NewGenericWriter[T](w, parquet.Compression(codec))
	if _, err := pw.Write(rows); err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}

// ReadParquet reads every row of a Parquet file of size bytes.
func ReadParquet[T any](r io.ReaderAt, size int64) ([]T, error) {
	if size == 0 {
		return nil, fmt.Errorf("%w: zero-byte parquet file", model.ErrEmptySource)
	}
	rows, err := parquet.Read[T](r, size)
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return rows, nil
}

// ReadParquetFile reads a Parquet file from disk. A missing or empty file is
// model.ErrEmptySource.
func ReadParquetFile[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s not found", model.ErrEmptySource, path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	rows, err := ReadParquet[T](f, st.Size())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}
