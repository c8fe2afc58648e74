// Package columns holds the columnar table plumbing shared by C5, C6 and
// C7: a Parquet encoder and the per-minute/mean derivation helpers, so
// each of the three table builders writes through one path instead of
// three. There is no row-builder type: each table builder assembles its
// rows as a plain slice and hands it to WriteParquet.
//
// Grounded on the teacher's cmd/reducer/main.go in shape (accumulate into
// memory, export in one final pass) but generalized into a reusable
// generic function, the way the teacher's own internal/storage package is
// the one shared writer both cmd/collector and internal/collector.Spider
// call into rather than each rolling its own file I/O (see DESIGN.md).
//
// Parquet encoding itself is out-of-pack: no Go Parquet/Arrow library
// appears anywhere in the retrieved examples, so github.com/parquet-go/parquet-go
// is named rather than grounded, chosen as the closest Go analogue of
// original_source's Polars ParquetWriter.
package columns

import (
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/arnauet/riot-go-kraken/internal/riotapi"
)

// WriteParquet writes rows to path using struct-tag-driven schema
// inference, creating or truncating the file.
func WriteParquet[T any](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return &riotapi.IOError{Cause: err, Path: path}
	}
	defer f.Close()

	w := parquet.NewGenericWriter[T](f)
	if _, err := w.Write(rows); err != nil {
		return &riotapi.IOError{Cause: err, Path: path}
	}
	if err := w.Close(); err != nil {
		return &riotapi.IOError{Cause: err, Path: path}
	}
	return nil
}
