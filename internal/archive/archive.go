// Package archive packages rendered cards into a single zip stream.
package archive

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"github.com/alnah/go-cardgen/internal/fileutil"
)

// EntryExt is the extension of every card entry.
const EntryExt = ".pdf"

// Sentinel errors for archive operations.
var (
	ErrWrite         = errors.New("archive write failed")
	ErrInvalidName   = errors.New("invalid entry name")
	ErrDuplicateName = errors.New("duplicate entry name")
	ErrClosed        = errors.New("archive already closed")
)

// EntryName returns the entry name for the 1-based output index,
// zero-padded to three digits: 1 -> card_001.pdf, 1000 -> card_1000.pdf.
func EntryName(index int) string {
	return fmt.Sprintf("card_%03d%s", index, EntryExt)
}

// Entry is one file of an in-memory batch.
type Entry struct {
	Name    string
	Content []byte
}

// Writer streams top-level entries into a zip archive. Each entry is
// deflated at best compression and written through to the sink as it is
// added, so callers need not keep rendered content around.
type Writer struct {
	zw       *zip.Writer
	modified time.Time
	names    map[string]struct{}
	order    []string
	closed   bool
}

// NewWriter starts an archive on w. modified is stamped on every entry;
// pass a fixed time for reproducible archives.
func NewWriter(w io.Writer, modified time.Time) *Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})
	return &Writer{
		zw:       zw,
		modified: modified,
		names:    make(map[string]struct{}),
	}
}

// Add writes one entry. Names must be bare file names, unique within the archive.
func (a *Writer) Add(name string, content []byte) error {
	if a.closed {
		return ErrClosed
	}
	if err := fileutil.ValidateBaseName(name); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	if _, dup := a.names[name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	fw, err := a.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: a.modified,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if _, err := fw.Write(content); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	a.names[name] = struct{}{}
	a.order = append(a.order, name)
	return nil
}

// Names returns the entry names in the order they were added.
func (a *Writer) Names() []string {
	return append([]string(nil), a.order...)
}

// Close writes the central directory. With no entries the result is a
// valid empty archive. Close is idempotent.
func (a *Writer) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	if err := a.zw.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// Pack writes entries to w as a complete archive.
func Pack(w io.Writer, entries []Entry, modified time.Time) error {
	a := NewWriter(w, modified)
	for _, e := range entries {
		if err := a.Add(e.Name, e.Content); err != nil {
			return err
		}
	}
	return a.Close()
}
