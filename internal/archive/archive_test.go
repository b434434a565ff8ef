package archive

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zip"
)

var fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func readArchive(t *testing.T, data []byte) map[string][]byte {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader: %v", err)
	}

	out := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		out[f.Name] = content
	}
	return out
}

func entryNames(t *testing.T, data []byte) []string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader: %v", err)
	}
	names := make([]string, len(zr.File))
	for i, f := range zr.File {
		names[i] = f.Name
	}
	return names
}

// ---------------------------------------------------------------------------
// TestEntryName - Output naming
// ---------------------------------------------------------------------------

func TestEntryName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		index int
		want  string
	}{
		{1, "card_001.pdf"},
		{12, "card_012.pdf"},
		{999, "card_999.pdf"},
		{1000, "card_1000.pdf"},
	}

	for _, tt := range tests {
		if got := EntryName(tt.index); got != tt.want {
			t.Errorf("EntryName(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestWriter - Streaming archive
// ---------------------------------------------------------------------------

func TestWriter_RoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf, fixedTime)
	for i, body := range []string{"%PDF-one", "%PDF-two", "%PDF-three"} {
		if err := w.Add(EntryName(i+1), []byte(body)); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	wantNames := []string{"card_001.pdf", "card_002.pdf", "card_003.pdf"}
	if diff := cmp.Diff(wantNames, entryNames(t, buf.Bytes())); diff != "" {
		t.Errorf("entry order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantNames, w.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	files := readArchive(t, buf.Bytes())
	if string(files["card_002.pdf"]) != "%PDF-two" {
		t.Errorf("card_002.pdf = %q, want %q", files["card_002.pdf"], "%PDF-two")
	}
}

func TestWriter_EntriesAreDeflated(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	content := bytes.Repeat([]byte("card "), 4096)
	if err := Pack(&buf, []Entry{{Name: "card_001.pdf", Content: content}}, fixedTime); err != nil {
		t.Fatalf("Pack() error = %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("zip.NewReader: %v", err)
	}
	f := zr.File[0]
	if f.Method != zip.Deflate {
		t.Errorf("Method = %d, want Deflate", f.Method)
	}
	if f.CompressedSize64 >= f.UncompressedSize64 {
		t.Errorf("compressed %d >= uncompressed %d", f.CompressedSize64, f.UncompressedSize64)
	}
	if !f.Modified.Equal(fixedTime) {
		t.Errorf("Modified = %v, want %v", f.Modified, fixedTime)
	}
}

func TestWriter_EmptyArchive(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Pack(&buf, nil, fixedTime); err != nil {
		t.Fatalf("Pack() error = %v", err)
	}
	if names := entryNames(t, buf.Bytes()); len(names) != 0 {
		t.Errorf("entries = %v, want none", names)
	}
}

func TestWriter_Deterministic(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Name: EntryName(1), Content: []byte("a")},
		{Name: EntryName(2), Content: []byte("b")},
	}

	var first, second bytes.Buffer
	if err := Pack(&first, entries, fixedTime); err != nil {
		t.Fatalf("Pack() error = %v", err)
	}
	if err := Pack(&second, entries, fixedTime); err != nil {
		t.Fatalf("Pack() error = %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("identical input produced different archives")
	}
}

func TestWriter_RejectsBadNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []string
		wantErr error
	}{
		{name: "nested path", entries: []string{"dir/card_001.pdf"}, wantErr: ErrInvalidName},
		{name: "empty name", entries: []string{""}, wantErr: ErrInvalidName},
		{name: "duplicate", entries: []string{"card_001.pdf", "card_001.pdf"}, wantErr: ErrDuplicateName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := NewWriter(io.Discard, fixedTime)
			var err error
			for _, n := range tt.entries {
				if err = w.Add(n, []byte("x")); err != nil {
					break
				}
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Add() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestWriter_AddAfterClose(t *testing.T) {
	t.Parallel()

	w := NewWriter(io.Discard, fixedTime)
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}
	if err := w.Add("card_001.pdf", nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Add() after Close error = %v, want ErrClosed", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriter_SinkFailure(t *testing.T) {
	t.Parallel()

	err := Pack(failingWriter{}, []Entry{{Name: "card_001.pdf", Content: []byte("x")}}, fixedTime)
	if !errors.Is(err, ErrWrite) {
		t.Errorf("Pack() error = %v, want ErrWrite", err)
	}
}
