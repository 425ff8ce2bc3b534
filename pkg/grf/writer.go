package grf

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Faultbox/scenekit/pkg/encoding"
)

// ErrWriterClosed is returned when adding to a closed Writer.
var ErrWriterClosed = errors.New("grf writer closed")

// Writer creates a GRF 0x200 archive. Entries are zlib-compressed and
// padded to 8 bytes; the file table is written on Close.
type Writer struct {
	file    *os.File
	entries []Entry
	offset  uint32 // relative to the end of the header
	closed  bool
}

// Create creates or truncates path and writes a placeholder header.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating archive: %w", err)
	}
	if _, err := f.Write(make([]byte, headerSize)); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing header: %w", err)
	}
	return &Writer{file: f}, nil
}

// Add stores data under name. Names use '/' or '\' and are stored with
// backslashes in EUC-KR, as the client expects.
func (w *Writer) Add(name string, data []byte) error {
	if w.closed {
		return ErrWriterClosed
	}

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(data); err != nil {
		return fmt.Errorf("compressing %s: %w", name, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compressing %s: %w", name, err)
	}

	size := uint32(compressed.Len())
	aligned := size
	if aligned%8 != 0 {
		aligned += 8 - aligned%8
	}

	if _, err := w.file.Write(compressed.Bytes()); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if _, err := w.file.Write(make([]byte, aligned-size)); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	w.entries = append(w.entries, Entry{
		Name:             name,
		CompressedSize:   size,
		AlignedSize:      aligned,
		UncompressedSize: uint32(len(data)),
		Flags:            flagFile,
		Offset:           w.offset,
	})
	w.offset += aligned
	return nil
}

// AddFile stores the contents of a file from disk under name.
func (w *Writer) AddFile(name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return w.Add(name, data)
}

// Len returns the number of entries added so far.
func (w *Writer) Len() int {
	return len(w.entries)
}

// Close writes the file table and header and closes the file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	err := w.finish()
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	return err
}

func (w *Writer) finish() error {
	var table bytes.Buffer
	for _, e := range w.entries {
		name := strings.ReplaceAll(e.Name, "/", "\\")
		table.Write(encoding.UTF8ToEUCKR(name))
		table.WriteByte(0)
		binary.Write(&table, binary.LittleEndian, e.CompressedSize)
		binary.Write(&table, binary.LittleEndian, e.AlignedSize)
		binary.Write(&table, binary.LittleEndian, e.UncompressedSize)
		table.WriteByte(e.Flags)
		binary.Write(&table, binary.LittleEndian, e.Offset)
	}

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(table.Bytes()); err != nil {
		return fmt.Errorf("compressing file table: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compressing file table: %w", err)
	}

	binary.Write(w.file, binary.LittleEndian, uint32(compressed.Len()))
	binary.Write(w.file, binary.LittleEndian, uint32(table.Len()))
	if _, err := w.file.Write(compressed.Bytes()); err != nil {
		return fmt.Errorf("writing file table: %w", err)
	}

	// FileCount is stored as count + seed + 7 with a zero seed.
	header := Header{
		TableOffset: w.offset,
		FileCount:   uint32(len(w.entries)) + 7,
		Version:     version200,
	}
	copy(header.Magic[:], grfMagic)
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	return binary.Write(w.file, binary.LittleEndian, &header)
}
