// Package formats provides parsers for Ragnarok Online file formats.
package formats

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/Faultbox/scenekit/pkg/encoding"
)

// nameLength is the size of the fixed, NUL-padded EUC-KR name fields.
const nameLength = 40

// binReader reads little-endian values and remembers the first error,
// so a parser can read a whole record and check once.
type binReader struct {
	r   *bytes.Reader
	err error
}

func newBinReader(data []byte) *binReader {
	return &binReader{r: bytes.NewReader(data)}
}

func (b *binReader) read(v any) {
	if b.err != nil {
		return
	}
	if err := binary.Read(b.r, binary.LittleEndian, v); err != nil {
		b.err = err
	}
}

func (b *binReader) int32() int32 {
	var v int32
	b.read(&v)
	return v
}

func (b *binReader) skip(n int64) {
	if b.err != nil {
		return
	}
	if int64(b.r.Len()) < n {
		b.err = io.ErrUnexpectedEOF
		return
	}
	b.r.Seek(n, io.SeekCurrent)
}

// name reads a fixed-size EUC-KR field.
func (b *binReader) name() string {
	buf := make([]byte, nameLength)
	if b.err != nil {
		return ""
	}
	if _, err := io.ReadFull(b.r, buf); err != nil {
		b.err = err
		return ""
	}
	return encoding.FixedStringToUTF8(buf)
}

// binWriter is the encoding counterpart of binReader.
type binWriter struct {
	buf bytes.Buffer
}

func (w *binWriter) write(v any) {
	// bytes.Buffer writes never fail.
	binary.Write(&w.buf, binary.LittleEndian, v)
}

func (w *binWriter) name(s string) {
	w.buf.Write(encoding.UTF8ToFixedString(s, nameLength))
}
