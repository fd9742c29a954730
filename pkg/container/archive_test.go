package container

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"strings"
	"testing"

	"github.com/kataras/tikz-extractor/pkg/drawing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const construction = `<geogebra format="5.0"><construction></construction></geogebra>`

// minimalArchive lays out a single-entry archive byte by byte.
func minimalArchive(name string, method uint16, payload []byte, comment string) []byte {
	le := binary.LittleEndian
	crc := crc32.ChecksumIEEE(payload)

	var buf []byte
	buf = le.AppendUint32(buf, localSignature)
	buf = le.AppendUint16(buf, 20)     // version needed
	buf = le.AppendUint16(buf, 0)      // flags
	buf = le.AppendUint16(buf, method) // method
	buf = le.AppendUint32(buf, 0)      // time, date
	buf = le.AppendUint32(buf, crc)
	buf = le.AppendUint32(buf, uint32(len(payload)))
	buf = le.AppendUint32(buf, uint32(len(payload)))
	buf = le.AppendUint16(buf, uint16(len(name)))
	buf = le.AppendUint16(buf, 0)
	buf = append(buf, name...)
	buf = append(buf, payload...)

	cdOffset := len(buf)
	buf = le.AppendUint32(buf, centralSignature)
	buf = le.AppendUint16(buf, 20)
	buf = le.AppendUint16(buf, 20)
	buf = le.AppendUint16(buf, 0)
	buf = le.AppendUint16(buf, method)
	buf = le.AppendUint32(buf, 0)
	buf = le.AppendUint32(buf, crc)
	buf = le.AppendUint32(buf, uint32(len(payload)))
	buf = le.AppendUint32(buf, uint32(len(payload)))
	buf = le.AppendUint16(buf, uint16(len(name)))
	buf = le.AppendUint16(buf, 0) // extra
	buf = le.AppendUint16(buf, 0) // comment
	buf = le.AppendUint16(buf, 0) // disk
	buf = le.AppendUint16(buf, 0) // internal attributes
	buf = le.AppendUint32(buf, 0) // external attributes
	buf = le.AppendUint32(buf, 0) // local header offset
	buf = append(buf, name...)
	cdSize := len(buf) - cdOffset

	buf = le.AppendUint32(buf, eocdSignature)
	buf = le.AppendUint16(buf, 0)
	buf = le.AppendUint16(buf, 0)
	buf = le.AppendUint16(buf, 1)
	buf = le.AppendUint16(buf, 1)
	buf = le.AppendUint32(buf, uint32(cdSize))
	buf = le.AppendUint32(buf, uint32(cdOffset))
	buf = le.AppendUint16(buf, uint16(len(comment)))
	return append(buf, comment...)
}

func requireFormatError(t *testing.T, err error) *drawing.FormatError {
	t.Helper()
	var fe *drawing.FormatError
	require.ErrorAs(t, err, &fe)
	return fe
}

func TestDecodeStored(t *testing.T) {
	got, err := Decode(minimalArchive(EntryName, methodStored, []byte(construction), ""))
	require.NoError(t, err)
	assert.Equal(t, construction, got)
}

func TestDecodeWithComment(t *testing.T) {
	comment := strings.Repeat("c", 1000)
	got, err := Decode(minimalArchive(EntryName, methodStored, []byte(construction), comment))
	require.NoError(t, err)
	assert.Equal(t, construction, got)
}

func TestDecodeDeflated(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("geogebra_thumbnail.png")
	require.NoError(t, err)
	_, err = f.Write([]byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)

	f, err = w.CreateHeader(&zip.FileHeader{Name: EntryName, Method: zip.Deflate})
	require.NoError(t, err)
	_, err = f.Write([]byte(construction))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	got, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, construction, got)

	entries, err := Entries(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, EntryName, entries[1].Name)
	assert.Equal(t, uint16(methodDeflate), entries[1].Method)
}

func deflatedArchive(t *testing.T, payload string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.CreateHeader(&zip.FileHeader{Name: EntryName, Method: zip.Deflate})
	require.NoError(t, err)
	_, err = f.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDecodeInflateLimit(t *testing.T) {
	defer func(limit int64) { maxUncompressedLen = limit }(maxUncompressedLen)
	data := deflatedArchive(t, construction)

	maxUncompressedLen = int64(len(construction))
	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, construction, got)

	maxUncompressedLen = int64(len(construction)) - 1
	_, err = Decode(data)
	fe := requireFormatError(t, err)
	assert.Contains(t, fe.Msg, "inflates beyond")
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		msg  string
	}{
		{
			name: "unsupported method",
			data: minimalArchive(EntryName, 12, []byte("BZh9"), ""),
			msg:  "unsupported compression method 12",
		},
		{
			name: "missing entry",
			data: minimalArchive("other.xml", methodStored, []byte(construction), ""),
			msg:  "archive has no geogebra.xml entry",
		},
		{
			name: "not an archive",
			data: []byte(`\begin{tikzpicture}\end{tikzpicture}`),
			msg:  "no end of central directory record found",
		},
		{
			name: "empty",
			data: nil,
			msg:  "no end of central directory record found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			assert.Equal(t, tt.msg, requireFormatError(t, err).Msg)
		})
	}
}

func TestDecodeTruncated(t *testing.T) {
	data := minimalArchive(EntryName, methodStored, []byte(construction), "")
	// keep the end record but point the directory past the end
	binary.LittleEndian.PutUint32(data[len(data)-6:], uint32(len(data)+100))
	_, err := Decode(data)
	requireFormatError(t, err)
}
