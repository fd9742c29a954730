// Package container reads the construction document out of a packaged
// GeoGebra file (.ggb), which is a ZIP archive holding geogebra.xml.
//
// Only what is needed to reach that one entry is implemented: the end of
// central directory record, the central directory and the local file
// header. Entries must be stored or raw-deflated.
package container

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/kataras/tikz-extractor/pkg/drawing"

	"github.com/klauspost/compress/flate"
)

// EntryName is the archive entry holding the construction.
const EntryName = "geogebra.xml"

const (
	eocdSignature      = 0x06054b50
	centralSignature   = 0x02014b50
	localSignature     = 0x04034b50
	eocdSize           = 22
	centralHeaderSize  = 46
	localHeaderSize    = 30
	maxCommentLength   = 65535
	methodStored       = 0
	methodDeflate      = 8
)

// maxUncompressedLen caps the inflated size of an entry.
var maxUncompressedLen int64 = 64 << 20

// Entry describes one central directory record.
type Entry struct {
	Name             string
	Method           uint16
	CompressedSize   uint32
	UncompressedSize uint32
	LocalOffset      uint32
}

// Decode returns the text of the geogebra.xml entry of data.
func Decode(data []byte) (string, error) {
	entry, err := Find(data, EntryName)
	if err != nil {
		return "", err
	}
	raw, err := Read(data, entry)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Entries lists the central directory of data.
func Entries(data []byte) ([]Entry, error) {
	count, offset, err := directory(data)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, count)
	pos := int(offset)
	for i := 0; i < count; i++ {
		if !within(data, pos, centralHeaderSize) || le32(data, pos) != centralSignature {
			return nil, drawing.NewFormatError(fmt.Sprintf("corrupt central directory record %d", i))
		}
		nameLen := int(le16(data, pos+28))
		extraLen := int(le16(data, pos+30))
		commentLen := int(le16(data, pos+32))
		if !within(data, pos+centralHeaderSize, nameLen) {
			return nil, drawing.NewFormatError("central directory name out of bounds")
		}
		entries = append(entries, Entry{
			Name:             string(data[pos+centralHeaderSize : pos+centralHeaderSize+nameLen]),
			Method:           le16(data, pos+10),
			CompressedSize:   le32(data, pos+20),
			UncompressedSize: le32(data, pos+24),
			LocalOffset:      le32(data, pos+42),
		})
		pos += centralHeaderSize + nameLen + extraLen + commentLen
	}
	return entries, nil
}

// Find returns the central directory record named name.
func Find(data []byte, name string) (Entry, error) {
	entries, err := Entries(data)
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if e.Name == name {
			return e, nil
		}
	}
	return Entry{}, drawing.NewFormatError(fmt.Sprintf("archive has no %s entry", name))
}

// Read returns the uncompressed bytes of entry.
func Read(data []byte, entry Entry) ([]byte, error) {
	pos := int(entry.LocalOffset)
	if !within(data, pos, localHeaderSize) || le32(data, pos) != localSignature {
		return nil, drawing.NewFormatError("corrupt local file header for " + entry.Name)
	}
	nameLen := int(le16(data, pos+26))
	extraLen := int(le16(data, pos+28))
	start := pos + localHeaderSize + nameLen + extraLen
	if !within(data, start, int(entry.CompressedSize)) {
		return nil, drawing.NewFormatError("entry data out of bounds for " + entry.Name)
	}
	payload := data[start : start+int(entry.CompressedSize)]

	switch entry.Method {
	case methodStored:
		return payload, nil
	case methodDeflate:
		r := flate.NewReader(bytes.NewReader(payload))
		defer r.Close()
		out, err := io.ReadAll(io.LimitReader(r, maxUncompressedLen+1))
		if err != nil {
			return nil, fmt.Errorf("inflate %s: %w", entry.Name, err)
		}
		if int64(len(out)) > maxUncompressedLen {
			return nil, drawing.NewFormatError(fmt.Sprintf("%s inflates beyond %d bytes", entry.Name, maxUncompressedLen))
		}
		return out, nil
	default:
		return nil, drawing.NewFormatError(fmt.Sprintf("unsupported compression method %d", entry.Method))
	}
}

// directory locates the end of central directory record by scanning
// backwards over the largest possible archive comment.
func directory(data []byte) (count int, offset uint32, err error) {
	lowest := len(data) - eocdSize - maxCommentLength
	if lowest < 0 {
		lowest = 0
	}
	for pos := len(data) - eocdSize; pos >= lowest; pos-- {
		if le32(data, pos) == eocdSignature {
			return int(le16(data, pos+10)), le32(data, pos+16), nil
		}
	}
	return 0, 0, drawing.NewFormatError("no end of central directory record found")
}

func within(data []byte, pos, n int) bool {
	return pos >= 0 && n >= 0 && pos+n <= len(data)
}

func le16(data []byte, pos int) uint16 {
	return binary.LittleEndian.Uint16(data[pos:])
}

func le32(data []byte, pos int) uint32 {
	return binary.LittleEndian.Uint32(data[pos:])
}
