// pkg/format/dump.go

package format

import (
	"fmt"
	"io"
	"strings"

	"AveBin/pkg/image"
)

const hexdumpRowSize = 16

type hexdumpRow struct {
	address uint64
	bytes   [hexdumpRowSize]byte
	present [hexdumpRowSize]bool
}

// WriteHexdump renders img as a classic 16-bytes-per-row hexdump with an
// ASCII gutter. Rows holding no data are omitted and absent bytes within
// a row are left blank.
func WriteHexdump(img *image.Image, w io.Writer) error {
	var rows []*hexdumpRow
	for _, s := range img.Store().Segments() {
		for rowAddress := s.Minimum() &^ (hexdumpRowSize - 1); rowAddress < s.Maximum(); rowAddress += hexdumpRowSize {
			var row *hexdumpRow
			if n := len(rows); n > 0 && rows[n-1].address == rowAddress {
				row = rows[n-1]
			} else {
				row = &hexdumpRow{address: rowAddress}
				rows = append(rows, row)
			}
			lo := max(rowAddress, s.Minimum())
			hi := min(rowAddress+hexdumpRowSize, s.Maximum())
			copy(row.bytes[lo-rowAddress:], s.Data()[lo-s.Minimum():hi-s.Minimum()])
			for i := lo - rowAddress; i < hi-rowAddress; i++ {
				row.present[i] = true
			}
		}
	}
	for _, row := range rows {
		var cells, gutter strings.Builder
		for i := 0; i < hexdumpRowSize; i++ {
			if i == hexdumpRowSize/2 {
				cells.WriteByte(' ')
			}
			if !row.present[i] {
				cells.WriteString("   ")
				gutter.WriteByte(' ')
				continue
			}
			fmt.Fprintf(&cells, "%02x ", row.bytes[i])
			if b := row.bytes[i]; b >= 0x20 && b < 0x7f {
				gutter.WriteByte(b)
			} else {
				gutter.WriteByte('.')
			}
		}
		address := row.address / img.WordSizeBytes()
		if _, err := fmt.Fprintf(w, "%08x  %s|%s|\n", address, cells.String(), gutter.String()); err != nil {
			return err
		}
	}
	return nil
}

// WriteArray renders img as a comma separated list of hex words, gaps
// filled with padding (0xFF words when nil), for pasting into source code.
func WriteArray(img *image.Image, w io.Writer, padding []byte) error {
	data, err := img.AsBinary(padding)
	if err != nil {
		return err
	}
	wsb := int(img.WordSizeBytes())
	words := make([]string, 0, (len(data)+wsb-1)/wsb)
	for off := 0; off < len(data); off += wsb {
		var word uint64
		for _, b := range data[off:min(off+wsb, len(data))] {
			word = word<<8 | uint64(b)
		}
		words = append(words, fmt.Sprintf("0x%0*x", 2*wsb, word))
	}
	_, err = fmt.Fprintln(w, strings.Join(words, ", "))
	return err
}
