// pkg/format/titxt.go

package format

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"AveBin/pkg/image"
)

// tiTxtBytesPerLine is the payload ceiling of one TI-TXT data line.
const tiTxtBytesPerLine = 16

// ReadTiTxt parses a TI-TXT stream into img. "@hex" lines set the address
// cursor, data lines append at it and a line holding fewer than 16 bytes
// closes the section, so more data needs a fresh address first. The
// stream must end with the "q" terminator.
func ReadTiTxt(img *image.Image, r io.Reader, overwrite bool) error {
	var (
		cursor     uint64
		haveCursor bool
		terminated bool
	)
	scanner := bufio.NewScanner(r)
	var lineNum int
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}
		if terminated {
			return errors.Wrapf(ErrTiTxtDataAfterTerminator, "line %d", lineNum)
		}
		switch {
		case line == "q":
			terminated = true
		case line[0] == '@':
			address, err := strconv.ParseUint(line[1:], 16, 64)
			if err != nil {
				return errors.Wrapf(ErrTiTxtBadHex, "line %d: section address %q", lineNum, line)
			}
			cursor = address * img.WordSizeBytes()
			haveCursor = true
		default:
			data, err := hex.DecodeString(strings.Join(strings.Fields(line), ""))
			if err != nil {
				return errors.Wrapf(ErrTiTxtBadHex, "line %d: %q", lineNum, line)
			}
			if len(data) > tiTxtBytesPerLine {
				return errors.Wrapf(ErrTiTxtBadLineLength, "line %d: %d bytes", lineNum, len(data))
			}
			if !haveCursor {
				return errors.Wrapf(ErrTiTxtMissingAddress, "line %d", lineNum)
			}
			if err := img.Store().Add(image.NewSegment(cursor, data), overwrite); err != nil {
				return errors.Wrapf(err, "line %d", lineNum)
			}
			cursor += uint64(len(data))
			if len(data) < tiTxtBytesPerLine {
				// A short line ends the section.
				haveCursor = false
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if !terminated {
		return ErrTiTxtMissingTerminator
	}
	return nil
}

// WriteTiTxt serializes img as TI-TXT, one "@address" section per stored
// segment and 16 data bytes per line.
func WriteTiTxt(img *image.Image, w io.Writer) error {
	for _, s := range img.Store().Segments() {
		if _, err := fmt.Fprintf(w, "@%X\n", s.Minimum()/img.WordSizeBytes()); err != nil {
			return err
		}
		data := s.Data()
		for len(data) > 0 {
			n := min(len(data), tiTxtBytesPerLine)
			line := make([]string, n)
			for i, b := range data[:n] {
				line[i] = fmt.Sprintf("%02X", b)
			}
			if _, err := fmt.Fprintln(w, strings.Join(line, " ")); err != nil {
				return err
			}
			data = data[n:]
		}
	}
	_, err := fmt.Fprintln(w, "q")
	return err
}
