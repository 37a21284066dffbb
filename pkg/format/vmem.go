// pkg/format/vmem.go

package format

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"AveBin/pkg/image"
)

// stripVMemComments removes // and /* ... */ comments, protecting string
// and character literals. Removed text is replaced with a space so token
// boundaries survive.
func stripVMemComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	const (
		plain = iota
		lineComment
		blockComment
		stringLit
		charLit
	)
	state := plain
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch state {
		case plain:
			switch {
			case c == '/' && i+1 < len(s) && s[i+1] == '/':
				state = lineComment
				i++
			case c == '/' && i+1 < len(s) && s[i+1] == '*':
				state = blockComment
				i++
			case c == '"':
				state = stringLit
				b.WriteByte(c)
			case c == '\'':
				state = charLit
				b.WriteByte(c)
			default:
				b.WriteByte(c)
			}
		case lineComment:
			if c == '\n' {
				state = plain
				b.WriteByte(c)
			}
		case blockComment:
			if c == '*' && i+1 < len(s) && s[i+1] == '/' {
				state = plain
				b.WriteByte(' ')
				i++
			}
		case stringLit:
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				b.WriteByte(s[i+1])
				i++
			} else if c == '"' {
				state = plain
			}
		case charLit:
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				b.WriteByte(s[i+1])
				i++
			} else if c == '\'' {
				state = plain
			}
		}
	}
	return b.String()
}

// ReadVerilogVMem parses a Verilog VMEM token stream into img. "@address"
// tokens set a word cursor and every hex word lands at cursor times the
// detected word byte width. All words must share one width.
func ReadVerilogVMem(img *image.Image, r io.Reader, overwrite bool) error {
	text, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	var (
		cursor uint64
		width  uint64
	)
	for _, token := range strings.Fields(stripVMemComments(string(text))) {
		if token[0] == '@' {
			address, err := strconv.ParseUint(token[1:], 16, 64)
			if err != nil {
				return errors.Wrapf(ErrVMemBadToken, "address %q", token)
			}
			cursor = address
			continue
		}
		word, err := hex.DecodeString(token)
		if err != nil || len(token)%2 != 0 {
			return errors.Wrapf(ErrVMemBadToken, "word %q", token)
		}
		if width == 0 {
			width = uint64(len(word))
		} else if uint64(len(word)) != width {
			return errors.Wrapf(ErrVMemInconsistentWidth, "word %q, expected %d bytes", token, width)
		}
		if err := img.Store().Add(image.NewSegment(cursor*width, word), overwrite); err != nil {
			return err
		}
		cursor++
	}
	return nil
}

// WriteVerilogVMem serializes img as Verilog VMEM with dataBytes payload
// bytes per line. Emitted words are one image word wide.
func WriteVerilogVMem(img *image.Image, w io.Writer, dataBytes int) error {
	wsb := img.WordSizeBytes()
	if uint64(dataBytes)%wsb != 0 {
		return &image.RangeError{
			Msg: fmt.Sprintf("line size %d is not a multiple of the %d-byte word size", dataBytes, wsb),
		}
	}
	chunks, err := img.Chunks(uint64(dataBytes), wsb)
	if err != nil {
		return err
	}
	for address, data := range chunks {
		words := make([]string, 0, (uint64(len(data))+wsb-1)/wsb)
		for len(data) > 0 {
			n := min(uint64(len(data)), wsb)
			words = append(words, strings.ToUpper(hex.EncodeToString(data[:n])))
			data = data[n:]
		}
		if _, err := fmt.Fprintf(w, "@%X %s\n", address/wsb, strings.Join(words, " ")); err != nil {
			return err
		}
	}
	return nil
}
