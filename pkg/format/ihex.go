// pkg/format/ihex.go

package format

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"AveBin/pkg/image"
	"AveBin/pkg/record"
)

// ReadIHex parses Intel HEX records from r into img. The extended segment
// and extended linear address registers are session state: a data record's
// address is the record address plus both register contributions.
func ReadIHex(img *image.Image, r io.Reader, overwrite bool) error {
	var (
		extendedSegmentAddress uint64
		extendedLinearAddress  uint64
	)
	scanner := bufio.NewScanner(r)
	var lineNum int
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		typ, address, data, err := record.UnpackIHex(line)
		if err != nil {
			return errors.Wrapf(err, "line %d", lineNum)
		}
		switch typ {
		case record.IHexTypeData:
			full := uint64(address) + extendedSegmentAddress + extendedLinearAddress
			if err := img.AddBinary(data, full, overwrite); err != nil {
				return errors.Wrapf(err, "line %d", lineNum)
			}
		case record.IHexTypeEndOfFile:
			return nil
		case record.IHexTypeExtendedSegmentAddress:
			if len(data) != 2 {
				return errors.Wrapf(&record.ParseError{Record: line, Reason: "extended segment address record must carry 2 bytes"}, "line %d", lineNum)
			}
			extendedSegmentAddress = uint64(binary.BigEndian.Uint16(data)) * 16
		case record.IHexTypeExtendedLinearAddress:
			if len(data) != 2 {
				return errors.Wrapf(&record.ParseError{Record: line, Reason: "extended linear address record must carry 2 bytes"}, "line %d", lineNum)
			}
			extendedLinearAddress = uint64(binary.BigEndian.Uint16(data)) * 65536
		case record.IHexTypeStartSegmentAddress, record.IHexTypeStartLinearAddress:
			if len(data) != 4 {
				return errors.Wrapf(&record.ParseError{Record: line, Reason: "start address record must carry 4 bytes"}, "line %d", lineNum)
			}
			img.SetExecutionStartAddress(uint64(binary.BigEndian.Uint32(data)))
		default:
			return errors.Wrapf(&record.ParseError{
				Record: line,
				Reason: fmt.Sprintf("unknown record type %02x", typ),
			}, "line %d", lineNum)
		}
	}
	return scanner.Err()
}

// ihexWriter tracks the last emitted extended-address register value.
// Segments are processed in ascending order, so the register only ever
// advances. Addresses here are word addresses, as they go on the wire.
type ihexWriter struct {
	w             io.Writer
	addressBits   int
	wordSizeBytes uint64
	limit         uint64
	base          uint64
}

func newIHexWriter(w io.Writer, addressBits int, wordSizeBytes uint64) (*ihexWriter, error) {
	var limit uint64
	switch addressBits {
	case 16:
		limit = 0xffff
	case 24:
		limit = 16*0xffff + 0xffff
	case 32:
		limit = 0xffffffff
	default:
		return nil, &image.RangeError{
			Msg: fmt.Sprintf("bad ihex address length %d, expected 16, 24 or 32", addressBits),
		}
	}
	return &ihexWriter{w: w, addressBits: addressBits, wordSizeBytes: wordSizeBytes, limit: limit}, nil
}

// data emits the data records for one chunk, splitting at 64 KiB pages
// and emitting a type 02/04 record whenever the upper address bits
// advance past the current register value.
func (iw *ihexWriter) data(address uint64, data []byte) error {
	last := address + (uint64(len(data))-1)/iw.wordSizeBytes
	if last > iw.limit {
		return &image.RangeError{
			Msg: fmt.Sprintf("address %#x out of range for %d-bit ihex (maximum %#x)",
				last, iw.addressBits, iw.limit),
		}
	}
	for len(data) > 0 {
		if address-iw.base > 0xffff {
			if err := iw.advance(address); err != nil {
				return err
			}
		}
		// The record address field is 16 bits, never cross a page.
		n := min(uint64(len(data)), (0x10000-(address-iw.base))*iw.wordSizeBytes)
		if err := iw.record(record.IHexTypeData, uint16(address-iw.base), data[:n]); err != nil {
			return err
		}
		address += n / iw.wordSizeBytes
		data = data[n:]
	}
	return nil
}

// advance moves the extended-address register up so that address falls
// within 16 bits of the new base.
func (iw *ihexWriter) advance(address uint64) error {
	upper := address >> 16
	if iw.addressBits == 24 {
		// The segment register contributes value*16, so the upper 16
		// address bits land in its top nibble. Past value 0xf000 the
		// register granularity caps the base at 0xffff0.
		value := upper << 12
		if value > 0xffff {
			value = 0xffff
		}
		iw.base = value * 16
		return iw.record(record.IHexTypeExtendedSegmentAddress, 0,
			[]byte{byte(value >> 8), byte(value)})
	}
	iw.base = upper << 16
	return iw.record(record.IHexTypeExtendedLinearAddress, 0,
		[]byte{byte(upper >> 8), byte(upper)})
}

func (iw *ihexWriter) record(typ byte, address uint16, data []byte) error {
	line, err := record.PackIHex(typ, address, data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(iw.w, line)
	return err
}

// WriteIHex serializes img as Intel HEX records with dataBytes payload
// bytes per record in the given address-length mode.
func WriteIHex(img *image.Image, w io.Writer, dataBytes, addressBits int) error {
	iw, err := newIHexWriter(w, addressBits, img.WordSizeBytes())
	if err != nil {
		return err
	}
	chunks, err := img.Chunks(uint64(dataBytes), uint64(dataBytes))
	if err != nil {
		return err
	}
	for address, data := range chunks {
		if err := iw.data(address/img.WordSizeBytes(), data); err != nil {
			return err
		}
	}

	if start, ok := img.ExecutionStartAddress(); ok {
		buf := make([]byte, 4)
		binary.BigEndian.PutUint32(buf, uint32(start))
		typ := byte(record.IHexTypeStartSegmentAddress)
		if addressBits == 32 {
			typ = record.IHexTypeStartLinearAddress
		}
		if err := iw.record(typ, 0, buf); err != nil {
			return err
		}
	}
	return iw.record(record.IHexTypeEndOfFile, 0, nil)
}
