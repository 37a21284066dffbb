// pkg/format/srec.go

package format

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"AveBin/pkg/image"
	"AveBin/pkg/record"
)

// ReadSRec parses Motorola S-Records from r into img. Record count
// records (S5/S6) are read but not otherwise acted on.
func ReadSRec(img *image.Image, r io.Reader, overwrite bool) error {
	scanner := bufio.NewScanner(r)
	var lineNum int
	var dataRecords int
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		typ, address, data, err := record.UnpackSRec(line)
		if err != nil {
			return errors.Wrapf(err, "line %d", lineNum)
		}
		switch typ {
		case record.SRecTypeHeader:
			img.SetHeaderBytes(data)
		case record.SRecTypeData16, record.SRecTypeData24, record.SRecTypeData32:
			dataRecords++
			if err := img.AddBinary(data, address, overwrite); err != nil {
				return errors.Wrapf(err, "line %d", lineNum)
			}
		case record.SRecTypeCount16, record.SRecTypeCount24:
			if int(address) != dataRecords {
				logger.Debugf("srec record count %d does not match %d data records", address, dataRecords)
			}
		case record.SRecTypeStart16, record.SRecTypeStart24, record.SRecTypeStart32:
			img.SetExecutionStartAddress(address)
		}
	}
	return scanner.Err()
}

// srecDataType maps an address length in bits to the data record type.
func srecDataType(addressBits int) (byte, error) {
	switch addressBits {
	case 16:
		return record.SRecTypeData16, nil
	case 24:
		return record.SRecTypeData24, nil
	case 32:
		return record.SRecTypeData32, nil
	default:
		return 0, &image.RangeError{
			Msg: fmt.Sprintf("bad srec address length %d, expected 16, 24 or 32", addressBits),
		}
	}
}

// WriteSRec serializes img as Motorola S-Records with dataBytes payload
// bytes per record and the given address length.
func WriteSRec(img *image.Image, w io.Writer, dataBytes, addressBits int) error {
	typ, err := srecDataType(addressBits)
	if err != nil {
		return err
	}
	limit := uint64(1)<<addressBits - 1

	if header, ok := img.HeaderBytes(); ok {
		if err := writeRecordSRec(w, record.SRecTypeHeader, 0, header); err != nil {
			return err
		}
	}

	chunks, err := img.Chunks(uint64(dataBytes), 1)
	if err != nil {
		return err
	}
	var count uint64
	for address, data := range chunks {
		address /= img.WordSizeBytes()
		if address > limit {
			return &image.RangeError{
				Msg: fmt.Sprintf("address %#x out of range for %d-bit srec (maximum %#x)", address, addressBits, limit),
			}
		}
		if err := writeRecordSRec(w, typ, address, data); err != nil {
			return err
		}
		count++
	}

	switch {
	case count <= 0xffff:
		err = writeRecordSRec(w, record.SRecTypeCount16, count, nil)
	case count <= 0xffffff:
		err = writeRecordSRec(w, record.SRecTypeCount24, count, nil)
	default:
		err = &image.RangeError{Msg: fmt.Sprintf("too many srec records: %d", count)}
	}
	if err != nil {
		return err
	}

	// The start address record is only emitted for images beginning at
	// address zero.
	if start, ok := img.ExecutionStartAddress(); ok {
		if minimum, err := img.MinimumAddress(); err == nil && minimum == 0 {
			startType := map[byte]byte{
				record.SRecTypeData16: record.SRecTypeStart16,
				record.SRecTypeData24: record.SRecTypeStart24,
				record.SRecTypeData32: record.SRecTypeStart32,
			}[typ]
			if err := writeRecordSRec(w, startType, start, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeRecordSRec(w io.Writer, typ byte, address uint64, data []byte) error {
	line, err := record.PackSRec(typ, address, data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, line)
	return err
}
