// pkg/record/srec.go

// Package record packs and unpacks single Motorola S-Record and Intel HEX
// lines. It is stateless; the multi-record addressing state machines live
// in pkg/format.
package record

import (
	"encoding/hex"
	"fmt"
	"strings"

	"AveBin/pkg/image"
)

// Motorola S-Record types.
const (
	SRecTypeHeader  = '0'
	SRecTypeData16  = '1'
	SRecTypeData24  = '2'
	SRecTypeData32  = '3'
	SRecTypeCount16 = '5'
	SRecTypeCount24 = '6'
	SRecTypeStart32 = '7'
	SRecTypeStart24 = '8'
	SRecTypeStart16 = '9'
)

// srecAddressWidth returns the address width in bytes for a record type.
func srecAddressWidth(typ byte) (int, error) {
	switch typ {
	case SRecTypeHeader, SRecTypeData16, SRecTypeCount16, SRecTypeStart16:
		return 2, nil
	case SRecTypeData24, SRecTypeCount24, SRecTypeStart24:
		return 3, nil
	case SRecTypeData32, SRecTypeStart32:
		return 4, nil
	default:
		return 0, &UnsupportedTypeError{Format: "srec", Type: string(typ)}
	}
}

// CRCSRec computes the S-Record checksum over the decoded record body
// (byte count, address and data): the one's complement of the byte sum,
// masked to 8 bits.
func CRCSRec(body []byte) uint8 {
	var sum uint8
	for _, b := range body {
		sum += b
	}
	return sum ^ 0xff
}

// PackSRec formats one S-Record line from type, address and data.
func PackSRec(typ byte, address uint64, data []byte) (string, error) {
	width, err := srecAddressWidth(typ)
	if err != nil {
		return "", err
	}
	// The byte count field covers address, data and checksum in 8 bits.
	if len(data) > 0xff-width-1 {
		return "", &image.RangeError{
			Msg: fmt.Sprintf("srec data length %d exceeds the record maximum %d", len(data), 0xff-width-1),
		}
	}
	body := make([]byte, 0, 1+width+len(data))
	body = append(body, byte(width+len(data)+1))
	for i := width - 1; i >= 0; i-- {
		body = append(body, byte(address>>(8*i)))
	}
	body = append(body, data...)
	return fmt.Sprintf("S%c%s%02X", typ, strings.ToUpper(hex.EncodeToString(body)), CRCSRec(body)), nil
}

// UnpackSRec decodes one S-Record line into type, address and data,
// verifying the checksum.
func UnpackSRec(line string) (typ byte, address uint64, data []byte, err error) {
	line = strings.TrimSpace(line)
	if len(line) < 2 || line[0] != 'S' {
		return 0, 0, nil, &ParseError{Record: line, Reason: "expected leading 'S'"}
	}
	typ = line[1]
	width, err := srecAddressWidth(typ)
	if err != nil {
		return 0, 0, nil, err
	}
	body, err := hex.DecodeString(line[2:])
	if err != nil {
		return 0, 0, nil, &ParseError{Record: line, Reason: "bad hex"}
	}
	// Byte count, address, at least the checksum.
	if len(body) < 2+width || int(body[0]) != len(body)-1 {
		return 0, 0, nil, &ParseError{Record: line, Reason: "bad length"}
	}
	expected := CRCSRec(body[:len(body)-1])
	actual := body[len(body)-1]
	if expected != actual {
		return 0, 0, nil, &ChecksumError{Record: line, Expected: expected, Actual: actual}
	}
	for _, b := range body[1 : 1+width] {
		address = address<<8 | uint64(b)
	}
	return typ, address, body[1+width : len(body)-1], nil
}
