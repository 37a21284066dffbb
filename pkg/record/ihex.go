// pkg/record/ihex.go

package record

import (
	"encoding/hex"
	"fmt"
	"strings"

	"AveBin/pkg/image"
)

// Intel HEX record types.
const (
	IHexTypeData                   = 0
	IHexTypeEndOfFile              = 1
	IHexTypeExtendedSegmentAddress = 2
	IHexTypeStartSegmentAddress    = 3
	IHexTypeExtendedLinearAddress  = 4
	IHexTypeStartLinearAddress     = 5
)

// CRCIHex computes the Intel HEX checksum over the decoded record body
// (byte count, address, type and data): the two's complement of the byte
// sum, masked to 8 bits.
func CRCIHex(body []byte) uint8 {
	var sum uint8
	for _, b := range body {
		sum += b
	}
	return -sum
}

// PackIHex formats one Intel HEX record line from type, address and data.
func PackIHex(typ byte, address uint16, data []byte) (string, error) {
	if typ > IHexTypeStartLinearAddress {
		return "", &UnsupportedTypeError{Format: "ihex", Type: fmt.Sprintf("%02x", typ)}
	}
	// The byte count field is 8 bits.
	if len(data) > 0xff {
		return "", &image.RangeError{
			Msg: fmt.Sprintf("ihex data length %d exceeds the record maximum 255", len(data)),
		}
	}
	body := make([]byte, 0, 4+len(data))
	body = append(body, byte(len(data)), byte(address>>8), byte(address), typ)
	body = append(body, data...)
	return fmt.Sprintf(":%s%02X", strings.ToUpper(hex.EncodeToString(body)), CRCIHex(body)), nil
}

// UnpackIHex decodes one Intel HEX record line into type, address and
// data, verifying the checksum.
func UnpackIHex(line string) (typ byte, address uint16, data []byte, err error) {
	line = strings.TrimSpace(line)
	if len(line) < 11 || line[0] != ':' {
		return 0, 0, nil, &ParseError{Record: line, Reason: "expected leading ':'"}
	}
	body, err := hex.DecodeString(line[1:])
	if err != nil {
		return 0, 0, nil, &ParseError{Record: line, Reason: "bad hex"}
	}
	// Byte count, address, type and checksum around the data.
	if len(body) < 5 || int(body[0]) != len(body)-5 {
		return 0, 0, nil, &ParseError{Record: line, Reason: "bad length"}
	}
	expected := CRCIHex(body[:len(body)-1])
	actual := body[len(body)-1]
	if expected != actual {
		return 0, 0, nil, &ChecksumError{Record: line, Expected: expected, Actual: actual}
	}
	address = uint16(body[1])<<8 | uint16(body[2])
	return body[3], address, body[4 : len(body)-1], nil
}
