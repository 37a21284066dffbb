// pkg/record/errors.go

package record

import "fmt"

// ParseError is returned for a malformed record line: bad sentinel
// character, wrong length or a bad field.
type ParseError struct {
	Record string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bad record %q: %s", e.Record, e.Reason)
}

// ChecksumError is returned when a record's checksum does not match the
// one computed over its body.
type ChecksumError struct {
	Record   string
	Expected uint8
	Actual   uint8
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("bad checksum for record %q: expected %02x, got %02x",
		e.Record, e.Expected, e.Actual)
}

// UnsupportedTypeError is returned when a record type is outside the
// accepted set for its format.
type UnsupportedTypeError struct {
	Format string
	Type   string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported %s record type %s", e.Format, e.Type)
}
