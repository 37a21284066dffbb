// pkg/format/errors.go

package format

import "github.com/pkg/errors"

// UnsupportedFileFormatError is returned when auto-detection recognizes
// no known grammar.
type UnsupportedFileFormatError struct{}

func (e *UnsupportedFileFormatError) Error() string {
	return "unsupported file format, pass an explicit format"
}

// TI-TXT stream faults.
var (
	ErrTiTxtDataAfterTerminator = errors.New("ti_txt: data after file terminator")
	ErrTiTxtBadLineLength       = errors.New("ti_txt: too many data bytes on one line")
	ErrTiTxtBadHex              = errors.New("ti_txt: bad hex data")
	ErrTiTxtMissingAddress      = errors.New("ti_txt: data before any section address")
	ErrTiTxtMissingTerminator   = errors.New("ti_txt: missing file terminator")
)

// Verilog VMEM stream faults.
var (
	ErrVMemBadToken          = errors.New("vmem: bad token")
	ErrVMemInconsistentWidth = errors.New("vmem: inconsistent word width")
)
