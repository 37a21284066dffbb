// pkg/format/format.go

// Package format converts between the sparse image model and the
// supported on-disk encodings: Motorola S-Record, Intel HEX, TI-TXT,
// Verilog VMEM, raw binary and loadable ELF sections.
package format

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"AveBin/pkg/image"
	"AveBin/pkg/utils"
)

var logger = utils.GetLogger("avebin")

// Format selects one of the supported encodings.
type Format int

const (
	FormatSRec Format = iota
	FormatIHex
	FormatTiTxt
	FormatVMem
	FormatBinary
	FormatELF
)

func (f Format) String() string {
	switch f {
	case FormatSRec:
		return "srec"
	case FormatIHex:
		return "ihex"
	case FormatTiTxt:
		return "ti_txt"
	case FormatVMem:
		return "vmem"
	case FormatBinary:
		return "binary"
	case FormatELF:
		return "elf"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat maps a user supplied name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "srec", "s19", "s28", "s37":
		return FormatSRec, nil
	case "ihex", "hex":
		return FormatIHex, nil
	case "ti_txt", "ti-txt", "titxt":
		return FormatTiTxt, nil
	case "vmem", "verilog_vmem":
		return FormatVMem, nil
	case "binary", "bin":
		return FormatBinary, nil
	case "elf":
		return FormatELF, nil
	default:
		return 0, fmt.Errorf("unknown format %q", name)
	}
}

// FromExtension guesses a format from a file name.
func FromExtension(path string) (Format, bool) {
	switch {
	case hasSuffix(path, ".s19", ".s28", ".s37", ".srec", ".mot"):
		return FormatSRec, true
	case hasSuffix(path, ".hex", ".ihex"):
		return FormatIHex, true
	case hasSuffix(path, ".vmem", ".mem"):
		return FormatVMem, true
	case hasSuffix(path, ".bin"):
		return FormatBinary, true
	case hasSuffix(path, ".elf"):
		return FormatELF, true
	default:
		return 0, false
	}
}

func hasSuffix(path string, suffixes ...string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(strings.ToLower(path), s) {
			return true
		}
	}
	return false
}

// Options carries the per-format knobs shared by Read and Write.
type Options struct {
	// Overwrite lets incoming data replace stored data instead of
	// failing on overlap.
	Overwrite bool
	// Address is the load address for raw binary input, in word units.
	Address uint64
	// DataBytes is the payload size per emitted record line.
	DataBytes int
	// AddressBits selects the SREC/IHEX address length: 16, 24 or 32.
	AddressBits int
}

const (
	// DefaultDataBytes is the payload size per record when unset.
	DefaultDataBytes = 32
	// DefaultAddressBits is the address length when unset.
	DefaultAddressBits = 32
)

func (o Options) dataBytes() int {
	if o.DataBytes == 0 {
		return DefaultDataBytes
	}
	return o.DataBytes
}

func (o Options) addressBits() int {
	if o.AddressBits == 0 {
		return DefaultAddressBits
	}
	return o.AddressBits
}

// Read parses r in the given format into img.
func Read(img *image.Image, r io.Reader, f Format, opts Options) error {
	switch f {
	case FormatSRec:
		return ReadSRec(img, r, opts.Overwrite)
	case FormatIHex:
		return ReadIHex(img, r, opts.Overwrite)
	case FormatTiTxt:
		return ReadTiTxt(img, r, opts.Overwrite)
	case FormatVMem:
		return ReadVerilogVMem(img, r, opts.Overwrite)
	case FormatBinary:
		return ReadBinary(img, r, opts.Address, opts.Overwrite)
	case FormatELF:
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		return ReadELF(img, bytes.NewReader(data), opts.Overwrite)
	default:
		return fmt.Errorf("cannot read format %s", f)
	}
}

// Write serializes img to w in the given format.
func Write(img *image.Image, w io.Writer, f Format, opts Options) error {
	switch f {
	case FormatSRec:
		return WriteSRec(img, w, opts.dataBytes(), opts.addressBits())
	case FormatIHex:
		return WriteIHex(img, w, opts.dataBytes(), opts.addressBits())
	case FormatTiTxt:
		return WriteTiTxt(img, w)
	case FormatVMem:
		return WriteVerilogVMem(img, w, opts.dataBytes())
	case FormatBinary:
		return WriteBinary(img, w)
	default:
		return fmt.Errorf("cannot write format %s", f)
	}
}
