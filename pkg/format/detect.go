// pkg/format/detect.go

package format

import (
	"bytes"

	"AveBin/pkg/image"
)

// Detect finds the format of data by parsing it with every known grammar
// in turn. Raw binary is never detected since any byte stream qualifies;
// callers wanting binary pass it explicitly.
func Detect(data []byte) (Format, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return 0, &UnsupportedFileFormatError{}
	}
	if bytes.HasPrefix(data, []byte("\x7fELF")) {
		return FormatELF, nil
	}
	for _, f := range []Format{FormatSRec, FormatIHex, FormatTiTxt, FormatVMem} {
		scratch, err := image.New(image.DefaultWordSize)
		if err != nil {
			return 0, err
		}
		if err := Read(scratch, bytes.NewReader(data), f, Options{}); err == nil {
			return f, nil
		}
		logger.Debugf("detect: not %s", f)
	}
	return 0, &UnsupportedFileFormatError{}
}
