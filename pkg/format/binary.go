// pkg/format/binary.go

package format

import (
	"io"

	"AveBin/pkg/image"
)

// ReadBinary loads raw bytes from r as a single segment at the given word
// address.
func ReadBinary(img *image.Image, r io.Reader, address uint64, overwrite bool) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return img.AddBinary(data, address, overwrite)
}

// WriteBinary linearizes img to w, gaps filled with 0xFF words.
func WriteBinary(img *image.Image, w io.Writer) error {
	data, err := img.AsBinary(nil)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
