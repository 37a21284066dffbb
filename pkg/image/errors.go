// pkg/image/errors.go

package image

import "fmt"

// AddDataError is returned when added data is neither adjacent to the
// segment it hit nor allowed to overwrite it.
type AddDataError struct {
	Minimum uint64
	Maximum uint64
	SegMin  uint64
	SegMax  uint64
}

func (e *AddDataError) Error() string {
	return fmt.Sprintf("add data [%#x .. %#x): not adjacent to segment [%#x .. %#x) and overwrite is disabled",
		e.Minimum, e.Maximum, e.SegMin, e.SegMax)
}

// RangeError is returned for inverted ranges, misaligned chunk sizes and
// addresses outside a target format's representable range.
type RangeError struct {
	Msg string
}

func (e *RangeError) Error() string {
	return e.Msg
}

// EmptyStoreError is returned when an address is queried with no stored data.
type EmptyStoreError struct{}

func (e *EmptyStoreError) Error() string {
	return "no data in store"
}
