// pkg/image/segment.go

package image

import "fmt"

// Segment is one contiguous run of bytes at [Minimum, Maximum). The buffer
// length always equals Maximum - Minimum.
type Segment struct {
	minimum uint64
	maximum uint64
	data    []byte
}

// NewSegment creates a segment owning data at the given start address.
func NewSegment(address uint64, data []byte) *Segment {
	return &Segment{
		minimum: address,
		maximum: address + uint64(len(data)),
		data:    data,
	}
}

// Minimum returns the address of the first byte.
func (s *Segment) Minimum() uint64 { return s.minimum }

// Maximum returns the address one past the last byte.
func (s *Segment) Maximum() uint64 { return s.maximum }

// Data returns the owned buffer.
func (s *Segment) Data() []byte { return s.data }

// Len returns the number of bytes in the segment.
func (s *Segment) Len() int { return len(s.data) }

func (s *Segment) String() string {
	return fmt.Sprintf("[%#x .. %#x): %x", s.minimum, s.maximum, s.data)
}

// addData grows the segment with data at [minimum, maximum). Data adjacent
// to either end is concatenated. Overlapping data is spliced in place when
// overwrite is set, growing the segment backward and forward as needed.
// Anything else is an AddDataError.
func (s *Segment) addData(minimum, maximum uint64, data []byte, overwrite bool) error {
	switch {
	case minimum == s.maximum:
		s.data = append(s.data, data...)
		s.maximum = maximum
		return nil
	case maximum == s.minimum:
		grown := make([]byte, 0, len(data)+len(s.data))
		grown = append(grown, data...)
		s.data = append(grown, s.data...)
		s.minimum = minimum
		return nil
	case overwrite && minimum < s.maximum && maximum > s.minimum:
		if minimum < s.minimum {
			n := s.minimum - minimum
			grown := make([]byte, 0, uint64(len(data))+uint64(len(s.data))-n)
			grown = append(grown, data[:n]...)
			s.data = append(grown, s.data...)
			s.minimum = minimum
			data = data[n:]
			minimum += n
		}
		n := copy(s.data[minimum-s.minimum:], data)
		if n < len(data) {
			s.data = append(s.data, data[n:]...)
			s.maximum = maximum
		}
		return nil
	default:
		return &AddDataError{
			Minimum: minimum,
			Maximum: maximum,
			SegMin:  s.minimum,
			SegMax:  s.maximum,
		}
	}
}

// removeData removes [minimum, maximum) clipped to the segment's bounds.
// A range fully disjoint from the segment is a no-op. Removing an interior
// slice keeps the left remainder in place and returns a new segment for the
// right remainder. Removing everything empties the segment; the store drops
// empty segments.
func (s *Segment) removeData(minimum, maximum uint64) *Segment {
	if minimum >= s.maximum || maximum <= s.minimum {
		return nil
	}
	minimum = max(minimum, s.minimum)
	maximum = min(maximum, s.maximum)

	left := s.data[:minimum-s.minimum]
	right := s.data[maximum-s.minimum:]

	switch {
	case len(left) > 0 && len(right) > 0:
		split := NewSegment(maximum, append([]byte(nil), right...))
		s.maximum = minimum
		s.data = left
		return split
	case len(left) > 0:
		s.maximum = minimum
		s.data = left
	case len(right) > 0:
		s.minimum = maximum
		s.data = right
	default:
		s.maximum = s.minimum
		s.data = nil
	}
	return nil
}
