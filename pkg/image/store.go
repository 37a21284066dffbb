// pkg/image/store.go

package image

import (
	"fmt"
	"iter"
	"slices"
	"sort"
	"strings"
)

// SegmentStore is an ordered collection of disjoint segments, always
// byte-addressed. Adjacent or overlapping segments are merged on insertion,
// so for every neighboring pair list[i].Maximum() < list[i+1].Minimum().
type SegmentStore struct {
	list []*Segment

	// Index of the most recently grown segment. Sequential record streams
	// append to it directly without searching. Purely an optimization, the
	// search path gives the same result.
	last int
}

// NewSegmentStore creates an empty store.
func NewSegmentStore() *SegmentStore {
	return &SegmentStore{last: -1}
}

// Len returns the number of stored segments.
func (st *SegmentStore) Len() int { return len(st.list) }

// Segments returns a snapshot of the stored segments in ascending order.
// Mutating the store invalidates the segments' buffers but not the slice.
func (st *SegmentStore) Segments() []*Segment {
	return slices.Clone(st.list)
}

// MinimumAddress returns the address of the first stored byte.
func (st *SegmentStore) MinimumAddress() (uint64, error) {
	if len(st.list) == 0 {
		return 0, &EmptyStoreError{}
	}
	return st.list[0].minimum, nil
}

// MaximumAddress returns the address one past the last stored byte.
func (st *SegmentStore) MaximumAddress() (uint64, error) {
	if len(st.list) == 0 {
		return 0, &EmptyStoreError{}
	}
	return st.list[len(st.list)-1].maximum, nil
}

// Add inserts a segment, merging it with any segments it touches. Data
// overlapping stored data is an AddDataError unless overwrite is set, in
// which case the new data wins.
func (st *SegmentStore) Add(segment *Segment, overwrite bool) error {
	if segment.Len() == 0 {
		return nil
	}
	if len(st.list) == 0 {
		st.list = append(st.list, segment)
		st.last = 0
		return nil
	}

	// Fast path for sequential streams: the new segment starts exactly
	// where the last touched one ends.
	if st.last >= 0 && segment.minimum == st.list[st.last].maximum {
		if err := st.checkForward(st.last, segment, overwrite); err != nil {
			return err
		}
		s := st.list[st.last]
		if err := s.addData(segment.minimum, segment.maximum, segment.data, overwrite); err != nil {
			return err
		}
		st.mergeForward(st.last)
		return nil
	}

	i := sort.Search(len(st.list), func(i int) bool {
		return st.list[i].maximum >= segment.minimum
	})
	switch {
	case i == len(st.list):
		// After everything stored, not touching.
		st.list = append(st.list, segment)
		st.last = i
		return nil
	case segment.maximum < st.list[i].minimum:
		// Before list[i], not touching.
		st.list = slices.Insert(st.list, i, segment)
		st.last = i
		return nil
	default:
		if err := st.checkForward(i, segment, overwrite); err != nil {
			return err
		}
		s := st.list[i]
		if err := s.addData(segment.minimum, segment.maximum, segment.data, overwrite); err != nil {
			return err
		}
		st.last = i
		st.mergeForward(i)
		return nil
	}
}

// checkForward rejects an insertion at list[i] that would run into the
// following neighbor without overwrite. Checked before any data moves, so
// a failed Add leaves the store untouched.
func (st *SegmentStore) checkForward(i int, segment *Segment, overwrite bool) error {
	if overwrite || i+1 >= len(st.list) {
		return nil
	}
	if next := st.list[i+1]; segment.maximum > next.minimum {
		return &AddDataError{
			Minimum: segment.minimum,
			Maximum: segment.maximum,
			SegMin:  next.minimum,
			SegMax:  next.maximum,
		}
	}
	return nil
}

// mergeForward repairs the invariant after list[i] has grown, consuming
// neighbors until the grown segment no longer touches the next one. The
// loop runs once per neighbor consumed. Overlap without overwrite was
// already rejected by checkForward.
func (st *SegmentStore) mergeForward(i int) {
	grown := st.list[i]
	for i+1 < len(st.list) {
		next := st.list[i+1]
		if grown.maximum < next.minimum {
			break
		}
		if grown.maximum == next.minimum {
			grown.data = append(grown.data, next.data...)
			grown.maximum = next.maximum
			st.list = slices.Delete(st.list, i+1, i+2)
			break
		}
		if grown.maximum >= next.maximum {
			// The grown data fully covers this neighbor.
			st.list = slices.Delete(st.list, i+1, i+2)
			continue
		}
		// Partial cover: absorb the neighbor's uncovered tail.
		grown.data = append(grown.data, next.data[grown.maximum-next.minimum:]...)
		grown.maximum = next.maximum
		st.list = slices.Delete(st.list, i+1, i+2)
		break
	}
}

// Remove deletes all data in [minimum, maximum). Segments fully inside the
// range are dropped, partially covered ones are shrunk and a segment whose
// interior is removed is split in two.
func (st *SegmentStore) Remove(minimum, maximum uint64) {
	if maximum <= minimum || len(st.list) == 0 {
		return
	}
	rebuilt := make([]*Segment, 0, len(st.list)+1)
	for _, s := range st.list {
		split := s.removeData(minimum, maximum)
		if s.Len() > 0 {
			rebuilt = append(rebuilt, s)
		}
		if split != nil {
			rebuilt = append(rebuilt, split)
		}
	}
	st.list = rebuilt
	st.last = -1
}

// Chunks returns a restartable iteration of (address, data) pairs of at
// most size bytes each. The first chunk of a segment may be shorter than
// size so every following chunk starts on a multiple of alignment; size
// must be a multiple of alignment. Line oriented formats rely on this to
// keep records within their payload ceiling and extended-address pages.
func (st *SegmentStore) Chunks(size, alignment uint64) (iter.Seq2[uint64, []byte], error) {
	if size == 0 || alignment == 0 || size%alignment != 0 {
		return nil, &RangeError{
			Msg: fmt.Sprintf("size %d is not a multiple of alignment %d", size, alignment),
		}
	}
	segments := slices.Clone(st.list)
	return func(yield func(uint64, []byte) bool) {
		for _, s := range segments {
			address := s.minimum
			data := s.data
			if r := address % alignment; r != 0 {
				n := min(uint64(len(data)), alignment-r)
				if !yield(address, data[:n]) {
					return
				}
				address += n
				data = data[n:]
			}
			for offset := uint64(0); offset < uint64(len(data)); offset += size {
				end := min(offset+size, uint64(len(data)))
				if !yield(address+offset, data[offset:end]) {
					return
				}
			}
		}
	}, nil
}

func (st *SegmentStore) String() string {
	var b strings.Builder
	for i, s := range st.list {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s.String())
	}
	return b.String()
}
