// pkg/image/store_test.go

package image

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// requireDisjoint checks the store invariant: strictly ascending segments
// with a gap between every neighboring pair.
func requireDisjoint(t *testing.T, st *SegmentStore) {
	t.Helper()
	segments := st.Segments()
	for i := 0; i+1 < len(segments); i++ {
		require.Less(t, segments[i].Maximum(), segments[i+1].Minimum())
	}
	for _, s := range segments {
		require.Equal(t, int(s.Maximum()-s.Minimum()), s.Len())
	}
}

func add(t *testing.T, st *SegmentStore, address uint64, data []byte, overwrite bool) {
	t.Helper()
	require.NoError(t, st.Add(NewSegment(address, data), overwrite))
}

func TestStoreSequentialAppend(t *testing.T) {
	st := NewSegmentStore()
	add(t, st, 0, []byte{1, 2}, false)
	add(t, st, 2, []byte{3, 4}, false)
	add(t, st, 4, []byte{5, 6}, false)
	require.Equal(t, 1, st.Len())
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6}, st.Segments()[0].Data())
	requireDisjoint(t, st)
}

func TestStoreOutOfOrderInsert(t *testing.T) {
	st := NewSegmentStore()
	add(t, st, 20, []byte{3}, false)
	add(t, st, 0, []byte{1}, false)
	add(t, st, 10, []byte{2}, false)
	require.Equal(t, 3, st.Len())
	minimum, err := st.MinimumAddress()
	require.NoError(t, err)
	require.Equal(t, uint64(0), minimum)
	maximum, err := st.MaximumAddress()
	require.NoError(t, err)
	require.Equal(t, uint64(21), maximum)
	requireDisjoint(t, st)
}

func TestStoreTouchingSegmentsMerge(t *testing.T) {
	st := NewSegmentStore()
	add(t, st, 0, []byte{1, 2}, false)
	add(t, st, 4, []byte{5, 6}, false)
	// Fills the hole exactly, all three must merge.
	add(t, st, 2, []byte{3, 4}, false)
	require.Equal(t, 1, st.Len())
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6}, st.Segments()[0].Data())
	requireDisjoint(t, st)
}

func TestStoreOverlapWithoutOverwrite(t *testing.T) {
	st := NewSegmentStore()
	add(t, st, 0, []byte{1, 2, 3}, false)
	err := st.Add(NewSegment(2, []byte{9, 9}), false)
	var adErr *AddDataError
	require.ErrorAs(t, err, &adErr)
}

func TestStoreFailedAddLeavesStoreUntouched(t *testing.T) {
	st := NewSegmentStore()
	add(t, st, 0, []byte{1, 2}, false)
	add(t, st, 3, []byte{3, 4}, false)
	want := st.String()

	// Grows out of the first segment into the second one.
	err := st.Add(NewSegment(2, []byte{9, 9}), false)
	var adErr *AddDataError
	require.ErrorAs(t, err, &adErr)
	require.Equal(t, uint64(2), adErr.Minimum)
	require.Equal(t, uint64(4), adErr.Maximum)
	require.Equal(t, uint64(3), adErr.SegMin)
	require.Equal(t, uint64(5), adErr.SegMax)

	require.Equal(t, want, st.String())
	requireDisjoint(t, st)

	// The store still accepts a fitting add afterwards.
	add(t, st, 2, []byte{9}, false)
	require.Equal(t, 1, st.Len())
	require.Equal(t, []byte{1, 2, 9, 3, 4}, st.Segments()[0].Data())
}

func TestStoreFailedSequentialAddLeavesStoreUntouched(t *testing.T) {
	st := NewSegmentStore()
	add(t, st, 10, []byte{7}, false)
	add(t, st, 0, []byte{1, 2}, false)
	want := st.String()

	// Starts exactly at the last touched segment's end but runs into the
	// next one.
	err := st.Add(NewSegment(2, make([]byte, 9)), false)
	var adErr *AddDataError
	require.ErrorAs(t, err, &adErr)
	require.Equal(t, want, st.String())
	requireDisjoint(t, st)
}

func TestStoreOverwriteSpansManySegments(t *testing.T) {
	st := NewSegmentStore()
	add(t, st, 0, []byte{1, 1}, false)
	add(t, st, 4, []byte{2, 2}, false)
	add(t, st, 8, []byte{3, 3}, false)
	add(t, st, 12, []byte{4, 4}, false)

	// From inside the first segment to inside the last one.
	data := []byte{9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9}
	add(t, st, 1, data, true)

	require.Equal(t, 1, st.Len())
	s := st.Segments()[0]
	require.Equal(t, uint64(0), s.Minimum())
	require.Equal(t, uint64(14), s.Maximum())
	require.Equal(t, []byte{1, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 4}, s.Data())
	requireDisjoint(t, st)
}

func TestStoreOverwritePartialTailAbsorbed(t *testing.T) {
	st := NewSegmentStore()
	add(t, st, 0, []byte{1, 1}, false)
	add(t, st, 4, []byte{2, 2, 2, 2}, false)
	// Ends inside the second segment, its tail must survive.
	add(t, st, 0, []byte{9, 9, 9, 9, 9, 9}, true)

	require.Equal(t, 1, st.Len())
	s := st.Segments()[0]
	require.Equal(t, []byte{9, 9, 9, 9, 9, 9, 2, 2}, s.Data())
	requireDisjoint(t, st)
}

func TestStoreRemoveSplits(t *testing.T) {
	st := NewSegmentStore()
	add(t, st, 10, []byte{0x31, 0x32, 0x33, 0x34}, false)
	st.Remove(11, 13)
	segments := st.Segments()
	require.Len(t, segments, 2)
	require.Equal(t, []byte{0x31}, segments[0].Data())
	require.Equal(t, uint64(13), segments[1].Minimum())
	require.Equal(t, []byte{0x34}, segments[1].Data())
	requireDisjoint(t, st)
}

func TestStoreRemoveAcrossSegments(t *testing.T) {
	st := NewSegmentStore()
	add(t, st, 0, []byte{1, 1, 1, 1}, false)
	add(t, st, 8, []byte{2, 2, 2, 2}, false)
	add(t, st, 16, []byte{3, 3, 3, 3}, false)
	st.Remove(2, 18)
	segments := st.Segments()
	require.Len(t, segments, 2)
	require.Equal(t, []byte{1, 1}, segments[0].Data())
	require.Equal(t, uint64(18), segments[1].Minimum())
	require.Equal(t, []byte{3, 3}, segments[1].Data())
	requireDisjoint(t, st)
}

func TestStoreRemoveIsIdempotent(t *testing.T) {
	st := NewSegmentStore()
	add(t, st, 10, []byte{1, 2, 3, 4}, false)
	st.Remove(11, 13)
	want := st.String()
	st.Remove(11, 13)
	require.Equal(t, want, st.String())
}

func TestStoreAddAfterRemoveKeepsInvariant(t *testing.T) {
	st := NewSegmentStore()
	add(t, st, 0, []byte{1, 2, 3, 4, 5, 6, 7, 8}, false)
	st.Remove(2, 6)
	add(t, st, 3, []byte{9}, false)
	add(t, st, 2, []byte{9}, false)
	add(t, st, 4, []byte{9, 9}, false)
	require.Equal(t, 1, st.Len())
	require.Equal(t, []byte{1, 2, 9, 9, 9, 9, 7, 8}, st.Segments()[0].Data())
	requireDisjoint(t, st)
}

func TestStoreChunks(t *testing.T) {
	st := NewSegmentStore()
	add(t, st, 10, []byte{0x31, 0x32, 0x33, 0x34}, false)

	chunks, err := st.Chunks(2, 1)
	require.NoError(t, err)

	type chunk struct {
		address uint64
		data    []byte
	}
	var got []chunk
	for address, data := range chunks {
		got = append(got, chunk{address, append([]byte(nil), data...)})
	}
	require.Equal(t, []chunk{
		{10, []byte{0x31, 0x32}},
		{12, []byte{0x33, 0x34}},
	}, got)

	// Restartable: a second pass sees the same chunks.
	var again int
	for range chunks {
		again++
	}
	require.Equal(t, 2, again)
}

func TestStoreChunksAlignsFirstChunk(t *testing.T) {
	st := NewSegmentStore()
	add(t, st, 5, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, false)

	chunks, err := st.Chunks(8, 4)
	require.NoError(t, err)
	var addresses []uint64
	var sizes []int
	for address, data := range chunks {
		addresses = append(addresses, address)
		sizes = append(sizes, len(data))
	}
	// First chunk is short so following chunks start 4-aligned.
	require.Equal(t, []uint64{5, 8}, addresses)
	require.Equal(t, []int{3, 8}, sizes)
}

func TestStoreChunksBadAlignment(t *testing.T) {
	st := NewSegmentStore()
	_, err := st.Chunks(7, 4)
	var rangeErr *RangeError
	require.ErrorAs(t, err, &rangeErr)
	require.Contains(t, rangeErr.Error(), "not a multiple of alignment")
}

func TestStoreEmptyAddressQueries(t *testing.T) {
	st := NewSegmentStore()
	_, err := st.MinimumAddress()
	var emptyErr *EmptyStoreError
	require.ErrorAs(t, err, &emptyErr)
	_, err = st.MaximumAddress()
	require.ErrorAs(t, err, &emptyErr)
}
