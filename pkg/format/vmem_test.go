// pkg/format/vmem_test.go

package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"AveBin/pkg/image"
)

func TestReadVerilogVMem(t *testing.T) {
	img := newTestImage(t, 8)
	in := `// boot block
@10 41 42 /* gap
   spans lines */ 43
@20 44
`
	require.NoError(t, ReadVerilogVMem(img, strings.NewReader(in), false))
	segments := img.Store().Segments()
	require.Len(t, segments, 2)
	require.Equal(t, uint64(0x10), segments[0].Minimum())
	require.Equal(t, []byte{0x41, 0x42, 0x43}, segments[0].Data())
	require.Equal(t, uint64(0x20), segments[1].Minimum())
	require.Equal(t, []byte{0x44}, segments[1].Data())
}

func TestReadVerilogVMemWideWords(t *testing.T) {
	img := newTestImage(t, 16)
	in := "@4 0102 0304\n"
	require.NoError(t, ReadVerilogVMem(img, strings.NewReader(in), false))
	segments := img.Store().Segments()
	require.Len(t, segments, 1)
	// Word cursor 4 at two bytes per word.
	require.Equal(t, uint64(8), segments[0].Minimum())
	require.Equal(t, []byte{1, 2, 3, 4}, segments[0].Data())
}

func TestReadVerilogVMemErrors(t *testing.T) {
	img := newTestImage(t, 8)
	require.ErrorIs(t, ReadVerilogVMem(img, strings.NewReader("@zz 01"), false), ErrVMemBadToken)
	require.ErrorIs(t, ReadVerilogVMem(img, strings.NewReader("0G"), false), ErrVMemBadToken)
	require.ErrorIs(t, ReadVerilogVMem(img, strings.NewReader("012"), false), ErrVMemBadToken)
	require.ErrorIs(t, ReadVerilogVMem(img, strings.NewReader("01 0203"), false), ErrVMemInconsistentWidth)
}

func TestWriteVerilogVMem(t *testing.T) {
	img := newTestImage(t, 8)
	require.NoError(t, img.AddBinary([]byte{1, 2, 3}, 0x10, false))

	var buf bytes.Buffer
	require.NoError(t, WriteVerilogVMem(img, &buf, 2))
	require.Equal(t, "@10 01 02\n@12 03\n", buf.String())
}

func TestWriteVerilogVMemBadLineSize(t *testing.T) {
	img := newTestImage(t, 16)
	var rangeErr *image.RangeError
	require.ErrorAs(t, WriteVerilogVMem(img, &bytes.Buffer{}, 3), &rangeErr)
}

func TestVerilogVMemRoundTrip(t *testing.T) {
	img := newTestImage(t, 16)
	require.NoError(t, img.AddBinary([]byte{1, 2, 3, 4, 5, 6}, 0x80, false))

	var buf bytes.Buffer
	require.NoError(t, WriteVerilogVMem(img, &buf, 4))

	got := newTestImage(t, 16)
	require.NoError(t, ReadVerilogVMem(got, &buf, false))
	want, err := img.AsBinary(nil)
	require.NoError(t, err)
	out, err := got.AsBinary(nil)
	require.NoError(t, err)
	require.Equal(t, want, out)
	minimum, err := got.MinimumAddress()
	require.NoError(t, err)
	require.Equal(t, uint64(0x80), minimum)
}
