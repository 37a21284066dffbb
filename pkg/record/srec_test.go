// pkg/record/srec_test.go

package record

import (
	"testing"

	"github.com/stretchr/testify/require"

	"AveBin/pkg/image"
)

func TestCRCSRec(t *testing.T) {
	// Empty header record body: 03 00 00.
	require.Equal(t, uint8(0xfc), CRCSRec([]byte{0x03, 0x00, 0x00}))
}

func TestPackSRec(t *testing.T) {
	tests := []struct {
		typ     byte
		address uint64
		data    []byte
		want    string
	}{
		{SRecTypeHeader, 0, nil, "S0030000FC"},
		{SRecTypeData16, 0x0010, []byte("Hello"), "S108001048656C6C6FF3"},
		{SRecTypeCount16, 3, nil, "S5030003F9"},
		{SRecTypeData32, 0x12345678, []byte{0xff}, "S30612345678FFE6"},
	}
	for _, tt := range tests {
		got, err := PackSRec(tt.typ, tt.address, tt.data)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func TestPackSRecBadType(t *testing.T) {
	_, err := PackSRec('4', 0, nil)
	var typeErr *UnsupportedTypeError
	require.ErrorAs(t, err, &typeErr)
	require.Equal(t, "4", typeErr.Type)
}

func TestPackSRecDataTooLong(t *testing.T) {
	// A 32-bit record carries at most 250 data bytes: the count field must
	// hold address, data and checksum in 8 bits.
	_, err := PackSRec(SRecTypeData32, 0, make([]byte, 251))
	var rangeErr *image.RangeError
	require.ErrorAs(t, err, &rangeErr)
	require.Contains(t, rangeErr.Error(), "250")

	_, err = PackSRec(SRecTypeData32, 0, make([]byte, 250))
	require.NoError(t, err)
}

func TestUnpackSRec(t *testing.T) {
	typ, address, data, err := UnpackSRec("S108001048656C6C6FF3")
	require.NoError(t, err)
	require.Equal(t, byte(SRecTypeData16), typ)
	require.Equal(t, uint64(0x0010), address)
	require.Equal(t, []byte("Hello"), data)
}

func TestUnpackSRecRoundTrip(t *testing.T) {
	for _, typ := range []byte{SRecTypeHeader, SRecTypeData16, SRecTypeData24, SRecTypeData32, SRecTypeStart32} {
		line, err := PackSRec(typ, 0x1234, []byte{1, 2, 3})
		require.NoError(t, err)
		gotType, address, data, err := UnpackSRec(line)
		require.NoError(t, err)
		require.Equal(t, typ, gotType)
		require.Equal(t, uint64(0x1234), address)
		require.Equal(t, []byte{1, 2, 3}, data)
	}
}

func TestUnpackSRecErrors(t *testing.T) {
	var parseErr *ParseError
	_, _, _, err := UnpackSRec(":0000")
	require.ErrorAs(t, err, &parseErr)
	_, _, _, err = UnpackSRec("S1")
	require.ErrorAs(t, err, &parseErr)
	_, _, _, err = UnpackSRec("S1ZZ00104865")
	require.ErrorAs(t, err, &parseErr)
	// Wrong byte count field.
	_, _, _, err = UnpackSRec("S109001048656C6C6F53")
	require.ErrorAs(t, err, &parseErr)
}

func TestUnpackSRecChecksumError(t *testing.T) {
	_, _, _, err := UnpackSRec("S108001048656C6C6F54")
	var crcErr *ChecksumError
	require.ErrorAs(t, err, &crcErr)
	require.Equal(t, uint8(0xf3), crcErr.Expected)
	require.Equal(t, uint8(0x54), crcErr.Actual)
}
