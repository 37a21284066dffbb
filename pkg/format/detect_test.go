// pkg/format/detect_test.go

package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Format
	}{
		{"srec", "S0030000FC\nS108001048656C6C6FF3\n", FormatSRec},
		{"ihex", ":0300300002337A1E\n:00000001FF\n", FormatIHex},
		{"ti_txt", "@100\n31 32\nq\n", FormatTiTxt},
		{"vmem", "@0 AA BB CC\n", FormatVMem},
		{"elf", "\x7fELF\x02\x01\x01", FormatELF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect([]byte(tt.in))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDetectUnsupported(t *testing.T) {
	var unsupported *UnsupportedFileFormatError
	_, err := Detect([]byte("certainly not a known format"))
	require.ErrorAs(t, err, &unsupported)
	_, err = Detect(nil)
	require.ErrorAs(t, err, &unsupported)
	_, err = Detect([]byte("  \n\t"))
	require.ErrorAs(t, err, &unsupported)
}
