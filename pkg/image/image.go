// pkg/image/image.go

package image

import (
	"bytes"
	"fmt"
	"iter"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// DefaultWordSize is the word size in bits used by most targets.
const DefaultWordSize = 8

// HeaderCodec selects how the optional image header is interpreted as text.
type HeaderCodec int

const (
	// HeaderCodecNone keeps the header as raw bytes.
	HeaderCodecNone HeaderCodec = iota
	// HeaderCodecUTF8 decodes the header as UTF-8 text.
	HeaderCodecUTF8
)

// Image is the façade over one segment store. All addresses at this layer
// are in word units and scaled by the word size at the boundary; the store
// itself is byte-addressed.
type Image struct {
	wordSize      int
	wordSizeBytes uint64
	store         *SegmentStore

	header      []byte
	headerCodec HeaderCodec

	executionStart    uint64
	hasExecutionStart bool
}

// New creates an empty image. The word size is in bits and must be a
// positive multiple of 8.
func New(wordSize int) (*Image, error) {
	if wordSize <= 0 || wordSize%8 != 0 {
		return nil, &RangeError{
			Msg: fmt.Sprintf("word size must be a positive multiple of 8 bits, got %d", wordSize),
		}
	}
	return &Image{
		wordSize:      wordSize,
		wordSizeBytes: uint64(wordSize / 8),
		store:         NewSegmentStore(),
		headerCodec:   HeaderCodecUTF8,
	}, nil
}

// WordSize returns the word size in bits.
func (img *Image) WordSize() int { return img.wordSize }

// WordSizeBytes returns the word size in bytes.
func (img *Image) WordSizeBytes() uint64 { return img.wordSizeBytes }

// Store returns the owned segment store. Addresses at this level are bytes.
func (img *Image) Store() *SegmentStore { return img.store }

// SetHeaderCodec selects the text codec used by SetHeader and Header.
func (img *Image) SetHeaderCodec(codec HeaderCodec) { img.headerCodec = codec }

// SetHeaderBytes sets the header to raw bytes.
func (img *Image) SetHeaderBytes(header []byte) {
	img.header = append([]byte(nil), header...)
}

// HeaderBytes returns the raw header bytes, or false if no header is set.
func (img *Image) HeaderBytes() ([]byte, bool) {
	if img.header == nil {
		return nil, false
	}
	return img.header, true
}

// SetHeader encodes text with the configured codec and sets the header.
func (img *Image) SetHeader(header string) error {
	if img.headerCodec == HeaderCodecNone {
		return errors.New("header codec is none, use SetHeaderBytes")
	}
	img.header = []byte(header)
	return nil
}

// Header decodes the header with the configured codec.
func (img *Image) Header() (string, error) {
	if img.header == nil {
		return "", errors.New("no header")
	}
	if img.headerCodec == HeaderCodecNone {
		return "", errors.New("header codec is none, use HeaderBytes")
	}
	if !utf8.Valid(img.header) {
		return "", errors.New("header is not valid UTF-8")
	}
	return string(img.header), nil
}

// SetExecutionStartAddress sets the program entry point in word units.
func (img *Image) SetExecutionStartAddress(address uint64) {
	img.executionStart = address
	img.hasExecutionStart = true
}

// ExecutionStartAddress returns the program entry point, or false if none
// has been set.
func (img *Image) ExecutionStartAddress() (uint64, bool) {
	return img.executionStart, img.hasExecutionStart
}

// MinimumAddress returns the word address of the first stored byte.
func (img *Image) MinimumAddress() (uint64, error) {
	minimum, err := img.store.MinimumAddress()
	if err != nil {
		return 0, err
	}
	return minimum / img.wordSizeBytes, nil
}

// MaximumAddress returns the word address one past the last stored byte.
func (img *Image) MaximumAddress() (uint64, error) {
	maximum, err := img.store.MaximumAddress()
	if err != nil {
		return 0, err
	}
	return maximum / img.wordSizeBytes, nil
}

// AddBinary adds data at the given word address. Overlap with stored data
// is an AddDataError unless overwrite is set.
func (img *Image) AddBinary(data []byte, address uint64, overwrite bool) error {
	return img.store.Add(NewSegment(address*img.wordSizeBytes, append([]byte(nil), data...)), overwrite)
}

// Chunks iterates (byte address, data) pairs of at most size bytes, with
// every chunk but a segment's first starting on a multiple of alignment.
func (img *Image) Chunks(size, alignment uint64) (iter.Seq2[uint64, []byte], error) {
	return img.store.Chunks(size, alignment)
}

// padWord returns the padding pattern for one word.
func (img *Image) padWord(padding []byte) ([]byte, error) {
	if padding == nil {
		return bytes.Repeat([]byte{0xff}, int(img.wordSizeBytes)), nil
	}
	if uint64(len(padding)) != img.wordSizeBytes {
		return nil, &RangeError{
			Msg: fmt.Sprintf("padding must be %d bytes, got %d", img.wordSizeBytes, len(padding)),
		}
	}
	return padding, nil
}

// AsBinary linearizes the whole store, filling gaps with padding repeated
// per word. A nil padding means all-0xFF words. An empty store yields an
// empty buffer.
func (img *Image) AsBinary(padding []byte) ([]byte, error) {
	if img.store.Len() == 0 {
		return nil, nil
	}
	minimum, _ := img.store.MinimumAddress()
	maximum, _ := img.store.MaximumAddress()
	w := img.wordSizeBytes
	return img.asBinaryBytes(minimum/w*w, (maximum+w-1)/w*w, padding)
}

// AsBinaryRange linearizes the store over the word window [minimum,
// maximum), trimming data outside it and filling gaps with padding. An
// empty or inverted window yields an empty buffer.
func (img *Image) AsBinaryRange(minimum, maximum uint64, padding []byte) ([]byte, error) {
	if maximum <= minimum {
		return nil, nil
	}
	return img.asBinaryBytes(minimum*img.wordSizeBytes, maximum*img.wordSizeBytes, padding)
}

func (img *Image) asBinaryBytes(minimum, maximum uint64, padding []byte) ([]byte, error) {
	word, err := img.padWord(padding)
	if err != nil {
		return nil, err
	}
	buf := bytes.Repeat(word, int((maximum-minimum)/img.wordSizeBytes))
	for _, s := range img.store.Segments() {
		lo := max(s.minimum, minimum)
		hi := min(s.maximum, maximum)
		if lo >= hi {
			continue
		}
		copy(buf[lo-minimum:hi-minimum], s.data[lo-s.minimum:hi-s.minimum])
	}
	return buf, nil
}

// Fill inserts filler words into every gap between stored segments no
// larger than maxWords words, or every gap if maxWords is zero. A nil
// value means all-0xFF words.
func (img *Image) Fill(value []byte, maxWords uint64) error {
	word, err := img.padWord(value)
	if err != nil {
		return err
	}
	segments := img.store.Segments()
	for i := 0; i+1 < len(segments); i++ {
		gapMin := segments[i].maximum
		gapMax := segments[i+1].minimum
		gap := gapMax - gapMin
		if maxWords != 0 && gap > maxWords*img.wordSizeBytes {
			continue
		}
		filler := bytes.Repeat(word, int((gap+uint64(len(word))-1)/uint64(len(word))))[:gap]
		if err := img.store.Add(NewSegment(gapMin, filler), false); err != nil {
			return err
		}
	}
	return nil
}

// Exclude removes the word range [minimum, maximum).
func (img *Image) Exclude(minimum, maximum uint64) error {
	if maximum < minimum {
		return &RangeError{
			Msg: fmt.Sprintf("bad exclude range [%#x .. %#x): maximum is less than minimum", minimum, maximum),
		}
	}
	img.store.Remove(minimum*img.wordSizeBytes, maximum*img.wordSizeBytes)
	return nil
}

// Crop keeps only the word range [minimum, maximum) by excluding the two
// complementary ranges.
func (img *Image) Crop(minimum, maximum uint64) error {
	if maximum < minimum {
		return &RangeError{
			Msg: fmt.Sprintf("bad crop range [%#x .. %#x): maximum is less than minimum", minimum, maximum),
		}
	}
	storeMax, err := img.store.MaximumAddress()
	if err != nil {
		return nil // nothing to crop
	}
	img.store.Remove(0, minimum*img.wordSizeBytes)
	img.store.Remove(maximum*img.wordSizeBytes, storeMax)
	return nil
}

func (img *Image) String() string {
	return img.store.String()
}
