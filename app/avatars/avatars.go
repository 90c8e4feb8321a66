package avatars

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// MaxSize is the default upper bound on an uploaded avatar, in bytes.
const MaxSize = 2 << 20

var (
	ErrNotImage = errors.New("avatar is not an image")
	ErrTooLarge = errors.New("avatar is too large")
	ErrEmpty    = errors.New("avatar is empty")
)

// Encoder turns uploaded image bytes into data-URIs usable as an avatar
// reference.
type Encoder struct {
	MaxSize int64
}

// NewEncoder returns an Encoder accepting images up to maxSize bytes. A
// non-positive maxSize selects MaxSize.
func NewEncoder(maxSize int64) *Encoder {
	if maxSize <= 0 {
		maxSize = MaxSize
	}
	return &Encoder{MaxSize: maxSize}
}

// DataURI validates data as an image and returns it as a base64 data-URI.
func (e *Encoder) DataURI(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if int64(len(data)) > e.MaxSize {
		return "", fmt.Errorf("%w: %s exceeds %s", ErrTooLarge,
			humanize.IBytes(uint64(len(data))), humanize.IBytes(uint64(e.MaxSize)))
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mtype.String())
	}

	return "data:" + mtype.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// FromReader reads at most MaxSize+1 bytes from r and encodes them.
func (e *Encoder) FromReader(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, e.MaxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read avatar: %w", err)
	}
	return e.DataURI(data)
}

// FromFile encodes the image file at path.
func (e *Encoder) FromFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open avatar: %w", err)
	}
	defer f.Close()
	return e.FromReader(f)
}

// IsDataURI reports whether ref is an embedded data-URI rather than a path
// or URL.
func IsDataURI(ref string) bool {
	return strings.HasPrefix(ref, "data:")
}
