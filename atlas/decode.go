package atlas

import (
	"image"
	"io"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// Decoder is the raster-image-library collaborator (SPEC_FULL.md §6.1),
// reduced to the one verb Generate needs: turn a file into a decoded image.
// The default registers the formats spec.md §6.2's extension allowlist
// implies (png, jpg, jpeg, gif, bmp).
type Decoder interface {
	Decode(path string) (image.Image, error)
}

// StdDecoder decodes with the standard library's image.Decode plus
// golang.org/x/image/bmp (already part of the teacher's dependency
// footprint) registered alongside the stdlib codecs.
type StdDecoder struct{}

func (StdDecoder) Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeReader(f)
}

func decodeReader(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	return img, err
}
