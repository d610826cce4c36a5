// Package images re-encodes uploaded images into a canonical format before
// they are persisted, so the render endpoint always serves one content type.
package images

import (
	"bytes"
	"image"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"
)

// ContentType is the MIME type of every stored image payload.
const ContentType = "image/png"

// Normalize decodes any supported image format and re-encodes it as PNG.
func Normalize(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
