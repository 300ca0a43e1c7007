package handler

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/gift"
)

const (
	maxDimension = 2048
	jpegQuality  = 90
)

// downscale bounds very large uploads before they hit the media store.
// Anything that fails to decode, or already fits, passes through
// untouched; this is best-effort compression, not validation.
func downscale(data []byte) []byte {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}

	bounds := img.Bounds()
	if bounds.Dx() <= maxDimension && bounds.Dy() <= maxDimension {
		return data
	}

	g := gift.New(gift.ResizeToFit(maxDimension, maxDimension, gift.LanczosResampling))
	dst := image.NewRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return data
	}
	return buf.Bytes()
}
