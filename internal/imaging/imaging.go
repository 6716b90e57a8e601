// Package imaging validates and transcodes profile images.
//
// Uploads arrive as raw bytes (the handler has already base64-decoded
// them). Anything that survives validation is normalized to a 500x500 JPEG
// so the image endpoint always serves one predictable format regardless of
// what was uploaded.
//
// Every failure is surfaced to the caller as apperror.ErrImageProcessing —
// a bad image rejects the profile update instead of being silently dropped.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	// Side-effect imports: register the JPEG and PNG decoders with
	// image.Decode.
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/sakif/mentor-match/internal/apperror"
)

const (
	// MaxImageBytes caps the raw upload at 1 MiB.
	MaxImageBytes = 1 << 20

	// TargetSize is the side length of the stored square image.
	TargetSize = 500

	jpegQuality = 85
)

// Transcode validates the uploaded bytes and returns a 500x500 JPEG.
//
// Rules (in order): at most 1 MiB raw, must decode as JPEG or PNG, then
// rescaled to 500x500 and re-encoded at quality 85. The scaler is
// Catmull-Rom — the slowest of x/image's kernels, but profile uploads are
// rare and it gives the cleanest downscale.
func Transcode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, apperror.ImageProcessing("image data is empty")
	}
	if len(data) > MaxImageBytes {
		return nil, apperror.ImageProcessing(
			fmt.Sprintf("image exceeds the %d byte limit", MaxImageBytes))
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperror.ImageProcessing("image could not be decoded")
	}
	if format != "jpeg" && format != "png" {
		return nil, apperror.ImageProcessing(
			fmt.Sprintf("unsupported image format %q (want jpeg or png)", format))
	}

	dst := image.NewRGBA(image.Rect(0, 0, TargetSize, TargetSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, apperror.ImageProcessing("image could not be re-encoded")
	}

	return out.Bytes(), nil
}
