package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/sakif/mentor-match/internal/apperror"
)

// testImage returns a gradient image so re-encoding has something to chew
// on beyond a flat color.
func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestTranscode_NormalizesToSquareJPEG(t *testing.T) {
	cases := map[string][]byte{
		"png upload":            encodePNG(t, testImage(64, 48)),
		"jpeg upload":           encodeJPEG(t, testImage(640, 480)),
		"upscaled tiny upload":  encodePNG(t, testImage(10, 10)),
		"already square upload": encodeJPEG(t, testImage(500, 500)),
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := Transcode(data)
			if err != nil {
				t.Fatalf("Transcode() error = %v", err)
			}

			decoded, format, err := image.Decode(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("output does not decode: %v", err)
			}
			if format != "jpeg" {
				t.Errorf("output format = %q, want jpeg", format)
			}
			bounds := decoded.Bounds()
			if bounds.Dx() != TargetSize || bounds.Dy() != TargetSize {
				t.Errorf("output is %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), TargetSize, TargetSize)
			}
		})
	}
}

func TestTranscode_Rejections(t *testing.T) {
	cases := map[string][]byte{
		"empty input":     nil,
		"over size cap":   make([]byte, MaxImageBytes+1),
		"not an image":    []byte("this is just text"),
		"truncated image": encodePNG(t, testImage(32, 32))[:20],
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := Transcode(data)
			if !errors.Is(err, apperror.ErrImageProcessing) {
				t.Fatalf("Transcode() = %v, want ErrImageProcessing", err)
			}
			if out != nil {
				t.Error("Transcode() returned bytes alongside an error")
			}
		})
	}
}
