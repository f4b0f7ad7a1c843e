package quantize

import (
	"image"
	"image/color"
	"testing"
)

func TestQuantizeReturnsAtMostRequestedColors(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 100, A: 255})
		}
	}

	out, err := MedianCut{}.Quantize(img, 4)
	if err != nil {
		t.Fatalf("Quantize error: %v", err)
	}
	if len(out) == 0 || len(out) > 4 {
		t.Fatalf("Quantize returned %d colors, want 1-4", len(out))
	}
}

func TestQuantizeSingleColorImageReturnsOne(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 50, G: 60, B: 70, A: 255})
		}
	}

	out, err := MedianCut{}.Quantize(img, 8)
	if err != nil {
		t.Fatalf("Quantize error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("Quantize(uniform image, 8) returned %d colors, want 1", len(out))
	}
	if out[0].R != 50 || out[0].G != 60 || out[0].B != 70 {
		t.Errorf("Quantize(uniform image) = %v, want {50 60 70}", out[0])
	}
}

func TestQuantizeRejectsInvalidCount(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if _, err := (MedianCut{}).Quantize(img, 0); err == nil {
		t.Error("expected error for n=0")
	}
}
