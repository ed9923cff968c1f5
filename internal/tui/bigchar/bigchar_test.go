package bigchar

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"golang.org/x/image/font/basicfont"
)

func TestHalfBlocks(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	img.SetGray(0, 0, color.Gray{Y: 255})
	img.SetGray(0, 1, color.Gray{Y: 255})
	img.SetGray(1, 0, color.Gray{Y: 255})
	img.SetGray(2, 1, color.Gray{Y: 255})

	if got := halfBlocks(img, 3, 1); got != "█▀▄" {
		t.Errorf("halfBlocks = %q", got)
	}
}

func TestScaleDownAverages(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 2; x++ {
			src.SetGray(x, y, color.Gray{Y: 200})
		}
	}
	dst := scaleDown(src, 2, 2)
	if dst.GrayAt(0, 0).Y != 200 || dst.GrayAt(1, 1).Y != 0 {
		t.Errorf("unexpected pixels %v %v", dst.GrayAt(0, 0), dst.GrayAt(1, 1))
	}
}

func TestRenderWithFace(t *testing.T) {
	SetFace(basicfont.Face7x13)
	defer SetFace(nil)

	// 64x32 cells map the 64x64 canvas one to one.
	out := Render("62%", 64, 32)
	lines := strings.Split(out, "\n")
	if len(lines) != 32 {
		t.Fatalf("expected 32 rows, got %d", len(lines))
	}
	if strings.TrimSpace(strings.ReplaceAll(out, "\n", "")) == "" {
		t.Error("rendered text is blank")
	}
}

func TestRenderWithoutFace(t *testing.T) {
	SetFace(nil)
	if Render("50%", 10, 3) != "" {
		t.Error("expected empty output without a font")
	}
	if IsAvailable() {
		t.Error("IsAvailable should be false")
	}
}
