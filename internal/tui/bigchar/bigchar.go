// Package bigchar renders short strings (vote percentages) as large block
// art using half-block characters.
package bigchar

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// fontPaths lists bold sans fonts with digits, tried in order.
var fontPaths = []string{
	// macOS
	"/System/Library/Fonts/Helvetica.ttc",
	"/System/Library/Fonts/SFNSMono.ttf",
	"/Library/Fonts/Arial Bold.ttf",
	// Linux
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
	"/usr/share/fonts/opentype/noto/NotoSans-Bold.ttf",
	// Windows
	"C:\\Windows\\Fonts\\arialbd.ttf",
	"C:\\Windows\\Fonts\\segoeuib.ttf",
}

var (
	loadOnce   sync.Once
	loadedFace font.Face

	cacheMu sync.Mutex
	cache   = make(map[cacheKey]string)
)

type cacheKey struct {
	text       string
	cols, rows int
}

// face loads the first usable system font on first use.
func face() font.Face {
	loadOnce.Do(func() {
		for _, path := range fontPaths {
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			if f := parseFace(data); f != nil {
				loadedFace = f
				return
			}
		}
	})
	return loadedFace
}

func parseFace(data []byte) font.Face {
	opts := &opentype.FaceOptions{Size: 64, DPI: 72}

	// Try parsing as font collection first
	if coll, err := opentype.ParseCollection(data); err == nil && coll.NumFonts() > 0 {
		if fnt, err := coll.Font(0); err == nil {
			if f, err := opentype.NewFace(fnt, opts); err == nil {
				return f
			}
		}
	}

	if fnt, err := opentype.Parse(data); err == nil {
		if f, err := opentype.NewFace(fnt, opts); err == nil {
			return f
		}
	}
	return nil
}

// SetFace overrides the font used for rendering. A nil face disables big
// text.
func SetFace(f font.Face) {
	face()
	loadedFace = f
	cacheMu.Lock()
	cache = make(map[cacheKey]string)
	cacheMu.Unlock()
}

// IsAvailable returns true if a usable font was found.
func IsAvailable() bool {
	return face() != nil
}

// Render draws text into cols x rows terminal cells. It returns "" when no
// font is available.
func Render(text string, cols, rows int) string {
	f := face()
	if text == "" || f == nil || cols <= 0 || rows <= 0 {
		return ""
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	key := cacheKey{text, cols, rows}
	if cached, ok := cache[key]; ok {
		return cached
	}

	bounds, _ := font.BoundString(f, text)
	textWidth := (bounds.Max.X - bounds.Min.X).Ceil()
	textHeight := (bounds.Max.Y - bounds.Min.Y).Ceil()

	const padding = 4
	srcWidth := max(textWidth+padding*2, 64)
	srcHeight := max(textHeight+padding*2, 64)

	src := image.NewGray(image.Rect(0, 0, srcWidth, srcHeight))
	draw.Draw(src, src.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  src,
		Src:  image.White,
		Face: f,
		Dot:  fixed.P((srcWidth-textWidth)/2-bounds.Min.X.Floor(), (srcHeight-textHeight)/2-bounds.Min.Y.Floor()),
	}
	d.DrawString(text)

	// Two vertical pixels per cell
	out := halfBlocks(scaleDown(src, cols, rows*2), cols, rows)
	cache[key] = out
	return out
}

// scaleDown scales a grayscale image using area averaging.
func scaleDown(src *image.Gray, dstWidth, dstHeight int) *image.Gray {
	sw, sh := src.Bounds().Max.X, src.Bounds().Max.Y
	dst := image.NewGray(image.Rect(0, 0, dstWidth, dstHeight))

	xRatio := float64(sw) / float64(dstWidth)
	yRatio := float64(sh) / float64(dstHeight)

	for dy := 0; dy < dstHeight; dy++ {
		for dx := 0; dx < dstWidth; dx++ {
			x1, y1 := int(float64(dx)*xRatio), int(float64(dy)*yRatio)
			x2, y2 := min(int(float64(dx+1)*xRatio), sw), min(int(float64(dy+1)*yRatio), sh)

			var sum, count int
			for y := y1; y < y2; y++ {
				for x := x1; x < x2; x++ {
					sum += int(src.GrayAt(x, y).Y)
					count++
				}
			}
			if count > 0 {
				dst.SetGray(dx, dy, color.Gray{Y: uint8(sum / count)})
			}
		}
	}
	return dst
}

// halfBlocks converts a grayscale image to ▀▄█ art.
func halfBlocks(img *image.Gray, cols, rows int) string {
	const threshold = 40

	lit := func(x, y int) bool {
		b := img.Bounds().Max
		if x < 0 || y < 0 || x >= b.X || y >= b.Y {
			return false
		}
		return img.GrayAt(x, y).Y > threshold
	}

	var sb strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top, bottom := lit(col, row*2), lit(col, row*2+1)
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		if row < rows-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}
