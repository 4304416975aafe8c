package images

import "testing"

func TestRasterizeSVGToImage(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><rect width="100" height="50"/></svg>`)

	t.Run("intrinsic", func(t *testing.T) {
		img, err := RasterizeSVGToImage(svg, 0, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 50 {
			t.Fatalf("unexpected bounds: %v", img.Bounds())
		}
	})

	t.Run("scale_by_width", func(t *testing.T) {
		img, err := RasterizeSVGToImage(svg, 200, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 100 {
			t.Fatalf("unexpected bounds: %v", img.Bounds())
		}
	})

	t.Run("scale_by_height", func(t *testing.T) {
		img, err := RasterizeSVGToImage(svg, 0, 200)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 200 {
			t.Fatalf("unexpected bounds: %v", img.Bounds())
		}
	})

	t.Run("fit_box", func(t *testing.T) {
		img, err := RasterizeSVGToImage(svg, 150, 150)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if img.Bounds().Dx() != 150 || img.Bounds().Dy() != 75 {
			t.Fatalf("unexpected bounds: %v", img.Bounds())
		}
	})
}

func TestFit(t *testing.T) {
	tests := []struct {
		name                           string
		intrW, intrH, targetW, targetH int
		wantW, wantH                   int
	}{
		{"no_viewbox", 0, 0, 0, 0, defaultSVGSize, defaultSVGSize},
		{"tiny", 1, 1000, 1, 0, 1, 1000},
		{"clamped", 100000, 50000, 0, 0, maxRasterDim, maxRasterDim / 2},
		{"exact", 400, 300, 400, 300, 400, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := fit(tt.intrW, tt.intrH, tt.targetW, tt.targetH)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("fit() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRasterizeSVGToImage_Invalid(t *testing.T) {
	if _, err := RasterizeSVGToImage([]byte(`<svg xmlns="http://www.w3.org/2000/svg"><rect`), 10, 10); err == nil {
		t.Error("expected error for broken svg")
	}
}
