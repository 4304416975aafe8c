package images

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
)

const jpegQuality = 90

// Encode writes image in the format selected by file name extension.
func Encode(w io.Writer, img image.Image, name string) error {
	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		return fmt.Errorf("unable to select image format for '%s': %w", name, err)
	}

	switch format {
	case imaging.PNG:
		err = imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	case imaging.JPEG:
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	default:
		err = imaging.Encode(w, img, format)
	}
	if err != nil {
		return fmt.Errorf("unable to encode %s image: %w", format, err)
	}
	return nil
}

// Save writes image to file, format is selected by extension.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path, imaging.PNGCompressionLevel(png.BestCompression), imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("unable to save image '%s': %w", path, err)
	}
	return nil
}
