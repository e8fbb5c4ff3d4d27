//go:build !test

package utils

import (
	"bytes"
	"image"
	"image/png"
	"os"

	"github.com/sqweek/dialog"
	"golang.design/x/clipboard"
)

// CopyImage places img on the system clipboard as a PNG.
func CopyImage(img image.Image) error {
	err := clipboard.Init()
	if err != nil {
		return err
	}

	// encode image to byte slice
	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		return err
	}

	clipboard.Write(clipboard.FmtImage, b.Bytes())

	return nil
}

// SaveImage asks the user where to save img, suggesting name, and
// writes it there as a PNG. ErrCancelled is returned if the user
// dismisses the dialog.
func SaveImage(img image.Image, name string) error {
	filename, err := dialog.File().Filter("PNG Image", "png").Title("Save Screenshot").SetStartFile(name).Save()
	if err == dialog.ErrCancelled {
		return ErrCancelled
	} else if err != nil {
		return err
	}

	file, err := os.Create(WithExt(filename, ".png"))
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}
