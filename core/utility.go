package core

import (
	"image"
	"image/draw"
)

// GetPixels transforms a given image into right arrangement of pixels
// by drawing the decoded image onto a controlled RGBA canvas. The row
// pitch is applied only when it can hold a full row.
func GetPixels(img image.Image, rowPitch int) []uint8 {
	bounds := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	if rowPitch >= 4*bounds.Dx() {
		canvas.Pix = make([]uint8, rowPitch*bounds.Dy())
		canvas.Stride = rowPitch
	}
	draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, draw.Src)
	return canvas.Pix
}
