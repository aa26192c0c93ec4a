package domain

import "image"

// Frame is a raw in-memory frame as delivered by a camera source. It is owned
// exclusively by the capture call that produced it and is discarded once
// encoded; frames are never persisted directly.
type Frame struct {
	image image.Image
}

// NewFrame wraps a decoded bitmap into a Frame.
func NewFrame(img image.Image) *Frame {
	return &Frame{image: img}
}

// Image returns the underlying bitmap.
func (f *Frame) Image() image.Image {
	return f.image
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int {
	return f.image.Bounds().Dx()
}

// Height returns the frame height in pixels.
func (f *Frame) Height() int {
	return f.image.Bounds().Dy()
}
