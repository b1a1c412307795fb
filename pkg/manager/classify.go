package manager

import (
	"bytes"

	"github.com/gabriel-vasile/mimetype"
)

var (
	pngSignature  = []byte{0x89, 0x50, 0x4E, 0x47}
	jpegSignature = []byte{0xFF, 0xD8, 0xFF}
	gifSignature  = []byte{0x47, 0x49, 0x46}
)

// looksLikeImage reports whether b opens with one of the three magic-byte
// signatures spec §4.6 names (PNG/JPEG/GIF), falling back to
// gabriel-vasile/mimetype's broader signature table for anything else so a
// webp/bmp/tiff payload is still recognized as an image rather than
// misfiled as an opaque FileRef.
func looksLikeImage(b []byte) bool {
	switch {
	case bytes.HasPrefix(b, pngSignature):
		return true
	case bytes.HasPrefix(b, jpegSignature):
		return true
	case bytes.HasPrefix(b, gifSignature):
		return true
	}

	mt := mimetype.Detect(b)
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("image/png") || m.Is("image/jpeg") || m.Is("image/gif") ||
			m.Is("image/webp") || m.Is("image/bmp") || m.Is("image/tiff") {
			return true
		}
	}
	return false
}
