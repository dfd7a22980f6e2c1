package mimes

import (
	"github.com/gabriel-vasile/mimetype"
)

// allowedImageMimes is the upload allow-list for survey photos. Types are
// matched against content-sniffed MIME, never the client-supplied header.
var allowedImageMimes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
	"image/heic": {},
	"image/heif": {},
	"image/bmp":  {},
	"image/tiff": {},
}

// DetectImage sniffs the MIME type from file content and reports whether it
// is an accepted image format.
func DetectImage(content []byte) (mime string, ok bool) {
	mt := mimetype.Detect(content)
	base := mt.String()
	// Strip charset and other parameters.
	for parent := mt; parent != nil; parent = parent.Parent() {
		if _, found := allowedImageMimes[parent.String()]; found {
			return parent.String(), true
		}
	}
	return base, false
}
