package assets

import "strings"

// FontMIME maps a font file extension (with leading dot) to its MIME type.
// Unknown extensions fall back to application/octet-stream.
func FontMIME(ext string) string {
	switch strings.ToLower(ext) {
	case ".woff2":
		return "font/woff2"
	case ".woff":
		return "font/woff"
	case ".ttf":
		return "font/ttf"
	case ".otf":
		return "font/otf"
	case ".eot":
		return "application/vnd.ms-fontobject"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}
