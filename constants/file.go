package constants

import (
	"path/filepath"
	"strings"
)

// Format is the declared kind of an uploaded document.
type Format string

// Stable values; the zero value means "undeclared".
const (
	IMAGE Format = "IMAGE"
	PDF   Format = "PDF"
	DOCX  Format = "DOCX"
)

// Formats lists every supported format in dispatch order.
var Formats = []Format{IMAGE, PDF, DOCX}

// AllowedExtensions maps accepted upload extensions to their format.
var AllowedExtensions = map[string]Format{
	"png":  IMAGE,
	"jpg":  IMAGE,
	"jpeg": IMAGE,
	"pdf":  PDF,
	"docx": DOCX,
}

// MaxUploadBytes caps a single upload (10 MB).
const MaxUploadBytes int64 = 10 << 20

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	switch f {
	case IMAGE, PDF, DOCX:
		return true
	}
	return false
}

func (f Format) String() string { return string(f) }

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns the format for an extension, or "" when unsupported.
func MapExtToFormat(ext string) Format {
	return AllowedExtensions[NormalizeExt(ext)]
}

// FormatFromFilename infers the format from a file name's extension.
func FormatFromFilename(name string) Format {
	return MapExtToFormat(filepath.Ext(name))
}

// ParseFormat accepts "image", "pdf" or "docx" in any case, or a bare extension.
func ParseFormat(s string) Format {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if f := Format(strings.ToUpper(s)); f.Valid() {
		return f
	}
	return MapExtToFormat(s)
}

// FormatFromMIME maps a media type to a supported format, or "" when it is
// not one we extract from.
func FormatFromMIME(mime string) Format {
	mt := strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch mt {
	case "image/png", "image/jpeg", "image/jpg":
		return IMAGE
	case "application/pdf":
		return PDF
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return DOCX
	}
	return ""
}
