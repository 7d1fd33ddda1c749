package utils

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// PlaceholderFilename replaces names the multipart encoder cannot carry.
const PlaceholderFilename = "justfilename"

func init() {
	// Image extensions missing from Go's builtin table. Registering them
	// overrides the host's mime.types so guesses are the same everywhere.
	for ext, typ := range map[string]string{
		".bmp":  "image/bmp",
		".ico":  "image/vnd.microsoft.icon",
		".tif":  "image/tiff",
		".tiff": "image/tiff",
		".jpe":  "image/jpeg",
		".heic": "image/heic",
	} {
		_ = mime.AddExtensionType(ext, typ)
	}
}

// MediaTypeByFilename guesses the media type of a file from its extension,
// without parameters. It returns "" when the extension is unknown.
func MediaTypeByFilename(filename string) string {
	typ := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if typ == "" {
		return ""
	}
	return BaseMediaType(typ)
}

// BaseMediaType strips parameters such as charset from a Content-Type value.
func BaseMediaType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	}
	return mediaType
}

// IsImageType checks that the category before "/" is image.
func IsImageType(mediaType string) bool {
	category, _, ok := strings.Cut(mediaType, "/")
	return ok && strings.EqualFold(strings.TrimSpace(category), "image")
}

// LatinSafeFilename returns the base name when it can be represented in
// ISO-8859-1 and the placeholder otherwise.
func LatinSafeFilename(path string) string {
	name := filepath.Base(path)
	if _, err := charmap.ISO8859_1.NewEncoder().String(name); err != nil {
		return PlaceholderFilename
	}
	return name
}

// RemoteFilename names the i-th image of a URL batch.
func RemoteFilename(index int) string {
	return fmt.Sprintf("file-%d", index)
}

// ThumbnailFilename derives the thumbnail path for source, e.g.
// shots/a.png -> shots/a_320x180.png.
func ThumbnailFilename(source string, width, height int) string {
	ext := filepath.Ext(source)
	name := strings.TrimSuffix(source, ext)
	return fmt.Sprintf("%s_%dx%d%s", name, width, height, ext)
}
