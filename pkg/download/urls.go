package download

import "strings"

// sizeSuffixes are the image size modifiers Twitter appends to media URLs,
// checked in priority order.
var sizeSuffixes = []string{":large", ":medium", ":small", ":thumb"}

// FullQualityURL derives the original-quality URL for an image by removing
// the query string and a trailing size suffix.
func FullQualityURL(rawURL string) string {
	cleaned := stripQuery(rawURL)

	for _, suffix := range sizeSuffixes {
		if strings.HasSuffix(cleaned, suffix) {
			return strings.TrimSuffix(cleaned, suffix)
		}
	}

	return cleaned
}

// FilenameFromURL extracts a local filename from an image URL. The query
// string is dropped, the last path segment is taken, and a trailing size
// suffix is removed unless stripping it would leave the name without an
// extension.
func FilenameFromURL(rawURL string) string {
	path := stripQuery(rawURL)

	filename := path
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		filename = path[idx+1:]
	}

	for _, suffix := range sizeSuffixes {
		if strings.HasSuffix(filename, suffix) {
			namePart := strings.TrimSuffix(filename, suffix)
			if strings.Contains(namePart, ".") {
				filename = namePart
			}
			break
		}
	}

	return filename
}

func stripQuery(rawURL string) string {
	if idx := strings.Index(rawURL, "?"); idx >= 0 {
		return rawURL[:idx]
	}
	return rawURL
}
