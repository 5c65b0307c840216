package tmdb

import "strings"

const (
	imageBaseURL = "https://image.tmdb.org/t/p/"

	// PlaceholderImage is the local asset used when an item has no image.
	PlaceholderImage = "/placeholder.svg"

	// Common TMDb image size tokens.
	SizeOriginal = "original"
	PosterSize   = "w500"
	BackdropSize = "w1280"
)

// ImageURL returns the absolute URL for an image path at the given size.
// An empty path yields PlaceholderImage; an empty size means SizeOriginal.
func ImageURL(path, size string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return PlaceholderImage
	}
	size = strings.TrimSpace(size)
	if size == "" {
		size = SizeOriginal
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return imageBaseURL + size + path
}

// PosterURL returns the poster URL at the default card size.
func PosterURL(path string) string {
	return ImageURL(path, PosterSize)
}

// BackdropURL returns the backdrop URL at the default hero size.
func BackdropURL(path string) string {
	return ImageURL(path, BackdropSize)
}
