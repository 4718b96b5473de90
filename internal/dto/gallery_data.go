package dto

// GalleryImage is one card in the gallery grid.
type GalleryImage struct {
	Name string
	URL  string
}

// GalleryData is everything the gallery page renders.
type GalleryData struct {
	Images []GalleryImage
	Log    string
}
