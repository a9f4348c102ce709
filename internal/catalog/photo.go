package catalog

// Photo is a read-only record describing one photo in the library.
// The engine never interprets Location; it is an opaque reference the
// UI layer resolves to pixels.
type Photo struct {
	ID           string `json:"id"`
	Location     string `json:"location"`
	DateModified int64  `json:"date_modified"` // milliseconds since epoch
	Size         int64  `json:"size"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AlbumName    string `json:"album_name,omitempty"`
}

// AspectRatio returns width/height, defaulting to 1.0 when height is zero.
func (p Photo) AspectRatio() float64 {
	if p.Height <= 0 {
		return 1.0
	}
	return float64(p.Width) / float64(p.Height)
}
