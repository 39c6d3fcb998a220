package domain

import "fmt"

// SearchType is the kind of catalog entry a search targets.
type SearchType string

const (
	SearchTrack    SearchType = "track"
	SearchAlbum    SearchType = "album"
	SearchPlaylist SearchType = "playlist"
)

// ParseSearchType validates a raw type parameter.
func ParseSearchType(s string) (SearchType, error) {
	switch SearchType(s) {
	case SearchTrack, SearchAlbum, SearchPlaylist:
		return SearchType(s), nil
	}
	return "", fmt.Errorf("invalid search type %q: must be track, album or playlist", s)
}

// Item is a single catalog entry, reduced to what callers need.
type Item struct {
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SearchResult is the simplified result set for one search.
type SearchResult struct {
	Results []Item `json:"results"`
	Total   int    `json:"total"`
}
