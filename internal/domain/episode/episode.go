// Package episode provides the Episode domain entity.
package episode

// Episode represents a single playable podcast episode.
// Values are supplied by the episode-data source and treated as read-only.
type Episode struct {
	Title     string `json:"title" yaml:"title"`         // Episode title
	Members   string `json:"members" yaml:"members"`     // Participant names (display text)
	Thumbnail string `json:"thumbnail" yaml:"thumbnail"` // Image URL
	Duration  int    `json:"duration" yaml:"duration"`   // Duration in seconds
	URL       string `json:"url" yaml:"url"`             // Audio source URL
}

// TotalDuration returns the summed duration of all episodes in seconds.
func TotalDuration(episodes []Episode) int {
	var total int
	for _, e := range episodes {
		total += e.Duration
	}
	return total
}

// Clone returns a copy of the episode list that shares no backing array with the input.
// A nil input yields an empty, non-nil list.
func Clone(episodes []Episode) []Episode {
	result := make([]Episode, len(episodes))
	copy(result, episodes)
	return result
}
