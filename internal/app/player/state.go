// Package player holds the shared podcast playback state.
package player

import "github.com/osa030/podplayer/internal/domain/episode"

// Snapshot is a point-in-time copy of the playback state, including the
// derived navigation flags. It is safe to keep after the manager changes.
type Snapshot struct {
	EpisodeList         []episode.Episode
	CurrentEpisodeIndex int
	IsPlaying           bool
	IsLooping           bool
	IsShuffling         bool
	HasPrevious         bool
	HasNext             bool
}

// CurrentEpisode returns the episode at CurrentEpisodeIndex.
// The index is meaningless for an empty list and is not range-checked by
// PlayList, so false is returned instead of panicking in either case.
func (s Snapshot) CurrentEpisode() (episode.Episode, bool) {
	if s.CurrentEpisodeIndex < 0 || s.CurrentEpisodeIndex >= len(s.EpisodeList) {
		return episode.Episode{}, false
	}
	return s.EpisodeList[s.CurrentEpisodeIndex], true
}

// IsEmpty returns true if no episodes are loaded.
func (s Snapshot) IsEmpty() bool {
	return len(s.EpisodeList) == 0
}

func hasPrevious(index int) bool {
	return index > 0
}

func hasNext(index, length int, shuffling bool) bool {
	return shuffling || index+1 < length
}
