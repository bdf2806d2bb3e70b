package connect

import (
	playerv1 "github.com/osa030/podplayer/internal/api/playerv1"
	"github.com/osa030/podplayer/internal/app/player"
	"github.com/osa030/podplayer/internal/domain/episode"
	"github.com/osa030/podplayer/internal/domain/timecode"
)

// toWireEpisode converts a domain episode, adding its duration label.
func toWireEpisode(ep episode.Episode) *playerv1.Episode {
	return &playerv1.Episode{
		Title:        ep.Title,
		Members:      ep.Members,
		Thumbnail:    ep.Thumbnail,
		Duration:     ep.Duration,
		URL:          ep.URL,
		DurationText: timecode.Format(ep.Duration),
	}
}

// fromWireEpisode converts a wire episode. DurationText is ignored.
func fromWireEpisode(ep *playerv1.Episode) episode.Episode {
	return episode.Episode{
		Title:     ep.Title,
		Members:   ep.Members,
		Thumbnail: ep.Thumbnail,
		Duration:  ep.Duration,
		URL:       ep.URL,
	}
}

// toPlayerState converts a snapshot into the published read contract.
func toPlayerState(s player.Snapshot) *playerv1.PlayerState {
	list := make([]*playerv1.Episode, len(s.EpisodeList))
	for i, ep := range s.EpisodeList {
		list[i] = toWireEpisode(ep)
	}

	state := &playerv1.PlayerState{
		EpisodeList:         list,
		CurrentEpisodeIndex: s.CurrentEpisodeIndex,
		IsPlaying:           s.IsPlaying,
		IsLooping:           s.IsLooping,
		IsShuffling:         s.IsShuffling,
		HasPrevious:         s.HasPrevious,
		HasNext:             s.HasNext,
		TotalDurationText:   timecode.Format(episode.TotalDuration(s.EpisodeList)),
	}
	if _, ok := s.CurrentEpisode(); ok {
		state.CurrentEpisode = list[s.CurrentEpisodeIndex]
	}
	return state
}
