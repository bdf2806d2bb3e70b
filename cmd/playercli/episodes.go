package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	playerv1 "github.com/osa030/podplayer/internal/api/playerv1"
	"github.com/osa030/podplayer/internal/domain/episode"
)

// episodeFile is the YAML layout accepted by the play and playlist commands:
//
//	episodes:
//	  - title: "Pilot"
//	    members: "Ana, Bo"
//	    thumbnail: "https://example.com/pilot.png"
//	    duration: 3600
//	    url: "https://example.com/pilot.mp3"
type episodeFile struct {
	Episodes []episode.Episode `yaml:"episodes"`
}

// loadEpisodes reads episodes from a YAML file.
func loadEpisodes(path string) ([]*playerv1.Episode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read episode file")
	}
	return parseEpisodes(data)
}

func parseEpisodes(data []byte) ([]*playerv1.Episode, error) {
	var f episodeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "failed to parse episode file")
	}
	if len(f.Episodes) == 0 {
		return nil, errors.New("episode file contains no episodes")
	}

	result := make([]*playerv1.Episode, len(f.Episodes))
	for i, ep := range f.Episodes {
		result[i] = &playerv1.Episode{
			Title:     ep.Title,
			Members:   ep.Members,
			Thumbnail: ep.Thumbnail,
			Duration:  ep.Duration,
			URL:       ep.URL,
		}
	}
	return result, nil
}
