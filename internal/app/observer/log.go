package observer

import (
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podplayer/internal/app/player"
	"github.com/osa030/podplayer/internal/domain/timecode"
	"github.com/osa030/podplayer/internal/infra/logger"
)

// LogObserverConfig represents the configuration for LogObserver.
type LogObserverConfig struct {
	Level string `mapstructure:"level" default:"info" validate:"oneof=debug info warn"`
}

// LogObserver writes one log line per player event.
type LogObserver struct {
	level zerolog.Level
}

// NewLogObserver creates a log observer writing to the global logger.
func NewLogObserver(settings map[string]any) (*LogObserver, error) {
	var cfg LogObserverConfig
	if err := decodeSettings(settings, &cfg); err != nil {
		return nil, err
	}
	return &LogObserver{
		level: logger.ParseLevel(cfg.Level),
	}, nil
}

func (o *LogObserver) Name() string {
	return "log"
}

func (o *LogObserver) Observe(e player.Event) {
	s := e.State
	title := ""
	duration := timecode.Format(0)
	if ep, ok := s.CurrentEpisode(); ok {
		title = ep.Title
		duration = timecode.Format(ep.Duration)
	}

	zlog.WithLevel(o.level).Msgf("player %s: index=%d/%d playing=%v looping=%v shuffling=%v episode=%q duration=%s",
		e.Type, s.CurrentEpisodeIndex, len(s.EpisodeList), s.IsPlaying, s.IsLooping, s.IsShuffling, title, duration)
}

func init() {
	Register("log", "Logs every player operation with the resulting state", func(settings map[string]any) (Observer, error) {
		return NewLogObserver(settings)
	})
}
