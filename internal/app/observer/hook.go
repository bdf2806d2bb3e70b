package observer

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podplayer/internal/app/player"
	"github.com/osa030/podplayer/internal/domain/timecode"
)

// HookObserverConfig represents the configuration for HookObserver.
type HookObserverConfig struct {
	Command   string   `mapstructure:"command" validate:"required"`
	Events    []string `mapstructure:"events"` // empty = all events
	TimeoutMs int      `mapstructure:"timeout_ms" default:"5000" validate:"gte=1,lte=60000"`
}

// commandRunner runs a shell command with extra environment variables.
type commandRunner func(ctx context.Context, command string, env []string) error

// HookObserver runs a shell command for selected player events.
// Commands run in the background; failures are logged and otherwise ignored.
type HookObserver struct {
	command string
	events  map[player.EventType]bool
	timeout time.Duration
	run     commandRunner
	wg      sync.WaitGroup
}

// NewHookObserver creates a new hook observer.
func NewHookObserver(settings map[string]any) (*HookObserver, error) {
	var cfg HookObserverConfig
	if err := decodeSettings(settings, &cfg); err != nil {
		return nil, err
	}

	events := make(map[player.EventType]bool, len(cfg.Events))
	for _, name := range cfg.Events {
		t, ok := player.ParseEventType(name)
		if !ok {
			return nil, errors.Newf("unknown event: %s", name)
		}
		events[t] = true
	}

	return &HookObserver{
		command: cfg.Command,
		events:  events,
		timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
		run:     shellRunner,
	}, nil
}

func (o *HookObserver) Name() string {
	return "hook"
}

// Matches returns true if the hook fires for the event type.
func (o *HookObserver) Matches(t player.EventType) bool {
	return len(o.events) == 0 || o.events[t]
}

func (o *HookObserver) Observe(e player.Event) {
	if !o.Matches(e.Type) {
		return
	}

	env := hookEnv(e)
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
		defer cancel()

		zlog.Debug().Msgf("hook: executing: event=%s command=%s", e.Type, o.command)
		if err := o.run(ctx, o.command, env); err != nil {
			zlog.Error().Err(err).Msgf("hook: failed: event=%s command=%s", e.Type, o.command)
		}
	}()
}

// Close waits for running commands.
func (o *HookObserver) Close() {
	o.wg.Wait()
}

// hookEnv describes the post-operation state as PODPLAYER_* variables.
func hookEnv(e player.Event) []string {
	s := e.State
	ep, _ := s.CurrentEpisode()
	return []string{
		"PODPLAYER_EVENT=" + e.Type.String(),
		"PODPLAYER_INDEX=" + strconv.Itoa(s.CurrentEpisodeIndex),
		"PODPLAYER_PLAYING=" + strconv.FormatBool(s.IsPlaying),
		"PODPLAYER_LOOPING=" + strconv.FormatBool(s.IsLooping),
		"PODPLAYER_SHUFFLING=" + strconv.FormatBool(s.IsShuffling),
		"PODPLAYER_TITLE=" + ep.Title,
		"PODPLAYER_URL=" + ep.URL,
		"PODPLAYER_DURATION=" + timecode.Format(ep.Duration),
	}
}

func shellRunner(ctx context.Context, command string, env []string) error {
	// Use sh -c to allow shell features like redirection or pipes
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func init() {
	Register("hook", "Runs a shell command on selected player operations", func(settings map[string]any) (Observer, error) {
		return NewHookObserver(settings)
	})
}
