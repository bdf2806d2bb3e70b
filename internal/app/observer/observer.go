// Package observer provides configurable listeners for player state changes.
package observer

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podplayer/internal/app/player"
	"github.com/osa030/podplayer/internal/infra/config"
)

// Observer reacts to player events.
type Observer interface {
	// Name returns the observer type (used in config).
	Name() string
	// Observe is called synchronously after every player operation.
	Observe(e player.Event)
}

// Closer is implemented by observers holding background work.
type Closer interface {
	// Close waits for background work to finish.
	Close()
}

// Factory creates an observer from its settings map.
type Factory func(settings map[string]any) (Observer, error)

// Registration describes a registered observer type.
type Registration struct {
	Name        string
	Description string
	Factory     Factory
}

// registry holds registered observer types.
var registry = make(map[string]Registration)

// Register registers an observer type.
func Register(name, description string, factory Factory) {
	registry[name] = Registration{
		Name:        name,
		Description: description,
		Factory:     factory,
	}
}

// GetRegistered returns all registered observer types sorted by name.
func GetRegistered() []Registration {
	result := make([]Registration, 0, len(registry))
	for _, r := range registry {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// NewFromConfig creates observers from configuration, in order.
func NewFromConfig(cfgs []config.ObserverConfig) ([]Observer, error) {
	observers := make([]Observer, 0, len(cfgs))

	for i, ocfg := range cfgs {
		reg, ok := registry[ocfg.Type]
		if !ok {
			return nil, errors.Newf("unsupported observer type: %s (observer index %d)", ocfg.Type, i)
		}

		zlog.Debug().Msgf("creating observer: index=%d type=%s settings=%+v", i+1, ocfg.Type, ocfg.Settings)
		o, err := reg.Factory(ocfg.Settings)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create observer (index %d, type %s)", i, ocfg.Type)
		}

		observers = append(observers, o)
		zlog.Info().Msgf("registered observer: index=%d type=%s", i+1, ocfg.Type)
	}

	return observers, nil
}

// Attach subscribes the observers to the manager and returns a function
// that unsubscribes them all.
func Attach(m *player.Manager, observers ...Observer) func() {
	unsubscribes := make([]func(), 0, len(observers))
	for _, o := range observers {
		unsubscribes = append(unsubscribes, m.Subscribe(o.Observe))
	}
	return func() {
		for _, unsubscribe := range unsubscribes {
			unsubscribe()
		}
	}
}

// CloseAll closes every observer that implements Closer.
func CloseAll(observers []Observer) {
	for _, o := range observers {
		if c, ok := o.(Closer); ok {
			c.Close()
		}
	}
}

// decodeSettings decodes a settings map into out, then applies defaults and
// validation tags.
func decodeSettings(settings map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create decoder")
	}

	if err := decoder.Decode(settings); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}

	if err := defaults.Set(out); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}

	if err := validator.New().Struct(out); err != nil {
		return errors.Wrap(err, "validation failed")
	}

	return nil
}
