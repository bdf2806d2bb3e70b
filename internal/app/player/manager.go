package player

import (
	"math/rand/v2"
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/podplayer/internal/domain/episode"
)

// Option configures a Manager.
type Option func(*Manager)

// WithRandom sets the source used to pick shuffle indices.
// fn must return a value in [0, n) for n > 0.
func WithRandom(fn func(n int) int) Option {
	return func(m *Manager) {
		m.randIntN = fn
	}
}

// WithSeed makes shuffle selection deterministic.
func WithSeed(seed uint64) Option {
	r := rand.New(rand.NewPCG(seed, seed))
	// r is only used under m.mu.
	return WithRandom(r.IntN)
}

// Manager is the single source of truth for what is playing now.
// Reads are unrestricted; state changes only through the operations below.
// Every operation notifies subscribed listeners after the change.
type Manager struct {
	mu sync.RWMutex

	// Playback state
	episodeList         []episode.Episode
	currentEpisodeIndex int
	isPlaying           bool
	isLooping           bool
	isShuffling         bool

	randIntN func(n int) int

	// Serializes operations together with their notifications so listeners
	// observe events in operation order.
	dispatchMu sync.Mutex

	listenersMu    sync.RWMutex
	listeners      map[uint64]Listener
	nextListenerID uint64
}

// NewManager creates a manager with an empty playlist, index 0 and all flags off.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		episodeList: make([]episode.Episode, 0),
		randIntN:    rand.IntN,
		listeners:   make(map[uint64]Listener),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registers a listener and returns a function that removes it.
func (m *Manager) Subscribe(l Listener) func() {
	m.listenersMu.Lock()
	defer m.listenersMu.Unlock()

	id := m.nextListenerID
	m.nextListenerID++
	m.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			m.listenersMu.Lock()
			defer m.listenersMu.Unlock()
			delete(m.listeners, id)
		})
	}
}

// ListenerCount returns the number of registered listeners.
func (m *Manager) ListenerCount() int {
	m.listenersMu.RLock()
	defer m.listenersMu.RUnlock()
	return len(m.listeners)
}

// Play replaces the playlist with a single episode and starts playing it.
func (m *Manager) Play(ep episode.Episode) {
	m.apply(EventPlay, func() {
		m.episodeList = []episode.Episode{ep}
		m.currentEpisodeIndex = 0
		m.isPlaying = true
	})
}

// PlayList replaces the playlist and starts playing at index.
// index is expected to be in [0, len(episodes)); it is stored as given.
func (m *Manager) PlayList(episodes []episode.Episode, index int) {
	m.apply(EventPlayList, func() {
		m.episodeList = episode.Clone(episodes)
		m.currentEpisodeIndex = index
		m.isPlaying = true
	})
}

// TogglePlay flips the playing flag.
func (m *Manager) TogglePlay() {
	m.apply(EventTogglePlay, func() {
		m.isPlaying = !m.isPlaying
	})
}

// ToggleLoop flips the looping flag.
func (m *Manager) ToggleLoop() {
	m.apply(EventToggleLoop, func() {
		m.isLooping = !m.isLooping
	})
}

// ToggleShuffle flips the shuffling flag.
func (m *Manager) ToggleShuffle() {
	m.apply(EventToggleShuffle, func() {
		m.isShuffling = !m.isShuffling
	})
}

// SetPlayingState sets the playing flag, typically in reaction to the audio
// element starting or stopping on its own.
func (m *Manager) SetPlayingState(playing bool) {
	m.apply(EventSetPlayingState, func() {
		m.isPlaying = playing
	})
}

// PlayNext advances the playlist. While shuffling, any index may be chosen,
// including the current one. Otherwise it moves forward only if there is a
// next episode. The playing flag is never changed.
func (m *Manager) PlayNext() {
	m.apply(EventPlayNext, func() {
		if m.isShuffling {
			if n := len(m.episodeList); n > 0 {
				m.currentEpisodeIndex = m.randIntN(n)
			} else {
				m.currentEpisodeIndex = 0
			}
			return
		}
		if hasNext(m.currentEpisodeIndex, len(m.episodeList), m.isShuffling) {
			m.currentEpisodeIndex++
		}
	})
}

// PlayPrevious steps back one episode if there is one.
func (m *Manager) PlayPrevious() {
	m.apply(EventPlayPrevious, func() {
		if hasPrevious(m.currentEpisodeIndex) {
			m.currentEpisodeIndex--
		}
	})
}

// ClearPlayerState empties the playlist and resets the index.
// The playing flag is intentionally left as is.
func (m *Manager) ClearPlayerState() {
	m.apply(EventClearPlayerState, func() {
		m.episodeList = make([]episode.Episode, 0)
		m.currentEpisodeIndex = 0
	})
}

// Snapshot returns a copy of the current state with derived flags.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// EpisodeList returns a copy of the current playlist.
func (m *Manager) EpisodeList() []episode.Episode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return episode.Clone(m.episodeList)
}

// CurrentEpisodeIndex returns the current index.
func (m *Manager) CurrentEpisodeIndex() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentEpisodeIndex
}

// IsPlaying returns the playing flag.
func (m *Manager) IsPlaying() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isPlaying
}

// IsLooping returns the looping flag.
func (m *Manager) IsLooping() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isLooping
}

// IsShuffling returns the shuffling flag.
func (m *Manager) IsShuffling() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isShuffling
}

// HasPrevious reports whether PlayPrevious would move.
func (m *Manager) HasPrevious() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return hasPrevious(m.currentEpisodeIndex)
}

// HasNext reports whether PlayNext can advance.
func (m *Manager) HasNext() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return hasNext(m.currentEpisodeIndex, len(m.episodeList), m.isShuffling)
}

// View calls fn with the current state while no operation can run. Every
// event delivered after View returns follows the state fn saw, so a listener
// subscribed inside fn misses nothing. fn must not call write operations.
func (m *Manager) View(fn func(Snapshot)) {
	m.dispatchMu.Lock()
	defer m.dispatchMu.Unlock()
	fn(m.Snapshot())
}

// apply runs fn under the state lock and then notifies listeners.
func (m *Manager) apply(t EventType, fn func()) {
	m.dispatchMu.Lock()
	defer m.dispatchMu.Unlock()

	m.mu.Lock()
	fn()
	snap := m.snapshotLocked()
	m.mu.Unlock()

	zlog.Debug().Msgf("player: %s: index=%d episodes=%d playing=%v looping=%v shuffling=%v",
		t, snap.CurrentEpisodeIndex, len(snap.EpisodeList), snap.IsPlaying, snap.IsLooping, snap.IsShuffling)

	m.notify(Event{Type: t, State: snap})
}

// snapshotLocked must be called with m.mu held.
func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		EpisodeList:         episode.Clone(m.episodeList),
		CurrentEpisodeIndex: m.currentEpisodeIndex,
		IsPlaying:           m.isPlaying,
		IsLooping:           m.isLooping,
		IsShuffling:         m.isShuffling,
		HasPrevious:         hasPrevious(m.currentEpisodeIndex),
		HasNext:             hasNext(m.currentEpisodeIndex, len(m.episodeList), m.isShuffling),
	}
}

func (m *Manager) notify(e Event) {
	m.listenersMu.RLock()
	listeners := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}
	m.listenersMu.RUnlock()

	for _, l := range listeners {
		l(e)
	}
}
