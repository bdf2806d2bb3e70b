package player

// EventType identifies the operation that produced an event.
type EventType int

const (
	EventPlay             EventType = iota // Single episode loaded and started
	EventPlayList                          // Playlist loaded and started
	EventTogglePlay                        // isPlaying flipped
	EventToggleLoop                        // isLooping flipped
	EventToggleShuffle                     // isShuffling flipped
	EventSetPlayingState                   // isPlaying set explicitly
	EventPlayNext                          // Advance requested
	EventPlayPrevious                      // Step back requested
	EventClearPlayerState                  // Playlist cleared
)

var eventTypeNames = map[EventType]string{
	EventPlay:             "play",
	EventPlayList:         "play_list",
	EventTogglePlay:       "toggle_play",
	EventToggleLoop:       "toggle_loop",
	EventToggleShuffle:    "toggle_shuffle",
	EventSetPlayingState:  "set_playing_state",
	EventPlayNext:         "play_next",
	EventPlayPrevious:     "play_previous",
	EventClearPlayerState: "clear_player_state",
}

// String returns the string representation of the event type.
func (e EventType) String() string {
	if name, ok := eventTypeNames[e]; ok {
		return name
	}
	return "unknown"
}

// ParseEventType returns the event type for a name produced by String.
func ParseEventType(name string) (EventType, bool) {
	for t, n := range eventTypeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// Event is delivered to listeners after every operation, including ones that
// turned out to be no-ops (e.g. PlayPrevious at index 0).
type Event struct {
	Type  EventType
	State Snapshot // State after the operation
}

// Listener receives events. It runs synchronously on the caller's goroutine
// and must not call write operations on the manager.
type Listener func(Event)
