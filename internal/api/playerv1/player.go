// Package playerv1 defines the podplayer.v1 PlayerService messages and its
// Connect handler and client bindings.
package playerv1

// Episode is the wire form of an episode.
type Episode struct {
	Title     string `json:"title"`
	Members   string `json:"members"`
	Thumbnail string `json:"thumbnail"`
	Duration  int    `json:"duration" validate:"gte=0"`
	URL       string `json:"url"`

	// DurationText is the HH:MM:SS label of Duration. Output only.
	DurationText string `json:"duration_text,omitempty"`
}

// PlayerState is the read contract published to UI clients.
type PlayerState struct {
	EpisodeList         []*Episode `json:"episode_list"`
	CurrentEpisodeIndex int        `json:"current_episode_index"`
	IsPlaying           bool       `json:"is_playing"`
	IsLooping           bool       `json:"is_looping"`
	IsShuffling         bool       `json:"is_shuffling"`
	HasPrevious         bool       `json:"has_previous"`
	HasNext             bool       `json:"has_next"`

	// Presentation helpers
	CurrentEpisode    *Episode `json:"current_episode,omitempty"`
	TotalDurationText string   `json:"total_duration_text"`
}

// StateResponse is returned by every state procedure.
type StateResponse struct {
	State *PlayerState `json:"state"`
}

type GetStateRequest struct{}

type PlayRequest struct {
	Episode *Episode `json:"episode"`
}

type PlayListRequest struct {
	Episodes []*Episode `json:"episodes"`
	Index    int        `json:"index"`
}

type TogglePlayRequest struct{}

type ToggleLoopRequest struct{}

type ToggleShuffleRequest struct{}

type SetPlayingStateRequest struct {
	Playing bool `json:"playing"`
}

type PlayNextRequest struct{}

type PlayPreviousRequest struct{}

type ClearPlayerStateRequest struct{}

type FormatDurationRequest struct {
	Seconds int `json:"seconds"`
}

type FormatDurationResponse struct {
	Text string `json:"text"`
}

type SubscribeRequest struct{}

// NotificationType represents the kind of notification.
type NotificationType string

const (
	NotificationTypeInitialState NotificationType = "INITIAL_STATE"
	NotificationTypeStateChanged NotificationType = "STATE_CHANGED"
)

// Notification is pushed to subscribers.
type Notification struct {
	Type       NotificationType `json:"type"`
	SequenceNo uint64           `json:"sequence_no"`
	Event      string           `json:"event,omitempty"` // Operation name, empty for INITIAL_STATE
	State      *PlayerState     `json:"state"`
}
