package connect

import (
	"context"
	"sync"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	zlog "github.com/rs/zerolog/log"

	playerv1 "github.com/osa030/podplayer/internal/api/playerv1"
	"github.com/osa030/podplayer/internal/app/notification"
	"github.com/osa030/podplayer/internal/app/player"
	"github.com/osa030/podplayer/internal/domain/episode"
	"github.com/osa030/podplayer/internal/domain/timecode"
)

// PlayerService implements the PlayerService RPC.
type PlayerService struct {
	player        *player.Manager
	notifications *notification.Manager
	validate      *validator.Validate

	unsubscribe func()
	done        chan struct{}
	closeOnce   sync.Once
}

// NewPlayerService creates a new PlayerService and starts forwarding player
// events to notification subscribers.
func NewPlayerService(p *player.Manager, notifications *notification.Manager) *PlayerService {
	s := &PlayerService{
		player:        p,
		notifications: notifications,
		validate:      validator.New(),
		done:          make(chan struct{}),
	}
	s.unsubscribe = p.Subscribe(s.forward)
	return s
}

// Ensure PlayerService implements the interface.
var _ playerv1.PlayerServiceHandler = (*PlayerService)(nil)

// Close stops forwarding events and ends open subscription streams.
func (s *PlayerService) Close() {
	s.closeOnce.Do(func() {
		s.unsubscribe()
		close(s.done)
	})
}

// forward broadcasts a player event to all subscribers.
func (s *PlayerService) forward(e player.Event) {
	s.notifications.Broadcast(&playerv1.Notification{
		Type:  playerv1.NotificationTypeStateChanged,
		Event: e.Type.String(),
		State: toPlayerState(e.State),
	})
}

func (s *PlayerService) stateResponse() *connect.Response[playerv1.StateResponse] {
	return connect.NewResponse(&playerv1.StateResponse{
		State: toPlayerState(s.player.Snapshot()),
	})
}

// GetState returns the current player state.
func (s *PlayerService) GetState(
	ctx context.Context,
	req *connect.Request[playerv1.GetStateRequest],
) (*connect.Response[playerv1.StateResponse], error) {
	return s.stateResponse(), nil
}

// Play replaces the playlist with a single episode.
func (s *PlayerService) Play(
	ctx context.Context,
	req *connect.Request[playerv1.PlayRequest],
) (*connect.Response[playerv1.StateResponse], error) {
	if req.Msg.Episode == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("episode is required"))
	}
	if err := s.validateEpisode(req.Msg.Episode); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	zlog.Debug().Msgf("rpc: play: title=%s", req.Msg.Episode.Title)
	s.player.Play(fromWireEpisode(req.Msg.Episode))
	return s.stateResponse(), nil
}

// PlayList replaces the playlist and starts at the given index.
func (s *PlayerService) PlayList(
	ctx context.Context,
	req *connect.Request[playerv1.PlayListRequest],
) (*connect.Response[playerv1.StateResponse], error) {
	n := len(req.Msg.Episodes)
	if req.Msg.Index < 0 || req.Msg.Index >= n {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			errors.Newf("index %d out of range for %d episodes", req.Msg.Index, n))
	}

	episodes := make([]episode.Episode, n)
	for i, ep := range req.Msg.Episodes {
		if ep == nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, errors.Newf("episode %d is empty", i))
		}
		if err := s.validateEpisode(ep); err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, errors.Wrapf(err, "episode %d", i))
		}
		episodes[i] = fromWireEpisode(ep)
	}

	zlog.Debug().Msgf("rpc: play list: episodes=%d index=%d", n, req.Msg.Index)
	s.player.PlayList(episodes, req.Msg.Index)
	return s.stateResponse(), nil
}

// TogglePlay flips the playing flag.
func (s *PlayerService) TogglePlay(
	ctx context.Context,
	req *connect.Request[playerv1.TogglePlayRequest],
) (*connect.Response[playerv1.StateResponse], error) {
	s.player.TogglePlay()
	return s.stateResponse(), nil
}

// ToggleLoop flips the looping flag.
func (s *PlayerService) ToggleLoop(
	ctx context.Context,
	req *connect.Request[playerv1.ToggleLoopRequest],
) (*connect.Response[playerv1.StateResponse], error) {
	s.player.ToggleLoop()
	return s.stateResponse(), nil
}

// ToggleShuffle flips the shuffling flag.
func (s *PlayerService) ToggleShuffle(
	ctx context.Context,
	req *connect.Request[playerv1.ToggleShuffleRequest],
) (*connect.Response[playerv1.StateResponse], error) {
	s.player.ToggleShuffle()
	return s.stateResponse(), nil
}

// SetPlayingState sets the playing flag.
func (s *PlayerService) SetPlayingState(
	ctx context.Context,
	req *connect.Request[playerv1.SetPlayingStateRequest],
) (*connect.Response[playerv1.StateResponse], error) {
	s.player.SetPlayingState(req.Msg.Playing)
	return s.stateResponse(), nil
}

// PlayNext advances the playlist.
func (s *PlayerService) PlayNext(
	ctx context.Context,
	req *connect.Request[playerv1.PlayNextRequest],
) (*connect.Response[playerv1.StateResponse], error) {
	s.player.PlayNext()
	return s.stateResponse(), nil
}

// PlayPrevious steps back in the playlist.
func (s *PlayerService) PlayPrevious(
	ctx context.Context,
	req *connect.Request[playerv1.PlayPreviousRequest],
) (*connect.Response[playerv1.StateResponse], error) {
	s.player.PlayPrevious()
	return s.stateResponse(), nil
}

// ClearPlayerState empties the playlist.
func (s *PlayerService) ClearPlayerState(
	ctx context.Context,
	req *connect.Request[playerv1.ClearPlayerStateRequest],
) (*connect.Response[playerv1.StateResponse], error) {
	s.player.ClearPlayerState()
	return s.stateResponse(), nil
}

// FormatDuration renders seconds as HH:MM:SS.
func (s *PlayerService) FormatDuration(
	ctx context.Context,
	req *connect.Request[playerv1.FormatDurationRequest],
) (*connect.Response[playerv1.FormatDurationResponse], error) {
	return connect.NewResponse(&playerv1.FormatDurationResponse{
		Text: timecode.Format(req.Msg.Seconds),
	}), nil
}

// Subscribe streams the initial state followed by every state change.
func (s *PlayerService) Subscribe(
	ctx context.Context,
	req *connect.Request[playerv1.SubscribeRequest],
	stream *connect.ServerStream[playerv1.Notification],
) error {
	adapter := &notificationStreamAdapter{stream: stream}

	// Register and number the initial state between two operations so the
	// stream receives each later change exactly once.
	var subscriptionID string
	var initial *playerv1.Notification
	s.player.View(func(snap player.Snapshot) {
		subscriptionID = s.notifications.Subscribe(adapter)
		initial = &playerv1.Notification{
			Type:       playerv1.NotificationTypeInitialState,
			SequenceNo: s.notifications.NextSequenceNo(),
			State:      toPlayerState(snap),
		}
	})
	defer s.notifications.Unsubscribe(subscriptionID)

	if err := s.notifications.Send(subscriptionID, initial); err != nil {
		return err
	}

	// Wait for client cancellation, service shutdown, or the subscriber
	// being dropped for falling behind
	select {
	case <-ctx.Done():
	case <-s.done:
	case <-s.notifications.Done(subscriptionID):
		select {
		case <-s.done:
		default:
			if ctx.Err() == nil {
				zlog.Warn().Msgf("rpc: subscribe: subscriber dropped: id=%s", subscriptionID)
				return connect.NewError(connect.CodeAborted, errors.New("subscriber fell behind"))
			}
		}
	}

	return nil
}

func (s *PlayerService) validateEpisode(ep *playerv1.Episode) error {
	if err := s.validate.Struct(ep); err != nil {
		return errors.Wrap(err, "invalid episode")
	}
	return nil
}

// notificationStreamAdapter adapts connect.ServerStream to notification.Stream.
type notificationStreamAdapter struct {
	stream *connect.ServerStream[playerv1.Notification]
}

func (a *notificationStreamAdapter) Send(n *playerv1.Notification) error {
	return a.stream.Send(n)
}
