package playerv1

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// PlayerServiceName is the fully-qualified name of the PlayerService service.
const PlayerServiceName = "podplayer.v1.PlayerService"

// Procedure paths, usable as HTTP routes.
const (
	PlayerServiceGetStateProcedure         = "/podplayer.v1.PlayerService/GetState"
	PlayerServicePlayProcedure             = "/podplayer.v1.PlayerService/Play"
	PlayerServicePlayListProcedure         = "/podplayer.v1.PlayerService/PlayList"
	PlayerServiceTogglePlayProcedure       = "/podplayer.v1.PlayerService/TogglePlay"
	PlayerServiceToggleLoopProcedure       = "/podplayer.v1.PlayerService/ToggleLoop"
	PlayerServiceToggleShuffleProcedure    = "/podplayer.v1.PlayerService/ToggleShuffle"
	PlayerServiceSetPlayingStateProcedure  = "/podplayer.v1.PlayerService/SetPlayingState"
	PlayerServicePlayNextProcedure         = "/podplayer.v1.PlayerService/PlayNext"
	PlayerServicePlayPreviousProcedure     = "/podplayer.v1.PlayerService/PlayPrevious"
	PlayerServiceClearPlayerStateProcedure = "/podplayer.v1.PlayerService/ClearPlayerState"
	PlayerServiceFormatDurationProcedure   = "/podplayer.v1.PlayerService/FormatDuration"
	PlayerServiceSubscribeProcedure        = "/podplayer.v1.PlayerService/Subscribe"
)

// ReadOnlyProcedures never change player state.
var ReadOnlyProcedures = map[string]bool{
	PlayerServiceGetStateProcedure:       true,
	PlayerServiceFormatDurationProcedure: true,
	PlayerServiceSubscribeProcedure:      true,
}

// PlayerServiceHandler is implemented by the server.
type PlayerServiceHandler interface {
	GetState(context.Context, *connect.Request[GetStateRequest]) (*connect.Response[StateResponse], error)
	Play(context.Context, *connect.Request[PlayRequest]) (*connect.Response[StateResponse], error)
	PlayList(context.Context, *connect.Request[PlayListRequest]) (*connect.Response[StateResponse], error)
	TogglePlay(context.Context, *connect.Request[TogglePlayRequest]) (*connect.Response[StateResponse], error)
	ToggleLoop(context.Context, *connect.Request[ToggleLoopRequest]) (*connect.Response[StateResponse], error)
	ToggleShuffle(context.Context, *connect.Request[ToggleShuffleRequest]) (*connect.Response[StateResponse], error)
	SetPlayingState(context.Context, *connect.Request[SetPlayingStateRequest]) (*connect.Response[StateResponse], error)
	PlayNext(context.Context, *connect.Request[PlayNextRequest]) (*connect.Response[StateResponse], error)
	PlayPrevious(context.Context, *connect.Request[PlayPreviousRequest]) (*connect.Response[StateResponse], error)
	ClearPlayerState(context.Context, *connect.Request[ClearPlayerStateRequest]) (*connect.Response[StateResponse], error)
	FormatDuration(context.Context, *connect.Request[FormatDurationRequest]) (*connect.Response[FormatDurationResponse], error)
	Subscribe(context.Context, *connect.Request[SubscribeRequest], *connect.ServerStream[Notification]) error
}

// NewPlayerServiceHandler builds an HTTP handler for the service and returns
// the path prefix to mount it on.
func NewPlayerServiceHandler(svc PlayerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(PlayerServiceGetStateProcedure, connect.NewUnaryHandler(PlayerServiceGetStateProcedure, svc.GetState, opts...))
	mux.Handle(PlayerServicePlayProcedure, connect.NewUnaryHandler(PlayerServicePlayProcedure, svc.Play, opts...))
	mux.Handle(PlayerServicePlayListProcedure, connect.NewUnaryHandler(PlayerServicePlayListProcedure, svc.PlayList, opts...))
	mux.Handle(PlayerServiceTogglePlayProcedure, connect.NewUnaryHandler(PlayerServiceTogglePlayProcedure, svc.TogglePlay, opts...))
	mux.Handle(PlayerServiceToggleLoopProcedure, connect.NewUnaryHandler(PlayerServiceToggleLoopProcedure, svc.ToggleLoop, opts...))
	mux.Handle(PlayerServiceToggleShuffleProcedure, connect.NewUnaryHandler(PlayerServiceToggleShuffleProcedure, svc.ToggleShuffle, opts...))
	mux.Handle(PlayerServiceSetPlayingStateProcedure, connect.NewUnaryHandler(PlayerServiceSetPlayingStateProcedure, svc.SetPlayingState, opts...))
	mux.Handle(PlayerServicePlayNextProcedure, connect.NewUnaryHandler(PlayerServicePlayNextProcedure, svc.PlayNext, opts...))
	mux.Handle(PlayerServicePlayPreviousProcedure, connect.NewUnaryHandler(PlayerServicePlayPreviousProcedure, svc.PlayPrevious, opts...))
	mux.Handle(PlayerServiceClearPlayerStateProcedure, connect.NewUnaryHandler(PlayerServiceClearPlayerStateProcedure, svc.ClearPlayerState, opts...))
	mux.Handle(PlayerServiceFormatDurationProcedure, connect.NewUnaryHandler(PlayerServiceFormatDurationProcedure, svc.FormatDuration, opts...))
	mux.Handle(PlayerServiceSubscribeProcedure, connect.NewServerStreamHandler(PlayerServiceSubscribeProcedure, svc.Subscribe, opts...))

	return "/" + PlayerServiceName + "/", mux
}

// PlayerServiceClient is a client for the service.
type PlayerServiceClient interface {
	GetState(context.Context, *connect.Request[GetStateRequest]) (*connect.Response[StateResponse], error)
	Play(context.Context, *connect.Request[PlayRequest]) (*connect.Response[StateResponse], error)
	PlayList(context.Context, *connect.Request[PlayListRequest]) (*connect.Response[StateResponse], error)
	TogglePlay(context.Context, *connect.Request[TogglePlayRequest]) (*connect.Response[StateResponse], error)
	ToggleLoop(context.Context, *connect.Request[ToggleLoopRequest]) (*connect.Response[StateResponse], error)
	ToggleShuffle(context.Context, *connect.Request[ToggleShuffleRequest]) (*connect.Response[StateResponse], error)
	SetPlayingState(context.Context, *connect.Request[SetPlayingStateRequest]) (*connect.Response[StateResponse], error)
	PlayNext(context.Context, *connect.Request[PlayNextRequest]) (*connect.Response[StateResponse], error)
	PlayPrevious(context.Context, *connect.Request[PlayPreviousRequest]) (*connect.Response[StateResponse], error)
	ClearPlayerState(context.Context, *connect.Request[ClearPlayerStateRequest]) (*connect.Response[StateResponse], error)
	FormatDuration(context.Context, *connect.Request[FormatDurationRequest]) (*connect.Response[FormatDurationResponse], error)
	Subscribe(context.Context, *connect.Request[SubscribeRequest]) (*connect.ServerStreamForClient[Notification], error)
}

// NewPlayerServiceClient constructs a client for the service at baseURL
// (e.g. "http://localhost:8080").
func NewPlayerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PlayerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)

	return &playerServiceClient{
		getState:         connect.NewClient[GetStateRequest, StateResponse](httpClient, baseURL+PlayerServiceGetStateProcedure, opts...),
		play:             connect.NewClient[PlayRequest, StateResponse](httpClient, baseURL+PlayerServicePlayProcedure, opts...),
		playList:         connect.NewClient[PlayListRequest, StateResponse](httpClient, baseURL+PlayerServicePlayListProcedure, opts...),
		togglePlay:       connect.NewClient[TogglePlayRequest, StateResponse](httpClient, baseURL+PlayerServiceTogglePlayProcedure, opts...),
		toggleLoop:       connect.NewClient[ToggleLoopRequest, StateResponse](httpClient, baseURL+PlayerServiceToggleLoopProcedure, opts...),
		toggleShuffle:    connect.NewClient[ToggleShuffleRequest, StateResponse](httpClient, baseURL+PlayerServiceToggleShuffleProcedure, opts...),
		setPlayingState:  connect.NewClient[SetPlayingStateRequest, StateResponse](httpClient, baseURL+PlayerServiceSetPlayingStateProcedure, opts...),
		playNext:         connect.NewClient[PlayNextRequest, StateResponse](httpClient, baseURL+PlayerServicePlayNextProcedure, opts...),
		playPrevious:     connect.NewClient[PlayPreviousRequest, StateResponse](httpClient, baseURL+PlayerServicePlayPreviousProcedure, opts...),
		clearPlayerState: connect.NewClient[ClearPlayerStateRequest, StateResponse](httpClient, baseURL+PlayerServiceClearPlayerStateProcedure, opts...),
		formatDuration:   connect.NewClient[FormatDurationRequest, FormatDurationResponse](httpClient, baseURL+PlayerServiceFormatDurationProcedure, opts...),
		subscribe:        connect.NewClient[SubscribeRequest, Notification](httpClient, baseURL+PlayerServiceSubscribeProcedure, opts...),
	}
}

type playerServiceClient struct {
	getState         *connect.Client[GetStateRequest, StateResponse]
	play             *connect.Client[PlayRequest, StateResponse]
	playList         *connect.Client[PlayListRequest, StateResponse]
	togglePlay       *connect.Client[TogglePlayRequest, StateResponse]
	toggleLoop       *connect.Client[ToggleLoopRequest, StateResponse]
	toggleShuffle    *connect.Client[ToggleShuffleRequest, StateResponse]
	setPlayingState  *connect.Client[SetPlayingStateRequest, StateResponse]
	playNext         *connect.Client[PlayNextRequest, StateResponse]
	playPrevious     *connect.Client[PlayPreviousRequest, StateResponse]
	clearPlayerState *connect.Client[ClearPlayerStateRequest, StateResponse]
	formatDuration   *connect.Client[FormatDurationRequest, FormatDurationResponse]
	subscribe        *connect.Client[SubscribeRequest, Notification]
}

func (c *playerServiceClient) GetState(ctx context.Context, req *connect.Request[GetStateRequest]) (*connect.Response[StateResponse], error) {
	return c.getState.CallUnary(ctx, req)
}

func (c *playerServiceClient) Play(ctx context.Context, req *connect.Request[PlayRequest]) (*connect.Response[StateResponse], error) {
	return c.play.CallUnary(ctx, req)
}

func (c *playerServiceClient) PlayList(ctx context.Context, req *connect.Request[PlayListRequest]) (*connect.Response[StateResponse], error) {
	return c.playList.CallUnary(ctx, req)
}

func (c *playerServiceClient) TogglePlay(ctx context.Context, req *connect.Request[TogglePlayRequest]) (*connect.Response[StateResponse], error) {
	return c.togglePlay.CallUnary(ctx, req)
}

func (c *playerServiceClient) ToggleLoop(ctx context.Context, req *connect.Request[ToggleLoopRequest]) (*connect.Response[StateResponse], error) {
	return c.toggleLoop.CallUnary(ctx, req)
}

func (c *playerServiceClient) ToggleShuffle(ctx context.Context, req *connect.Request[ToggleShuffleRequest]) (*connect.Response[StateResponse], error) {
	return c.toggleShuffle.CallUnary(ctx, req)
}

func (c *playerServiceClient) SetPlayingState(ctx context.Context, req *connect.Request[SetPlayingStateRequest]) (*connect.Response[StateResponse], error) {
	return c.setPlayingState.CallUnary(ctx, req)
}

func (c *playerServiceClient) PlayNext(ctx context.Context, req *connect.Request[PlayNextRequest]) (*connect.Response[StateResponse], error) {
	return c.playNext.CallUnary(ctx, req)
}

func (c *playerServiceClient) PlayPrevious(ctx context.Context, req *connect.Request[PlayPreviousRequest]) (*connect.Response[StateResponse], error) {
	return c.playPrevious.CallUnary(ctx, req)
}

func (c *playerServiceClient) ClearPlayerState(ctx context.Context, req *connect.Request[ClearPlayerStateRequest]) (*connect.Response[StateResponse], error) {
	return c.clearPlayerState.CallUnary(ctx, req)
}

func (c *playerServiceClient) FormatDuration(ctx context.Context, req *connect.Request[FormatDurationRequest]) (*connect.Response[FormatDurationResponse], error) {
	return c.formatDuration.CallUnary(ctx, req)
}

func (c *playerServiceClient) Subscribe(ctx context.Context, req *connect.Request[SubscribeRequest]) (*connect.ServerStreamForClient[Notification], error) {
	return c.subscribe.CallServerStream(ctx, req)
}
