package connect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	playerv1 "github.com/osa030/podplayer/internal/api/playerv1"
	"github.com/osa030/podplayer/internal/app/notification"
	"github.com/osa030/podplayer/internal/app/player"
	"github.com/osa030/podplayer/internal/infra/config"
)

type testEnv struct {
	client        playerv1.PlayerServiceClient
	service       *PlayerService
	player        *player.Manager
	notifications *notification.Manager
}

func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()

	p := player.NewManager(player.WithSeed(1))
	n := notification.NewManager(time.Second)
	svc := NewPlayerService(p, n)

	path, handler := playerv1.NewPlayerServiceHandler(svc,
		connect.WithInterceptors(NewControlAuthInterceptor(cfg)),
	)
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		svc.Close()
		server.Close()
	})

	return &testEnv{
		client:        playerv1.NewPlayerServiceClient(server.Client(), server.URL),
		service:       svc,
		player:        p,
		notifications: n,
	}
}

func wireEpisodes() []*playerv1.Episode {
	return []*playerv1.Episode{
		{Title: "Ep 0", Members: "Ana", Thumbnail: "https://example.com/0.png", Duration: 59, URL: "https://example.com/0.mp3"},
		{Title: "Ep 1", Members: "Ana, Bo", Thumbnail: "https://example.com/1.png", Duration: 3661, URL: "https://example.com/1.mp3"},
		{Title: "Ep 2", Members: "Bo", Thumbnail: "https://example.com/2.png", Duration: 60, URL: "https://example.com/2.mp3"},
	}
}

func TestPlayerService_InitialState(t *testing.T) {
	env := newTestEnv(t, &config.Config{})
	ctx := context.Background()

	resp, err := env.client.GetState(ctx, connect.NewRequest(&playerv1.GetStateRequest{}))
	require.NoError(t, err)

	s := resp.Msg.State
	require.NotNil(t, s)
	assert.Empty(t, s.EpisodeList)
	assert.Equal(t, 0, s.CurrentEpisodeIndex)
	assert.False(t, s.IsPlaying)
	assert.False(t, s.IsLooping)
	assert.False(t, s.IsShuffling)
	assert.False(t, s.HasPrevious)
	assert.False(t, s.HasNext)
	assert.Nil(t, s.CurrentEpisode)
	assert.Equal(t, "00:00:00", s.TotalDurationText)
}

func TestPlayerService_PlayList(t *testing.T) {
	env := newTestEnv(t, &config.Config{})
	ctx := context.Background()

	resp, err := env.client.PlayList(ctx, connect.NewRequest(&playerv1.PlayListRequest{
		Episodes: wireEpisodes(),
		Index:    1,
	}))
	require.NoError(t, err)

	s := resp.Msg.State
	assert.Len(t, s.EpisodeList, 3)
	assert.Equal(t, 1, s.CurrentEpisodeIndex)
	assert.True(t, s.HasPrevious)
	assert.True(t, s.HasNext)
	assert.True(t, s.IsPlaying)
	require.NotNil(t, s.CurrentEpisode)
	assert.Equal(t, "Ep 1", s.CurrentEpisode.Title)
	assert.Equal(t, "01:01:01", s.CurrentEpisode.DurationText)
	assert.Equal(t, "00:00:59", s.EpisodeList[0].DurationText)
	assert.Equal(t, "01:03:00", s.TotalDurationText)

	// The manager holds the same state
	assert.Equal(t, 1, env.player.CurrentEpisodeIndex())
}

func TestPlayerService_PlayList_InvalidArgument(t *testing.T) {
	tests := []struct {
		name string
		req  *playerv1.PlayListRequest
	}{
		{name: "empty list", req: &playerv1.PlayListRequest{Index: 0}},
		{name: "negative index", req: &playerv1.PlayListRequest{Episodes: wireEpisodes(), Index: -1}},
		{name: "index past end", req: &playerv1.PlayListRequest{Episodes: wireEpisodes(), Index: 3}},
		{name: "nil episode", req: &playerv1.PlayListRequest{Episodes: []*playerv1.Episode{nil}, Index: 0}},
		{name: "negative duration", req: &playerv1.PlayListRequest{Episodes: []*playerv1.Episode{{Title: "bad", Duration: -1}}, Index: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, &config.Config{})

			_, err := env.client.PlayList(context.Background(), connect.NewRequest(tt.req))
			require.Error(t, err)
			assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

			// State untouched
			assert.False(t, env.player.IsPlaying())
			assert.Empty(t, env.player.EpisodeList())
		})
	}
}

func TestPlayerService_Play(t *testing.T) {
	env := newTestEnv(t, &config.Config{})
	ctx := context.Background()

	_, err := env.client.PlayList(ctx, connect.NewRequest(&playerv1.PlayListRequest{Episodes: wireEpisodes(), Index: 2}))
	require.NoError(t, err)

	resp, err := env.client.Play(ctx, connect.NewRequest(&playerv1.PlayRequest{
		Episode: &playerv1.Episode{Title: "Solo", Duration: 30},
	}))
	require.NoError(t, err)

	s := resp.Msg.State
	require.Len(t, s.EpisodeList, 1)
	assert.Equal(t, "Solo", s.EpisodeList[0].Title)
	assert.Equal(t, 0, s.CurrentEpisodeIndex)
	assert.True(t, s.IsPlaying)
	assert.False(t, s.HasNext)

	_, err = env.client.Play(ctx, connect.NewRequest(&playerv1.PlayRequest{}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestPlayerService_Navigation(t *testing.T) {
	env := newTestEnv(t, &config.Config{})
	ctx := context.Background()

	_, err := env.client.PlayList(ctx, connect.NewRequest(&playerv1.PlayListRequest{Episodes: wireEpisodes(), Index: 0}))
	require.NoError(t, err)

	// Previous at index 0 is a no-op
	resp, err := env.client.PlayPrevious(ctx, connect.NewRequest(&playerv1.PlayPreviousRequest{}))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Msg.State.CurrentEpisodeIndex)

	resp, err = env.client.PlayNext(ctx, connect.NewRequest(&playerv1.PlayNextRequest{}))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Msg.State.CurrentEpisodeIndex)

	resp, err = env.client.PlayNext(ctx, connect.NewRequest(&playerv1.PlayNextRequest{}))
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Msg.State.CurrentEpisodeIndex)
	assert.False(t, resp.Msg.State.HasNext)

	resp, err = env.client.PlayPrevious(ctx, connect.NewRequest(&playerv1.PlayPreviousRequest{}))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Msg.State.CurrentEpisodeIndex)
}

func TestPlayerService_Flags(t *testing.T) {
	env := newTestEnv(t, &config.Config{})
	ctx := context.Background()

	resp, err := env.client.TogglePlay(ctx, connect.NewRequest(&playerv1.TogglePlayRequest{}))
	require.NoError(t, err)
	assert.True(t, resp.Msg.State.IsPlaying)

	resp, err = env.client.ToggleLoop(ctx, connect.NewRequest(&playerv1.ToggleLoopRequest{}))
	require.NoError(t, err)
	assert.True(t, resp.Msg.State.IsLooping)

	resp, err = env.client.ToggleShuffle(ctx, connect.NewRequest(&playerv1.ToggleShuffleRequest{}))
	require.NoError(t, err)
	assert.True(t, resp.Msg.State.IsShuffling)
	assert.True(t, resp.Msg.State.HasNext)

	resp, err = env.client.SetPlayingState(ctx, connect.NewRequest(&playerv1.SetPlayingStateRequest{Playing: false}))
	require.NoError(t, err)
	assert.False(t, resp.Msg.State.IsPlaying)
}

func TestPlayerService_ClearPlayerState_KeepsPlaying(t *testing.T) {
	env := newTestEnv(t, &config.Config{})
	ctx := context.Background()

	_, err := env.client.PlayList(ctx, connect.NewRequest(&playerv1.PlayListRequest{Episodes: wireEpisodes(), Index: 2}))
	require.NoError(t, err)

	resp, err := env.client.ClearPlayerState(ctx, connect.NewRequest(&playerv1.ClearPlayerStateRequest{}))
	require.NoError(t, err)

	s := resp.Msg.State
	assert.Empty(t, s.EpisodeList)
	assert.Equal(t, 0, s.CurrentEpisodeIndex)
	assert.True(t, s.IsPlaying)
	assert.Nil(t, s.CurrentEpisode)
}

func TestPlayerService_FormatDuration(t *testing.T) {
	env := newTestEnv(t, &config.Config{})

	resp, err := env.client.FormatDuration(context.Background(), connect.NewRequest(&playerv1.FormatDurationRequest{Seconds: 3661}))
	require.NoError(t, err)
	assert.Equal(t, "01:01:01", resp.Msg.Text)
}

func TestPlayerService_Subscribe(t *testing.T) {
	env := newTestEnv(t, &config.Config{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Cancelling ctx ends the stream; Close would drain it first.
	stream, err := env.client.Subscribe(ctx, connect.NewRequest(&playerv1.SubscribeRequest{}))
	require.NoError(t, err)

	require.True(t, stream.Receive(), "initial state: %v", stream.Err())
	initial := stream.Msg()
	assert.Equal(t, playerv1.NotificationTypeInitialState, initial.Type)
	assert.Equal(t, uint64(1), initial.SequenceNo)
	assert.False(t, initial.State.IsPlaying)

	// Registered before the initial state is sent
	assert.Equal(t, 1, env.notifications.SubscriberCount())

	_, err = env.client.PlayList(ctx, connect.NewRequest(&playerv1.PlayListRequest{Episodes: wireEpisodes(), Index: 0}))
	require.NoError(t, err)
	_, err = env.client.PlayNext(ctx, connect.NewRequest(&playerv1.PlayNextRequest{}))
	require.NoError(t, err)

	require.True(t, stream.Receive(), "first change: %v", stream.Err())
	first := stream.Msg()
	assert.Equal(t, playerv1.NotificationTypeStateChanged, first.Type)
	assert.Equal(t, "play_list", first.Event)
	assert.Equal(t, uint64(2), first.SequenceNo)
	assert.True(t, first.State.IsPlaying)

	require.True(t, stream.Receive(), "second change: %v", stream.Err())
	second := stream.Msg()
	assert.Equal(t, "play_next", second.Event)
	assert.Equal(t, uint64(3), second.SequenceNo)
	assert.Equal(t, 1, second.State.CurrentEpisodeIndex)
	require.NotNil(t, second.State.CurrentEpisode)
	assert.Equal(t, "Ep 1", second.State.CurrentEpisode.Title)
}

func TestPlayerService_CloseEndsStreams(t *testing.T) {
	env := newTestEnv(t, &config.Config{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := env.client.Subscribe(ctx, connect.NewRequest(&playerv1.SubscribeRequest{}))
	require.NoError(t, err)
	defer stream.Close()

	require.True(t, stream.Receive())
	require.Equal(t, 1, env.notifications.SubscriberCount())

	env.service.Close()

	assert.False(t, stream.Receive())
	assert.NoError(t, stream.Err())
	assert.Equal(t, 0, env.notifications.SubscriberCount())
	assert.Equal(t, 0, env.player.ListenerCount())
}

func TestPlayerService_Subscribe_ConcurrentChanges(t *testing.T) {
	env := newTestEnv(t, &config.Config{})

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				env.player.TogglePlay()
			}
		}
	}()
	defer func() {
		close(stop)
		wg.Wait()
	}()

	for i := 0; i < 20; i++ {
		func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			stream, err := env.client.Subscribe(ctx, connect.NewRequest(&playerv1.SubscribeRequest{}))
			require.NoError(t, err)

			require.True(t, stream.Receive(), "initial state: %v", stream.Err())
			initial := stream.Msg()
			require.Equal(t, playerv1.NotificationTypeInitialState, initial.Type)

			require.True(t, stream.Receive(), "first change: %v", stream.Err())
			first := stream.Msg()
			assert.Equal(t, playerv1.NotificationTypeStateChanged, first.Type)
			assert.Equal(t, "toggle_play", first.Event)
			assert.Equal(t, initial.SequenceNo+1, first.SequenceNo, "iteration %d", i)
			assert.Equal(t, !initial.State.IsPlaying, first.State.IsPlaying, "iteration %d", i)
		}()
	}
}
