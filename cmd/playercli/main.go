// Package main provides the player CLI entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	apiconnect "github.com/osa030/podplayer/internal/api/connect"
	playerv1 "github.com/osa030/podplayer/internal/api/playerv1"
)

var (
	app    = kingpin.New("podplayer-cli", "podplayer playback client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	token  = app.Flag("token", "Control token (or set PODPLAYER_CONTROL_TOKEN env)").Envar("PODPLAYER_CONTROL_TOKEN").String()

	// state command
	stateCmd = app.Command("state", "Show the current player state").Default()

	// play command
	playCmd       = app.Command("play", "Play a single episode")
	playTitle     = playCmd.Flag("title", "Episode title").String()
	playMembers   = playCmd.Flag("members", "Episode members").String()
	playThumbnail = playCmd.Flag("thumbnail", "Thumbnail URL").String()
	playDuration  = playCmd.Flag("duration", "Duration in seconds").Int()
	playURL       = playCmd.Flag("url", "Audio URL").String()
	playFile      = playCmd.Flag("file", "Take the episode from a YAML episode file").ExistingFile()
	playFileIndex = playCmd.Flag("file-index", "Episode index in --file").Int()

	// playlist command
	playListCmd   = app.Command("playlist", "Replace the playlist from a YAML episode file")
	playListFile  = playListCmd.Arg("file", "YAML episode file").Required().ExistingFile()
	playListIndex = playListCmd.Flag("index", "Index to start playing from").Default("0").Int()

	togglePlayCmd    = app.Command("toggle-play", "Toggle play/pause")
	toggleLoopCmd    = app.Command("toggle-loop", "Toggle looping")
	toggleShuffleCmd = app.Command("toggle-shuffle", "Toggle shuffling")

	// set-playing command
	setPlayingCmd   = app.Command("set-playing", "Set the playing flag")
	setPlayingValue = setPlayingCmd.Arg("playing", "true or false").Required().Bool()

	nextCmd     = app.Command("next", "Play the next episode")
	previousCmd = app.Command("previous", "Play the previous episode").Alias("prev")
	clearCmd    = app.Command("clear", "Clear the playlist")

	// subscribe command
	subscribeCmd = app.Command("subscribe", "Subscribe to state notifications")

	// format command
	formatCmd     = app.Command("format", "Format seconds as HH:MM:SS")
	formatSeconds = formatCmd.Arg("seconds", "Duration in seconds").Required().Int()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	client := playerv1.NewPlayerServiceClient(
		http.DefaultClient,
		*server,
	)

	ctx := context.Background()

	switch command {
	case stateCmd.FullCommand():
		resp, err := client.GetState(ctx, connect.NewRequest(&playerv1.GetStateRequest{}))
		printStateResponse(resp, err)
	case playCmd.FullCommand():
		play(ctx, client)
	case playListCmd.FullCommand():
		playList(ctx, client)
	case togglePlayCmd.FullCommand():
		resp, err := client.TogglePlay(ctx, withToken(connect.NewRequest(&playerv1.TogglePlayRequest{})))
		printStateResponse(resp, err)
	case toggleLoopCmd.FullCommand():
		resp, err := client.ToggleLoop(ctx, withToken(connect.NewRequest(&playerv1.ToggleLoopRequest{})))
		printStateResponse(resp, err)
	case toggleShuffleCmd.FullCommand():
		resp, err := client.ToggleShuffle(ctx, withToken(connect.NewRequest(&playerv1.ToggleShuffleRequest{})))
		printStateResponse(resp, err)
	case setPlayingCmd.FullCommand():
		resp, err := client.SetPlayingState(ctx, withToken(connect.NewRequest(&playerv1.SetPlayingStateRequest{
			Playing: *setPlayingValue,
		})))
		printStateResponse(resp, err)
	case nextCmd.FullCommand():
		resp, err := client.PlayNext(ctx, withToken(connect.NewRequest(&playerv1.PlayNextRequest{})))
		printStateResponse(resp, err)
	case previousCmd.FullCommand():
		resp, err := client.PlayPrevious(ctx, withToken(connect.NewRequest(&playerv1.PlayPreviousRequest{})))
		printStateResponse(resp, err)
	case clearCmd.FullCommand():
		resp, err := client.ClearPlayerState(ctx, withToken(connect.NewRequest(&playerv1.ClearPlayerStateRequest{})))
		printStateResponse(resp, err)
	case subscribeCmd.FullCommand():
		subscribe(ctx, client)
	case formatCmd.FullCommand():
		formatDuration(ctx, client, *formatSeconds)
	}
}

// withToken attaches the control token to a state-changing request.
func withToken[T any](req *connect.Request[T]) *connect.Request[T] {
	if *token != "" {
		req.Header().Set(apiconnect.ControlTokenHeader, *token)
	}
	return req
}

func fail(err error) {
	fmt.Printf("Error: %v\n", err)
	os.Exit(1)
}

func play(ctx context.Context, client playerv1.PlayerServiceClient) {
	ep := &playerv1.Episode{
		Title:     *playTitle,
		Members:   *playMembers,
		Thumbnail: *playThumbnail,
		Duration:  *playDuration,
		URL:       *playURL,
	}
	if *playFile != "" {
		episodes, err := loadEpisodes(*playFile)
		if err != nil {
			fail(err)
		}
		if *playFileIndex < 0 || *playFileIndex >= len(episodes) {
			fail(fmt.Errorf("file index %d out of range for %d episodes", *playFileIndex, len(episodes)))
		}
		ep = episodes[*playFileIndex]
	}

	resp, err := client.Play(ctx, withToken(connect.NewRequest(&playerv1.PlayRequest{Episode: ep})))
	printStateResponse(resp, err)
}

func playList(ctx context.Context, client playerv1.PlayerServiceClient) {
	episodes, err := loadEpisodes(*playListFile)
	if err != nil {
		fail(err)
	}

	resp, err := client.PlayList(ctx, withToken(connect.NewRequest(&playerv1.PlayListRequest{
		Episodes: episodes,
		Index:    *playListIndex,
	})))
	printStateResponse(resp, err)
}

func formatDuration(ctx context.Context, client playerv1.PlayerServiceClient, seconds int) {
	resp, err := client.FormatDuration(ctx, connect.NewRequest(&playerv1.FormatDurationRequest{
		Seconds: seconds,
	}))
	if err != nil {
		fail(err)
	}
	fmt.Println(resp.Msg.Text)
}

func subscribe(ctx context.Context, client playerv1.PlayerServiceClient) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := client.Subscribe(ctx, connect.NewRequest(&playerv1.SubscribeRequest{}))
	if err != nil {
		fail(err)
	}
	defer stream.Close()

	fmt.Println("Subscribed to notifications. Press Ctrl+C to exit.")

	// Handle shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nUnsubscribing...")
		cancel()
	}()

	for stream.Receive() {
		printNotification(os.Stdout, stream.Msg())
	}

	if err := stream.Err(); err != nil && ctx.Err() == nil {
		fmt.Printf("Stream error: %v\n", err)
	}
}

func printStateResponse(resp *connect.Response[playerv1.StateResponse], err error) {
	if err != nil {
		fail(err)
	}
	printState(os.Stdout, resp.Msg.State)
}
