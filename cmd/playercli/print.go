package main

import (
	"fmt"
	"io"

	playerv1 "github.com/osa030/podplayer/internal/api/playerv1"
)

func printState(w io.Writer, s *playerv1.PlayerState) {
	fmt.Fprintln(w, "\n=== PLAYER STATE ===")
	if s == nil {
		fmt.Fprintln(w, "No state")
		return
	}

	fmt.Fprintf(w, "Status: %s\n", formatPlaying(s.IsPlaying))
	fmt.Fprintf(w, "Loop: %s  Shuffle: %s\n", onOff(s.IsLooping), onOff(s.IsShuffling))
	fmt.Fprintf(w, "Episodes: %d (total %s)\n", len(s.EpisodeList), s.TotalDurationText)

	if s.CurrentEpisode != nil {
		fmt.Fprintf(w, "\nNow Playing [%d/%d]:\n", s.CurrentEpisodeIndex+1, len(s.EpisodeList))
		fmt.Fprintf(w, "  Title: %s\n", s.CurrentEpisode.Title)
		fmt.Fprintf(w, "  Members: %s\n", s.CurrentEpisode.Members)
		fmt.Fprintf(w, "  Duration: %s\n", s.CurrentEpisode.DurationText)
		fmt.Fprintf(w, "  URL: %s\n", s.CurrentEpisode.URL)
		fmt.Fprintf(w, "  Thumbnail: %s\n", s.CurrentEpisode.Thumbnail)
	} else {
		fmt.Fprintln(w, "\nNo episode selected")
	}

	if len(s.EpisodeList) > 0 {
		fmt.Fprintln(w, "\nPlaylist:")
		for i, ep := range s.EpisodeList {
			marker := " "
			if i == s.CurrentEpisodeIndex {
				marker = ">"
			}
			fmt.Fprintf(w, "  %s %2d. %s [%s]\n", marker, i+1, ep.Title, ep.DurationText)
		}
	}
	fmt.Fprintf(w, "\nPrevious: %v  Next: %v\n", s.HasPrevious, s.HasNext)
}

func printNotification(w io.Writer, n *playerv1.Notification) {
	fmt.Fprintf(w, "\n[Sequence: %d] ", n.SequenceNo)

	switch n.Type {
	case playerv1.NotificationTypeInitialState:
		fmt.Fprintln(w, "=== INITIAL STATE ===")
	case playerv1.NotificationTypeStateChanged:
		fmt.Fprintf(w, "=== STATE CHANGED (%s) ===\n", n.Event)
	default:
		fmt.Fprintf(w, "=== UNKNOWN EVENT (%v) ===\n", n.Type)
	}

	printState(w, n.State)
}

func formatPlaying(playing bool) string {
	if playing {
		return "▶️  Playing"
	}
	return "⏸  Paused"
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
