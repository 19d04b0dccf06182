package export

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/topspot/topspot/pkg/spotify"
)

const (
	// summarySize is how many leading items the post-fetch summary shows.
	summarySize = 5

	// summaryWidth bounds a summary line in display columns.
	summaryWidth = 76
)

// TrackSummary renders the first five tracks as numbered lines.
func TrackSummary(tracks []spotify.Track) string {
	var b strings.Builder
	for i, track := range tracks {
		if i >= summarySize {
			break
		}
		line := fmt.Sprintf("%d. %s - %s", i+1, track.Name, track.ArtistNames())
		fmt.Fprintf(&b, "  %s\n", truncate(line, summaryWidth))
	}
	return b.String()
}

// ArtistSummary renders the first five artists as numbered lines.
func ArtistSummary(artists []spotify.Artist) string {
	var b strings.Builder
	for i, artist := range artists {
		if i >= summarySize {
			break
		}
		line := fmt.Sprintf("%d. %s", i+1, artist.Name)
		fmt.Fprintf(&b, "  %s\n", truncate(line, summaryWidth))
	}
	return b.String()
}

// truncate shortens text to a display width, appending "..." when it
// had to cut. Width is measured in display columns, so CJK characters
// and emoji count by their visual width.
func truncate(text string, width int) string {
	if runewidth.StringWidth(text) <= width {
		return text
	}

	ellipsis := "..."
	ellipsisWidth := runewidth.StringWidth(ellipsis)
	if width <= ellipsisWidth {
		return runewidth.Truncate(ellipsis, width, "")
	}

	return runewidth.Truncate(text, width-ellipsisWidth, "") + ellipsis
}
