// Package export flattens the timeline into a CMX3600-style edit decision
// list. It is a text cut list only; rendering stays with the compositor.
package export

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cutroom/cutroom-engine/internal/timeline"
)

// Event is one EDL entry: source in/out inside the media, record in/out on
// the timeline, all in milliseconds.
type Event struct {
	ClipName    string
	SourceInMs  int
	SourceOutMs int
	RecordInMs  int
	RecordOutMs int
}

// FromTimeline converts the video clips of a timeline into EDL events in
// record order. assetNames maps asset ids to display names; unresolved ids
// fall back to the asset id.
func FromTimeline(clips []timeline.Clip, assetNames map[string]string) []Event {
	var events []Event
	for _, c := range clips {
		if c.Type != timeline.TrackVideo {
			continue
		}
		name := assetNames[c.AssetID]
		if name == "" {
			name = c.AssetID
		}
		events = append(events, Event{
			ClipName:    SanitizeName(name, 80),
			SourceInMs:  baseToMs(c.MediaOffset),
			SourceOutMs: baseToMs(c.MediaOffset + c.Duration),
			RecordInMs:  baseToMs(c.StartTime),
			RecordOutMs: baseToMs(c.End()),
		})
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].RecordInMs < events[j].RecordInMs
	})
	return events
}

// GenerateEDL renders events as a CMX3600 list with SMPTE timecodes.
func GenerateEDL(events []Event, title string, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 30
	}

	isDropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	lines := []string{fmt.Sprintf("TITLE: %s", SanitizeName(title, 60))}
	if isDropFrame {
		lines = append(lines, "FCM: DROP FRAME")
	} else {
		lines = append(lines, "FCM: NON-DROP FRAME")
	}
	lines = append(lines, "")

	for i, ev := range events {
		srcIn := msToTimecode(ev.SourceInMs, fps)
		srcOut := msToTimecode(ev.SourceOutMs, fps)
		recIn := msToTimecode(ev.RecordInMs, fps)
		recOut := msToTimecode(ev.RecordOutMs, fps)

		lines = append(lines,
			fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s", i+1, "AX", "V", srcIn, srcOut, recIn, recOut),
			fmt.Sprintf("* FROM CLIP NAME:  %s", ev.ClipName),
		)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func baseToMs(base float64) int {
	return int(math.Round(timeline.BaseToSeconds(base) * 1000))
}

func msToTimecode(ms int, fps int) string {
	totalFrames := int(math.Round(float64(ms) * float64(fps) / 1000.0))
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames)
}
