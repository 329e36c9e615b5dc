package transcript

import (
	"strconv"
	"strings"

	"github.com/truthquest/truthquest/internal/model"
)

// parseSRT parses SubRip caption data into ordered segments. Each block is
// separated by a blank line: sequence number, "start --> end" timestamp, then
// one or more text lines. SRT provides no usable per-cue duration so segments
// report 0.
func parseSRT(data []byte) []model.Segment {
	var segments []model.Segment

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	blocks := strings.Split(strings.TrimSpace(text), "\n\n")

	for _, block := range blocks {
		lines := strings.Split(block, "\n")
		if len(lines) < 3 {
			continue
		}

		start, ok := parseSRTTimestamp(strings.SplitN(lines[1], " --> ", 2)[0])
		if !ok {
			continue
		}

		segments = append(segments, model.Segment{
			Text:     strings.Join(lines[2:], " "),
			Start:    start,
			Duration: 0,
		})
	}

	return segments
}

// parseSRTTimestamp converts "HH:MM:SS,mmm" to seconds
func parseSRTTimestamp(ts string) (float64, bool) {
	ts = strings.TrimSpace(strings.ReplaceAll(ts, ",", "."))
	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0, false
	}

	h, err1 := strconv.ParseFloat(parts[0], 64)
	m, err2 := strconv.ParseFloat(parts[1], 64)
	s, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}

	return h*3600 + m*60 + s, true
}
