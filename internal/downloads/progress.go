package downloads

import (
	"fmt"
	"strconv"
	"strings"

	"grabarr/internal/domain/regex"
	"grabarr/internal/models"
)

// ParseLine extracts a progress event from one line of tool output.
// Recognized lines: the percent/size/speed progress line, the destination
// announcement, the merge notice and the already-downloaded notice.
func ParseLine(line string) (models.Progress, bool) {
	line = regex.AnsiEscapeCompile().ReplaceAllString(line, "")

	if m := regex.ProgressCompile().FindStringSubmatch(line); m != nil {
		percent, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return models.Progress{}, false
		}

		size, speed, eta := m[2], m[3], m[4]
		fragCur, fragTotal := m[5], m[6]

		var status string
		switch {
		case fragCur != "" && fragTotal != "":
			status = fmt.Sprintf("%.1f%% of %s @ %s ETA %s (frag %s/%s)", percent, size, speed, eta, fragCur, fragTotal)
		case eta != "":
			status = fmt.Sprintf("%.1f%% of %s @ %s ETA %s", percent, size, speed, eta)
		default:
			status = fmt.Sprintf("%.1f%% of %s @ %s", percent, size, speed)
		}
		return models.Progress{Percent: percent, Status: status}, true
	}

	if m := regex.DestCompile().FindStringSubmatch(line); m != nil {
		name := m[1]
		if i := strings.LastIndexByte(name, '/'); i >= 0 {
			name = name[i+1:]
		}
		name = truncate(name, 50)
		return models.Progress{Percent: 0, Status: "Starting: " + name}, true
	}

	if regex.MergeCompile().MatchString(line) {
		return models.Progress{Percent: 99.0, Status: "Merging video and audio"}, true
	}

	if regex.AlreadyCompile().MatchString(line) {
		return models.Progress{Percent: 100.0, Status: "File already downloaded"}, true
	}

	return models.Progress{}, false
}

// tracker fans progress events out to the caller and, at a reduced rate, to
// the history store.
type tracker struct {
	emit    models.ProgressFunc
	persist func(percent float64)

	lastPersisted float64
}

func (t *tracker) event(p models.Progress) {
	if t.emit != nil {
		t.emit(p)
	}
	// Persist at whole-percent granularity to keep write volume sane.
	if t.persist != nil && p.Percent >= t.lastPersisted+1.0 {
		t.lastPersisted = p.Percent
		t.persist(p.Percent)
	}
}

func (t *tracker) line(line string) {
	if p, ok := ParseLine(line); ok {
		t.event(p)
	}
}
