package partylan

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Status selects which log line grammars are active while parsing, and
// tags each parsed entry with the grammar that produced it.
type Status int

const (
	StatusAll Status = iota
	StatusAccepted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusAccepted:
		return "accepted"
	case StatusFailed:
		return "failed"
	default:
		return "all"
	}
}

// Entry is one parsed peer discovery event.
type Entry struct {
	Timestamp  time.Time
	Version    string
	Build      string
	SourcePath string
	SourceLine int
	PeerID     uint64
	Status     Status
}

const timestampLayout = "2006-01-02T15:04:05"

// Line grammars, compiled once. Example lines:
//
//	[2025-01-27T21:20:09] v0.1.3(015cadd) partylan\src\steam.cpp:261 Accepted session with 76561197279154321
//	[2025-01-27T21:19:58] v0.1.3(015cadd) partylan\src\steam.cpp:269 Session with 76561197783410123 failed
var (
	acceptedPattern = regexp.MustCompile(
		`^\[(?P<timestamp>\d+-\d+-\d+T\d+:\d+:\d+)\] v(?P<version>\d+\.\d+\.\d+)\((?P<build>\S+)\) (?P<path>.*):(?P<line>\d+) Accepted\b.*?(?P<peer>\d{17})`)
	failedPattern = regexp.MustCompile(
		`^\[(?P<timestamp>\d+-\d+-\d+T\d+:\d+:\d+)\] v(?P<version>\d+\.\d+\.\d+)\((?P<build>\S+)\) (?P<path>.*):(?P<line>\d+) Session\b.*?(?P<peer>\d{17}).*\bfailed\b`)
)

type grammar struct {
	re     *regexp.Regexp
	status Status
}

// grammars returns the line grammars enabled by the filter. New status
// kinds slot in here as additional grammars.
func grammars(filter Status) []grammar {
	accepted := grammar{acceptedPattern, StatusAccepted}
	failed := grammar{failedPattern, StatusFailed}
	switch filter {
	case StatusAccepted:
		return []grammar{accepted}
	case StatusFailed:
		return []grammar{failed}
	default:
		return []grammar{accepted, failed}
	}
}

// ParseLog parses raw multi-line log text against the grammars enabled by
// filter and returns entries in source-line order. Lines matching no active
// grammar are skipped silently; a peer id may appear in multiple entries if
// it reconnected.
func ParseLog(content string, filter Status) []Entry {
	active := grammars(filter)
	var entries []Entry
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, g := range active {
			m := g.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if e, ok := newEntry(g, m); ok {
				entries = append(entries, e)
			}
		}
	}
	return entries
}

func newEntry(g grammar, match []string) (Entry, bool) {
	field := func(name string) string {
		return match[g.re.SubexpIndex(name)]
	}

	ts, err := time.Parse(timestampLayout, field("timestamp"))
	if err != nil {
		return Entry{}, false
	}
	srcLine, err := strconv.Atoi(field("line"))
	if err != nil {
		return Entry{}, false
	}
	peerID, err := strconv.ParseUint(field("peer"), 10, 64)
	if err != nil {
		return Entry{}, false
	}

	return Entry{
		Timestamp:  ts.UTC(),
		Version:    field("version"),
		Build:      field("build"),
		SourcePath: field("path"),
		SourceLine: srcLine,
		PeerID:     peerID,
		Status:     g.status,
	}, true
}
