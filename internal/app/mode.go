package app

import "strings"

// Mode is the front end driving a session. It is recorded on each solve run.
type Mode string

const (
	ModeTUI Mode = "tui"
	ModeWeb Mode = "web"
)

func normalizeMode(raw string) Mode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(ModeWeb), "http", "serve":
		return ModeWeb
	default:
		return ModeTUI
	}
}
