package domain

import (
	"fmt"
	"strings"
)

// GameMode is an osu! ruleset.
type GameMode int

// Game modes. The numeric values are the ones osutrack expects.
const (
	ModeOsu    GameMode = 0
	ModeTaiko  GameMode = 1
	ModeFruits GameMode = 2
	ModeMania  GameMode = 3

	// ModeDefault lets the osu! API pick the user's preferred ruleset.
	ModeDefault GameMode = -1
)

var modeNames = map[GameMode]string{
	ModeOsu:    "osu",
	ModeTaiko:  "taiko",
	ModeFruits: "fruits",
	ModeMania:  "mania",
}

// String returns the osu! API v2 ruleset name, or "" for ModeDefault.
func (m GameMode) String() string {
	return modeNames[m]
}

// ParseGameMode accepts API names, the "ctb" alias, and numeric forms.
// An empty string yields ModeDefault.
func ParseGameMode(s string) (GameMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ModeDefault, nil
	case "osu", "std", "0":
		return ModeOsu, nil
	case "taiko", "1":
		return ModeTaiko, nil
	case "fruits", "ctb", "catch", "2":
		return ModeFruits, nil
	case "mania", "3":
		return ModeMania, nil
	}
	return ModeDefault, fmt.Errorf("%w: %q", ErrInvalidGameMode, s)
}
