package session

import "strings"

// Difficulty presets map onto fixed search depths.
const (
	LevelEasy   = "easy"
	LevelMedium = "medium"
	LevelHard   = "hard"
)

func DepthForLevel(level string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case LevelEasy:
		return 1, true
	case LevelMedium:
		return 2, true
	case LevelHard:
		return 3, true
	}
	return 0, false
}

func LevelForDepth(depth int) string {
	switch depth {
	case 1:
		return LevelEasy
	case 2:
		return LevelMedium
	default:
		return LevelHard
	}
}
