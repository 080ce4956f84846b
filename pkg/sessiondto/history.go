package sessiondto

import "time"

// GameSummary is one line of archived game history.
type GameSummary struct {
	ID          int64
	Result      string
	Termination string
	HumanColor  string
	Difficulty  string
	MoveCount   int
	EngineName  string
	EndedAt     time.Time
}
