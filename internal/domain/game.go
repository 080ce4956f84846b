package domain

import "time"

// SessionSnapshot is the persisted projection of a live session. It carries
// exactly what the [GameState] section of a save file holds; everything else
// about a session is rebuilt by replaying MovesUCI from the initial position.
type SessionSnapshot struct {
	FEN             string
	MovesUCI        []string
	HumanColor      string // "white" | "black"
	AIEnabled       bool
	SearchDepth     int // 1..3
	CapturedByWhite string
	CapturedByBlack string
}

// GameRecord is a finished game as stored in the archive.
type GameRecord struct {
	ID          int64
	SessionUUID string
	Result      string // "1-0" | "0-1" | "1/2-1/2"
	Termination string
	HumanColor  string
	AIEnabled   bool
	SearchDepth int
	MovesUCI    []string
	MoveCount   int
	EngineName  string
	StartedAt   time.Time
	EndedAt     time.Time
}
