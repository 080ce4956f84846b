// Package sessiondto holds the plain data structures handed to renderers.
// Nothing in here reaches back into the session internals.
package sessiondto

// View is a read-only projection of the running session.
type View struct {
	FEN             string
	Turn            string
	State           string
	Selected        string
	Targets         []string
	MovesUCI        []string
	MovesSAN        []string
	HumanColor      string
	AIEnabled       bool
	SearchDepth     int
	Difficulty      string
	CapturedByWhite string
	CapturedByBlack string
	Result          string
	Termination     string
	Winner          string
	LastMove        string
	LastMoveSource  string
}

// GameInProgress reports whether the projected game is still being played.
func (v View) GameInProgress() bool {
	return v.Termination == ""
}
