package championship

import "time"

// 赛制
const (
	TYPE_SWISS              = "Swiss"
	TYPE_SINGLE_ELIMINATION = "SingleElimination"
)

const (
	DEFAULT_WIN_POINTS  = 3
	DEFAULT_DRAW_POINTS = 1
	DEFAULT_LOSE_POINTS = 0
)

type Player struct {
	Name   string `json:"name"`
	Number string `json:"number,omitempty"`
	Score  int    `json:"score"`
}

type Pairing struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
}

type MatchResult struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
	Score1  int    `json:"score1"`
	Score2  int    `json:"score2"`
}

type Round struct {
	Number   int           `json:"number"`
	Pairings []Pairing     `json:"pairings"`
	Results  []MatchResult `json:"results"`
	// 轮空的玩家，可为空
	Bye string `json:"bye,omitempty"`
}

type Points struct {
	Win  int `json:"win"`
	Draw int `json:"draw"`
	Lose int `json:"lose"`
}

var DefaultPoints = Points{
	Win:  DEFAULT_WIN_POINTS,
	Draw: DEFAULT_DRAW_POINTS,
	Lose: DEFAULT_LOSE_POINTS,
}

type Standing struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Number string `json:"number,omitempty"`
	Score  int    `json:"score"`
}

type Championship struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Points    Points    `json:"points"`
	Players   []*Player `json:"players"`
	Active    []string  `json:"active"`
	Removed   []string  `json:"removed"`
	Rounds    []Round   `json:"rounds"`
	Finished  bool      `json:"finished"`
	CreatedAt time.Time `json:"created_at"`

	shuffle Shuffler
}
