package dto

import "time"

// 报名表中一行玩家信息
type PlayerEntry struct {
	Name   string `json:"name"`
	Number string `json:"number,omitempty"`
}

type CreateChampionshipRequest struct {
	Name    string        `json:"name"`
	Type    string        `json:"type"`
	Players []PlayerEntry `json:"players"`
}

type CreateChampionshipResponse struct {
	ChampionshipID string `json:"championship_id"`
}

type ChampionshipSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Finished    bool      `json:"finished"`
	CreatedAt   time.Time `json:"created_at"`
	RoundNumber int       `json:"round_number"`
	PlayerCount int       `json:"player_count"`
}

// key: 玩家名, value: 该玩家本局得分
type SubmitRoundRequest struct {
	Scores map[string]int `json:"scores"`
}
