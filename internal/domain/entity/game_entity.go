package entity

import "time"

// GameStatus tracks a game through its lifecycle.
type GameStatus string

const (
	GameEnlisting GameStatus = "ENLISTING"
	GameOngoing   GameStatus = "ONGOING"
	GameCompleted GameStatus = "COMPLETED"
)

// Game is a hosted round of the mafia game. Reward fields are what winners
// and losers take home when the game completes.
type Game struct {
	ID                        string
	Name                      string
	Location                  string
	PlayerCount               int
	Status                    GameStatus
	MainHostID                string
	ParticipatingCharacterIDs []string
	WinnerCrowns              int
	WinnerRubies              int
	LoserRubies               int
	LoserStrikes              int
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}
