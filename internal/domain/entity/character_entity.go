package entity

import "time"

type CharacterStatus string

const (
	CharacterActive   CharacterStatus = "ACTIVE"
	CharacterInactive CharacterStatus = "INACTIVE"
)

// Character is a player-owned persona that participates in games.
type Character struct {
	ID               string
	OwnerID          string
	Name             string
	DisplayName      string
	AvatarURL        string
	FeaturedImageURL string
	Crowns           int
	Strikes          int
	Status           CharacterStatus
	CurrentGameID    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
