package entity

type Player struct {
	Mark     Mark   `json:"mark"`
	Name     string `json:"name"`
	GamesWon int    `json:"games_won"`
}

func NewPlayer(mark Mark, name string) *Player {
	return &Player{
		Mark: mark,
		Name: name,
	}
}

func (that *Player) Win() {
	that.GamesWon++
}

func (that *Player) Summary() PlayerSummary {
	return PlayerSummary{
		Name:     that.Name,
		GamesWon: that.GamesWon,
	}
}

// PlayerSummary is what the results panel shows for one player.
type PlayerSummary struct {
	Name     string `json:"name"`
	GamesWon int    `json:"games_won"`
}
