package dto

// NewGameRequest carries the two names collected before a game starts.
type NewGameRequest struct {
	FirstPlayer  string `json:"first_player" validate:"required,max=32"`
	SecondPlayer string `json:"second_player" validate:"required,max=32"`
}

type TurnRequest struct {
	Cell *int `json:"cell" validate:"required"`
}
