package lotto

import "github.com/pauljones0/lotto-receipt-bot/internal/models"

// lastResultEntry is one element of the last-results-per-game response.
type lastResultEntry struct {
	GameType     string             `json:"gameType" validate:"required"`
	DrawSystemID *int64             `json:"drawSystemId"`
	DrawDate     string             `json:"drawDate"`
	Results      []drawResultDetail `json:"results" validate:"required,min=1,dive"`
}

type drawResultDetail struct {
	ResultsJSON    []int `json:"resultsJson" validate:"required,min=1"`
	SpecialResults []int `json:"specialResults"`
}

// prizeEntry is one element of the draw-prizes response.
type prizeEntry struct {
	GameType     string                      `json:"gameType" validate:"required"`
	DrawSystemID int64                       `json:"drawSystemId"`
	DrawDate     string                      `json:"drawDate" validate:"required"`
	Prizes       map[string]models.PrizeTier `json:"prizes" validate:"required"`
}

// infoEntry is one element of the lotteries/info response.
type infoEntry struct {
	GameType string `json:"gameType"`
	DrawDate string `json:"drawDate"`
}
