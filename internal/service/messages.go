package service

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/allinbank/internal/export"
	"github.com/mmynk/allinbank/internal/models"
)

type CreateGameRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency,omitempty"`
	// DefaultBuyIn is a decimal string; empty uses the server default.
	DefaultBuyIn string `json:"default_buy_in,omitempty"`
	Passcode     string `json:"passcode,omitempty"`
}

// GameResponse is returned by CreateGame and OpenGame. Token authorizes
// every other call on the game.
type GameResponse struct {
	Game  *models.Game `json:"game"`
	Token string       `json:"token"`
}

type OpenGameRequest struct {
	GameID   string `json:"game_id"`
	Passcode string `json:"passcode,omitempty"`
}

type ListGamesRequest struct{}

type ListGamesResponse struct {
	Games []*models.Game `json:"games"`
}

type AddPlayerRequest struct {
	GameID string `json:"game_id"`
	Name   string `json:"name"`
}

type AddPlayerResponse struct {
	Player models.Player `json:"player"`
}

type RecordEntryRequest struct {
	GameID string `json:"game_id"`
	Player string `json:"player"`
	Kind   string `json:"kind"`
	Amount string `json:"amount"`
}

type EntryResponse struct {
	Entry models.LedgerEntry `json:"entry"`
}

type SetCashOutRequest struct {
	GameID string `json:"game_id"`
	Player string `json:"player"`
	Amount string `json:"amount"`
}

type RemoveEntryRequest struct {
	GameID  string `json:"game_id"`
	EntryID string `json:"entry_id"`
}

type GameRequest struct {
	GameID string `json:"game_id"`
}

type ImportLedgerRequest struct {
	GameID  string               `json:"game_id"`
	Players []models.Player      `json:"players"`
	Entries []models.LedgerEntry `json:"entries"`
}

type Empty struct{}

type SummaryResponse struct {
	Players      []models.Player        `json:"players"`
	Balances     []models.PlayerBalance `json:"balances"`
	TotalBuyIn   decimal.Decimal        `json:"total_buyin"`
	TotalCashOut decimal.Decimal        `json:"total_cashout"`
	Unmatched    decimal.Decimal        `json:"unmatched"`

	// Balanced is true when every chip bought has been cashed out and the
	// game can be settled.
	Balanced  bool              `json:"balanced"`
	Transfers []models.Transfer `json:"transfers"`

	Winner *models.PlayerBalance `json:"winner,omitempty"`
	Loser  *models.PlayerBalance `json:"loser,omitempty"`
}

type SettleResponse struct {
	Transfers []models.Transfer `json:"transfers"`
}

type ExportResponse struct {
	Snapshot export.Snapshot `json:"snapshot"`
}
