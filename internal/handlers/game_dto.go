package handlers

import (
	"github.com/gorilla/schema"

	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/store"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type NewGameDTO struct {
	Size      *int `schema:"size"`
	MineCount *int `schema:"mine_count"`
}

func ParseNewGameDTO(src map[string][]string) (NewGameDTO, error) {
	var dto NewGameDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type PositionDTO struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

func ParsePosition(src map[string][]string) (mines.Point, error) {
	var dto PositionDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return mines.Point{}, err
	}
	return mines.Point{Row: dto.Row, Col: dto.Col}, nil
}

type OutcomeQueryDTO struct {
	Outcome *string `schema:"outcome"`
	Size    *int    `schema:"size"`
	Limit   int     `schema:"limit"`
}

func ParseOutcomeQuery(src map[string][]string) (OutcomeQueryDTO, error) {
	var dto OutcomeQueryDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type GameSessionDTO struct {
	GameSessionId string          `json:"game_session_id"`
	GameId        string          `json:"game_id"`
	Token         string          `json:"token,omitempty"`
	Board         mines.BoardView `json:"board"`
	StartedAt     int64           `json:"started_at"`
	EndedAt       *int64          `json:"ended_at,omitempty"`
}

func NewGameSessionDTO(snap store.Snapshot) GameSessionDTO {
	var endedAt *int64
	if snap.EndedAt != nil {
		e := snap.EndedAt.UnixMilli()
		endedAt = &e
	}
	return GameSessionDTO{
		GameSessionId: snap.ID,
		GameId:        snap.GameID,
		Board:         snap.View,
		StartedAt:     snap.StartedAt.UnixMilli(),
		EndedAt:       endedAt,
	}
}

type RevealDTO struct {
	Result  mines.ActionResult `json:"result"`
	Session GameSessionDTO     `json:"session"`
}

type FlagDTO struct {
	Result  mines.FlagResult `json:"result"`
	Session GameSessionDTO   `json:"session"`
}
