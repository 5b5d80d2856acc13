package handlers

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/metrics"
	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/repository"
	"github.com/vancomm/sweeper/internal/store"
)

type TokenSigner interface {
	Sign(sessionId string) (string, error)
}

type Journal interface {
	RecordOutcome(ctx context.Context, o repository.GameOutcome) error
	ListOutcomes(ctx context.Context, f repository.OutcomeFilter) ([]repository.GameOutcome, error)
}

var ErrNoJournal = errors.New("outcome journal not configured")

const journalTimeout = 5 * time.Second

type GameHandler struct {
	log       logrus.FieldLogger
	store     *store.Store
	tokens    TokenSigner
	journal   Journal
	metrics   *metrics.Metrics
	newRand   func() *rand.Rand
	defaults  config.Game
	placement mines.Placement
}

type GameHandlerParams struct {
	Log       logrus.FieldLogger
	Store     *store.Store
	Tokens    TokenSigner
	Journal   Journal // nil disables the journal
	Metrics   *metrics.Metrics
	NewRand   func() *rand.Rand
	Defaults  config.Game
	Placement mines.Placement
}

func NewGameHandler(p GameHandlerParams) *GameHandler {
	return &GameHandler{
		log:       p.Log,
		store:     p.Store,
		tokens:    p.Tokens,
		journal:   p.Journal,
		metrics:   p.Metrics,
		newRand:   p.NewRand,
		defaults:  p.Defaults,
		placement: p.Placement,
	}
}

func (g *GameHandler) maxSize() int {
	if g.defaults.MaxSize > 0 {
		return g.defaults.MaxSize
	}
	return config.DefaultMaxSize
}

func (g *GameHandler) entry(w http.ResponseWriter, r *http.Request) (*store.Entry, bool) {
	e, err := g.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, g.log, err)
		return nil, false
	}
	return e, true
}

func (g *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseNewGameDTO(r.URL.Query())
	if err != nil {
		sendJSONOrLog(w, g.log, http.StatusBadRequest, wrapError(err))
		return
	}

	size, mineCount := g.defaults.Size, g.defaults.MineCount
	if dto.Size != nil {
		size = *dto.Size
	}
	if dto.MineCount != nil {
		mineCount = *dto.MineCount
	}
	if maxSize := g.maxSize(); size > maxSize {
		sendError(w, g.log, fmt.Errorf(
			"%w: size %d exceeds maximum %d",
			mines.ErrInvalidConfiguration, size, maxSize,
		))
		return
	}

	session, err := mines.NewSessionWithPlacement(size, mineCount, g.newRand(), g.placement)
	if err != nil {
		sendError(w, g.log, err)
		return
	}

	e := g.store.Create(session)
	g.metrics.GamesStarted.Inc()
	g.metrics.ActiveSessions.Set(float64(g.store.Len()))

	token, err := g.tokens.Sign(e.ID)
	if err != nil {
		g.store.Delete(e.ID)
		sendError(w, g.log, err)
		return
	}

	g.log.WithFields(logrus.Fields{
		"sessionId": e.ID,
		"size":      size,
		"mineCount": mineCount,
	}).Debug("created game session")

	dtoOut := NewGameSessionDTO(e.Snapshot())
	dtoOut.Token = token
	sendJSONOrLog(w, g.log, http.StatusCreated, dtoOut)
}

func (g *GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	e, ok := g.entry(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, g.log, http.StatusOK, NewGameSessionDTO(e.Snapshot()))
}

func (g *GameHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	pos, err := ParsePosition(r.URL.Query())
	if err != nil {
		sendJSONOrLog(w, g.log, http.StatusBadRequest, wrapError(err))
		return
	}
	e, ok := g.entry(w, r)
	if !ok {
		return
	}

	res, snap, err := g.reveal(r.Context(), e, pos)
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	sendJSONOrLog(w, g.log, http.StatusOK, RevealDTO{
		Result:  res,
		Session: NewGameSessionDTO(snap),
	})
}

func (g *GameHandler) Flag(w http.ResponseWriter, r *http.Request) {
	pos, err := ParsePosition(r.URL.Query())
	if err != nil {
		sendJSONOrLog(w, g.log, http.StatusBadRequest, wrapError(err))
		return
	}
	e, ok := g.entry(w, r)
	if !ok {
		return
	}

	res, snap, err := g.flag(e, pos)
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	sendJSONOrLog(w, g.log, http.StatusOK, FlagDTO{
		Result:  res,
		Session: NewGameSessionDTO(snap),
	})
}

func (g *GameHandler) Restart(w http.ResponseWriter, r *http.Request) {
	e, ok := g.entry(w, r)
	if !ok {
		return
	}
	snap, err := g.restart(e)
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	sendJSONOrLog(w, g.log, http.StatusOK, NewGameSessionDTO(snap))
}

func (g *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := g.store.Delete(chi.URLParam(r, "id")); err != nil {
		sendError(w, g.log, err)
		return
	}
	g.metrics.ActiveSessions.Set(float64(g.store.Len()))
	w.WriteHeader(http.StatusNoContent)
}

func (g *GameHandler) Outcomes(w http.ResponseWriter, r *http.Request) {
	if g.journal == nil {
		sendJSONOrLog(w, g.log, http.StatusNotFound, wrapError(ErrNoJournal))
		return
	}
	dto, err := ParseOutcomeQuery(r.URL.Query())
	if err != nil {
		sendJSONOrLog(w, g.log, http.StatusBadRequest, wrapError(err))
		return
	}
	outcomes, err := g.journal.ListOutcomes(r.Context(), repository.OutcomeFilter{
		Outcome: dto.Outcome,
		Size:    dto.Size,
		Limit:   dto.Limit,
	})
	if err != nil {
		sendError(w, g.log, err)
		return
	}
	sendJSONOrLog(w, g.log, http.StatusOK, outcomes)
}

// reveal is shared by the HTTP and websocket paths.
func (g *GameHandler) reveal(
	ctx context.Context, e *store.Entry, pos mines.Point,
) (mines.ActionResult, store.Snapshot, error) {
	var res mines.ActionResult
	snap, err := e.Do(func(s *mines.Session) (err error) {
		res, err = s.HandlePrimaryAction(pos)
		return err
	})
	g.metrics.ObservePrimary(res, err)
	if err != nil {
		return res, store.Snapshot{}, err
	}

	if res.Outcome != mines.Continue {
		g.record(ctx, snap)
	}
	return res, snap, nil
}

func (g *GameHandler) flag(e *store.Entry, pos mines.Point) (mines.FlagResult, store.Snapshot, error) {
	var res mines.FlagResult
	snap, err := e.Do(func(s *mines.Session) (err error) {
		res, err = s.HandleSecondaryAction(pos)
		return err
	})
	g.metrics.ObserveSecondary(err)
	if err != nil {
		return res, store.Snapshot{}, err
	}
	return res, snap, nil
}

func (g *GameHandler) restart(e *store.Entry) (store.Snapshot, error) {
	snap, err := e.Restart(g.newRand())
	if err != nil {
		return snap, err
	}
	g.metrics.GamesStarted.Inc()
	g.log.WithFields(logrus.Fields{
		"sessionId": e.ID,
		"gameId":    snap.GameID,
	}).Debug("restarted game session")
	return snap, nil
}

// record journals a finished session. Failures are logged, never surfaced
// to the player.
func (g *GameHandler) record(ctx context.Context, snap store.Snapshot) {
	log := g.log.WithFields(logrus.Fields{
		"sessionId": snap.ID,
		"gameId":    snap.GameID,
		"state":     snap.View.State.String(),
	})
	log.Info("game finished")

	if g.journal == nil || snap.EndedAt == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()

	err := g.journal.RecordOutcome(ctx, repository.GameOutcome{
		GameId:    snap.GameID,
		SessionId: snap.ID,
		Size:      snap.View.Size,
		MineCount: snap.View.MineCount,
		Outcome:   snap.View.State.String(),
		Revealed:  snap.Revealed,
		StartedAt: snap.StartedAt,
		EndedAt:   *snap.EndedAt,
	})
	if err != nil {
		log.WithError(err).Warn("unable to record game outcome")
	}
}
