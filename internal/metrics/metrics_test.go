package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/vancomm/sweeper/internal/mines"
)

func TestObservePrimary(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObservePrimary(mines.ActionResult{
		Outcome:  mines.Win,
		Revealed: make([]mines.RevealedCell, 8),
	}, nil)
	m.ObservePrimary(mines.ActionResult{Outcome: mines.Lose}, nil)
	m.ObservePrimary(mines.ActionResult{Outcome: mines.Lose}, mines.ErrGameOver)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.GamesFinished.WithLabelValues("won")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GamesFinished.WithLabelValues("lost")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Actions.WithLabelValues("reveal", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Actions.WithLabelValues("reveal", "rejected")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CellsRevealed))
}

func TestObserveSecondary(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveSecondary(nil)
	m.ObserveSecondary(errors.New("nope"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Actions.WithLabelValues("flag", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Actions.WithLabelValues("flag", "rejected")))
}
