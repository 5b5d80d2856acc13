package store

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper/internal/mines"
)

func newSession(t *testing.T) *mines.Session {
	t.Helper()
	b, err := mines.NewBoardFromMines(3, []mines.Point{{Row: 0, Col: 0}})
	require.NoError(t, err)
	return mines.NewSessionWithBoard(b)
}

func TestStoreGetMissing(t *testing.T) {
	s := New()
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete("nope"), ErrNotFound)
}

func TestStoreCreateGetDelete(t *testing.T) {
	s := New()
	e := s.Create(newSession(t))

	_, err := uuid.Parse(e.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	got, err := s.Get(e.ID)
	require.NoError(t, err)
	assert.Same(t, e, got)

	require.NoError(t, s.Delete(e.ID))
	assert.Zero(t, s.Len())
	_, err = s.Get(e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntryStampsEnd(t *testing.T) {
	e := New().Create(newSession(t))

	snap := e.Snapshot()
	assert.Equal(t, e.ID, snap.ID)
	assert.False(t, snap.StartedAt.IsZero())
	assert.Nil(t, snap.EndedAt)
	assert.Equal(t, mines.InProgress, snap.View.State)

	snap, err := e.Do(func(s *mines.Session) error {
		_, err := s.HandlePrimaryAction(mines.Point{Row: 2, Col: 2})
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, snap.EndedAt)
	assert.Equal(t, mines.Won, snap.View.State)
	assert.Equal(t, 8, snap.Revealed)
	first := *snap.EndedAt

	snap, err = e.Do(func(s *mines.Session) error {
		_, err := s.HandlePrimaryAction(mines.Point{Row: 0, Col: 0})
		return err
	})
	assert.ErrorIs(t, err, mines.ErrGameOver)
	assert.Equal(t, first, *snap.EndedAt)
	assert.Equal(t, first, *e.Snapshot().EndedAt)

	snap, err = e.Restart(rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	assert.Nil(t, snap.EndedAt)
	assert.Equal(t, mines.InProgress, snap.View.State)
	assert.Nil(t, e.Snapshot().EndedAt)
}

func TestRestartChangesGameID(t *testing.T) {
	e := New().Create(newSession(t))
	first := e.Snapshot().GameID
	_, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.NotEqual(t, e.ID, first)

	snap, err := e.Restart(rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	assert.Equal(t, e.ID, snap.ID)
	assert.NotEqual(t, first, snap.GameID)
	assert.Equal(t, snap.GameID, e.Snapshot().GameID)
}

func TestSweepIdle(t *testing.T) {
	s := New()
	e := s.Create(newSession(t))

	assert.Zero(t, s.Sweep(time.Now().UTC(), time.Hour, time.Minute))
	assert.Equal(t, 1, s.Len())

	assert.Equal(t, 1, s.Sweep(time.Now().UTC().Add(2*time.Hour), time.Hour, 0))
	_, err := s.Get(e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSweepFinished(t *testing.T) {
	s := New()
	finished := s.Create(newSession(t))
	playing := s.Create(newSession(t))

	_, err := finished.Do(func(s *mines.Session) error {
		_, err := s.HandlePrimaryAction(mines.Point{Row: 0, Col: 0})
		return err
	})
	require.NoError(t, err)

	later := time.Now().UTC().Add(10 * time.Minute)
	assert.Equal(t, 1, s.Sweep(later, time.Hour, 5*time.Minute))

	_, err = s.Get(finished.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(playing.ID)
	assert.NoError(t, err)
}

func TestSweepDisabled(t *testing.T) {
	s := New()
	s.Create(newSession(t))
	assert.Zero(t, s.Sweep(time.Now().UTC().Add(1000*time.Hour), 0, 0))
	assert.Equal(t, 1, s.Len())
}

func TestStoreConcurrentCreate(t *testing.T) {
	s := New()
	sessions := make([]*mines.Session, 50)
	for i := range sessions {
		sessions[i] = newSession(t)
	}
	var wg sync.WaitGroup
	for _, session := range sessions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e := s.Create(session)
			_, _ = e.Do(func(s *mines.Session) error {
				_, err := s.HandleSecondaryAction(mines.Point{Row: 1, Col: 1})
				return err
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
}

func TestDoSnapshotSurvivesRestart(t *testing.T) {
	e := New().Create(newSession(t))

	snap, err := e.Do(func(s *mines.Session) error {
		_, err := s.HandlePrimaryAction(mines.Point{Row: 2, Col: 2})
		return err
	})
	require.NoError(t, err)

	_, err = e.Restart(rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)

	require.NotNil(t, snap.EndedAt)
	assert.Equal(t, mines.Won, snap.View.State)
	assert.NotEqual(t, snap.GameID, e.Snapshot().GameID)
}
