package simulator

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunHoldsInvariants(t *testing.T) {
	t.Parallel()

	sim := New(Config{
		Hands:   200,
		Players: 5,
		Seed:    12345,
		Logger:  log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}),
	})

	stats, err := sim.Run()
	require.NoError(t, err)
	assert.Positive(t, stats.HandsPlayed)
	assert.Positive(t, stats.Actions)
	assert.Equal(t, stats.HandsPlayed, stats.Showdowns+stats.FoldWins)
}

func TestRunIsDeterministicForASeed(t *testing.T) {
	t.Parallel()

	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	run := func() *Stats {
		stats, err := New(Config{Hands: 50, Players: 3, Seed: 99, Logger: logger}).Run()
		require.NoError(t, err)
		return stats
	}

	assert.Equal(t, run(), run())
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	sim := New(Config{Hands: 1})
	assert.Equal(t, 4, sim.config.Players)
	assert.Equal(t, 10, sim.config.SmallBlind)
	assert.Equal(t, 20, sim.config.BigBlind)
	assert.Equal(t, 2000, sim.config.StartingChips)
}
