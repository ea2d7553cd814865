package main

import (
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/cardroom/holdem/internal/simulator"
)

var CLI struct {
	Hands         int   `short:"n" default:"1000" help:"Number of hands to self-play"`
	Players       int   `short:"p" default:"4" help:"Number of seated players"`
	SmallBlind    int   `default:"10" help:"Small blind"`
	BigBlind      int   `default:"20" help:"Big blind"`
	StartingChips int   `default:"2000" help:"Starting stack per player"`
	Seed          int64 `short:"s" help:"RNG seed, 0 seeds from the clock"`
	Verbose       bool  `short:"v" help:"Print a summary of every hand"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logger := log.New(os.Stderr)
	if CLI.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	seed := CLI.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sim := simulator.New(simulator.Config{
		Hands:         CLI.Hands,
		Players:       CLI.Players,
		SmallBlind:    CLI.SmallBlind,
		BigBlind:      CLI.BigBlind,
		StartingChips: CLI.StartingChips,
		Seed:          seed,
		Verbose:       CLI.Verbose,
		Logger:        logger,
	})

	logger.Info("Starting simulation", "hands", CLI.Hands, "players", CLI.Players, "seed", seed)

	stats, err := sim.Run()
	if err != nil {
		logger.Error("Simulation failed", "error", err)
		ctx.Exit(1)
	}

	simulator.PrintSummary(stats)
}
