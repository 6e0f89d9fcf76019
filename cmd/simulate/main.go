// Command simulate runs a batch of simulated hands with bot strategies
// seated at every position and reports each seat's BB/100 win rate.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/pokerengine/internal/portlog"
	"github.com/lox/pokerengine/internal/session"
)

type CLI struct {
	Hands      int    `default:"50000" help:"Number of hands to simulate"`
	Players    int    `default:"6" help:"Number of seats at the table (2-10)"`
	StartMoney int    `default:"200" help:"Starting stack per seat, in chips"`
	SmallBlind int    `default:"1" help:"Small blind size, in chips"`
	Profile    string `default:"random" help:"Table profile: random, tag, lag, maniac"`
	Seed       int64  `default:"0" help:"RNG seed (0 picks a time-derived seed)"`
	Verbose    bool   `short:"v" help:"Verbose logging"`
	AuditLog   string `help:"Write a PHH-style hand history to this file"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("simulate"),
		kong.Description("Simulate a batch of no-limit hold'em hands against bot strategies."),
	)

	if cli.Seed == 0 {
		cli.Seed = time.Now().UnixNano()
	}

	level := log.InfoLevel
	if cli.Verbose {
		level = log.DebugLevel
	}
	charmLogger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Level: level})

	profile, err := parseProfile(cli.Profile)
	if err != nil {
		charmLogger.Fatal(err.Error())
	}

	opts := []session.Option{
		session.WithLogger(portlog.NewConsole(os.Stderr)),
		session.WithSeed(cli.Seed),
	}

	var auditFile *os.File
	if cli.AuditLog != "" {
		f, err := os.Create(cli.AuditLog)
		if err != nil {
			charmLogger.Fatal("failed to open audit log", "path", cli.AuditLog, "err", err)
		}
		auditFile = f
		opts = append(opts, session.WithAuditStore(f))
	}

	cfg := session.Config{
		MaxNumberOfPlayers:  cli.Players,
		StartMoney:          cli.StartMoney,
		FirstSmallBlind:     cli.SmallBlind,
		TableProfile:        profile,
		StartDealerPlayerID: session.AutoSelectDealer,
		HumanSeat:           -1,
	}

	sess, err := session.New(cfg, opts...)
	if err != nil {
		charmLogger.Fatal("failed to start session", "err", err)
	}

	charmLogger.Info("starting simulation",
		"hands", cli.Hands, "players", cli.Players, "profile", profile, "seed", cli.Seed)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	start := time.Now()
	played := 0
	for i := 0; i < cli.Hands; i++ {
		if err := sess.Game.StartNewHand(ctx); err != nil {
			charmLogger.Error("hand aborted", "hand", i, "err", err)
			break
		}
		played++
	}
	elapsed := time.Since(start)

	if auditFile != nil {
		if err := auditFile.Close(); err != nil {
			charmLogger.Error("failed to close audit log", "err", err)
		}
	}

	printResults(sess, played, elapsed)
	kctx.Exit(0)
}

func parseProfile(name string) (session.TableProfile, error) {
	switch name {
	case "random":
		return session.RandomOpponents, nil
	case "tag":
		return session.TightAggressiveOpponents, nil
	case "lag":
		return session.LargeAggressiveOpponents, nil
	case "maniac":
		return session.ManiacOpponents, nil
	default:
		return 0, fmt.Errorf("unknown table profile %q (want random, tag, lag, maniac)", name)
	}
}

func printResults(sess *session.Session, played int, elapsed time.Duration) {
	fmt.Printf("\n=== SIMULATION RESULTS ===\n")
	fmt.Printf("Hands played: %d in %v (%.0f hands/sec)\n",
		played, elapsed.Round(time.Millisecond), float64(played)/elapsed.Seconds())

	fmt.Printf("\n%-6s %-8s %10s %10s %20s %12s\n", "Seat", "Chips", "Hands", "BB/100", "95% CI", "Showdown%")
	seats := sess.Results.Seats()
	sort.Ints(seats)
	for _, seatID := range seats {
		r := sess.Results.Result(seatID)
		chips := sess.Game.SeatChips(seatID)
		fmt.Printf("%-6d %-8d %10d %10.2f [%7.2f,%7.2f] %11.1f%%\n",
			seatID, chips, r.Hands, r.BB100, r.CI95Low, r.CI95High, r.ShowdownRate*100)
	}
}
