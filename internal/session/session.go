// Package session assembles a Game out of the engine, strategy and
// supporting-port packages: it is the outermost layer described in
// spec.md's Session/Game section, wiring dependency injection, dealer
// rotation and strategy assignment around the single-hand state machine
// in internal/engine.
package session

import (
	"io"
	"math/rand"

	"github.com/lox/pokerengine/internal/engine"
	"github.com/lox/pokerengine/internal/handaudit"
	"github.com/lox/pokerengine/internal/humanbridge"
	"github.com/lox/pokerengine/internal/portlog"
	"github.com/lox/pokerengine/internal/randutil"
	"github.com/lox/pokerengine/internal/statstore"
	"github.com/lox/pokerengine/internal/strategy"
)

// Session is the outermost assembly described in spec.md §4.9: it
// validates game parameters, constructs (or accepts injected)
// logger/evaluator/statistics-store/randomizer, builds the seat list by
// combining a strategy assigner with the player factory, then constructs
// the Game and fires onGameInitialized.
type Session struct {
	Game  *Game
	Stats *statstore.Store
	Results *statstore.SessionStats
}

// deps holds the injectable collaborators every Option mutates; New applies
// the defaults the teacher's cmd/pokerforbots/main.go wires when a caller
// doesn't override them.
type deps struct {
	logger    portlog.Logger
	evaluator HandEvaluator
	stats     *statstore.Store
	session   *statstore.SessionStats
	audit     *handaudit.Store
	sink      engine.EventSink
	rng       *rand.Rand
	seed      int64
	bridges   map[int]*humanbridge.Bridge
	onAwaiting map[int]func(seat int, legal []engine.ActionType)
}

// Option configures a Session at construction time.
type Option func(*deps)

// WithLogger installs a non-default Logger port implementation.
func WithLogger(l portlog.Logger) Option { return func(d *deps) { d.logger = l } }

// WithSeed fixes the Randomizer port's seed for deterministic replay,
// matching the CLI's --seed flag and spec §8's deterministic-replay property.
func WithSeed(seed int64) Option { return func(d *deps) { d.seed = seed; d.rng = randutil.New(seed) } }

// WithStatsStore installs a pre-populated PlayersStatisticsStore (§6),
// e.g. one restored from a prior session's persisted aggregates.
func WithStatsStore(s *statstore.Store) Option { return func(d *deps) { d.stats = s } }

// WithAuditStore wires the optional HandAuditStore port (§6): every
// completed hand is additionally recorded through it.
func WithAuditStore(w io.Writer) Option {
	return func(d *deps) { d.audit = handaudit.New(w) }
}

// WithEventSink adds an extra EventSink (on top of the audit store, when
// present) observing every hand's event stream — typically a Logger
// adapter or a test spy.
func WithEventSink(sink engine.EventSink) Option { return func(d *deps) { d.sink = sink } }

// WithHumanSeat wires seat id's strategy to a humanbridge.Strategy backed
// by bridge, instead of a bot profile, per spec.md §4.8. Must be combined
// with Config.HumanSeat naming the same seat.
func WithHumanSeat(seat int, bridge *humanbridge.Bridge, onAwaitingInput func(seat int, legal []engine.ActionType)) Option {
	return func(d *deps) {
		if d.bridges == nil {
			d.bridges = make(map[int]*humanbridge.Bridge)
			d.onAwaiting = make(map[int]func(int, []engine.ActionType))
		}
		d.bridges[seat] = bridge
		d.onAwaiting[seat] = onAwaitingInput
	}
}

// New validates cfg, assembles the seat list and its dependencies, and
// returns a ready-to-run Session. ConfigError surfaces synchronously here,
// before any hand begins, per spec.md §7's propagation policy.
func New(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &deps{
		logger:    portlog.Null{},
		evaluator: PokerPackageEvaluator{},
		stats:     statstore.New(),
		session:   statstore.NewSessionStats(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.rng == nil {
		d.rng = randutil.New(d.seed)
	}

	sink := engine.EventSink(engine.NullSink{})
	switch {
	case d.audit != nil && d.sink != nil:
		sink = engine.MultiSink{d.audit, d.sink}
	case d.audit != nil:
		sink = d.audit
	case d.sink != nil:
		sink = d.sink
	}

	tables := strategy.DefaultTables()
	names := cfg.seatNames()
	seats := make([]*seat, cfg.MaxNumberOfPlayers)
	for i := range seats {
		s := &seat{id: i, name: names[i], chips: cfg.StartMoney}
		if bridge, ok := d.bridges[i]; ok {
			s.isHuman = true
			s.strategy = humanbridge.NewStrategy(bridge, d.onAwaiting[i])
		} else {
			s.strategy = assignStrategy(cfg.TableProfile, i, tables, d.rng)
		}
		seats[i] = s
	}

	button := cfg.StartDealerPlayerID
	if button == AutoSelectDealer {
		button = 0
	}

	game := &Game{
		cfg:       cfg,
		seats:     seats,
		button:    button,
		rng:       d.rng,
		logger:    d.logger,
		evaluator: d.evaluator,
		stats:     d.stats,
		session:   d.session,
		audit:     d.audit,
		sink:      sink,
		tables:    tables,
	}

	sink.Publish(engine.Event{Type: engine.EventGameInitialized})

	return &Session{Game: game, Stats: d.stats, Results: d.session}, nil
}

// assignStrategy maps a table profile and seat index to a bot profile, per
// spec.md §4.9's strategy assigner: a fixed profile for the three themed
// table profiles, and a round-robin mix of all four for RandomOpponents.
func assignStrategy(profile TableProfile, seatIdx int, tables *strategy.Tables, rng *rand.Rand) strategy.Strategy {
	switch profile {
	case TightAggressiveOpponents:
		return strategy.NewTightAggressive(tables, rng)
	case LargeAggressiveOpponents:
		return strategy.NewLooseAggressive(tables, rng)
	case ManiacOpponents:
		return strategy.NewManiac(tables, rng)
	default: // RandomOpponents
		switch seatIdx % 4 {
		case 0:
			return strategy.NewUltraTight(tables, rng)
		case 1:
			return strategy.NewTightAggressive(tables, rng)
		case 2:
			return strategy.NewLooseAggressive(tables, rng)
		default:
			return strategy.NewManiac(tables, rng)
		}
	}
}
