package players

import (
	"context"
	"fmt"
	"time"

	"github.com/IlikeChooros/connect4-mcts/pkg/connect4"
	"github.com/IlikeChooros/connect4-mcts/pkg/mcts"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	DefaultMoveTime       = 200 * time.Millisecond
	DefaultHeuristicDepth = 20
)

func init() {
	RegisterPlayerModule("mcts", ModuleFunc(newMCTSPlayerFromParams))
}

// Player searching with the MCTS engine, keeps the tree between moves
type MCTSPlayer struct {
	engine *Engine
	name   string
	// Search budget per move, ignored if 'cycles' is set
	budget time.Duration
	cycles uint32
}

func NewMCTSPlayer(name string, pos *connect4.Position, config *Config, budget time.Duration) *MCTSPlayer {
	return &MCTSPlayer{
		engine: NewEngine(pos, config),
		name:   name,
		budget: budget,
	}
}

// Search for a fixed number of rollouts per move instead of time, 0 goes back to the time budget
func (p *MCTSPlayer) SetCycles(cycles uint32) *MCTSPlayer {
	p.cycles = cycles
	return p
}

func (p *MCTSPlayer) Name() string {
	return p.name
}

func (p *MCTSPlayer) Engine() *Engine {
	return p.engine
}

func (p *MCTSPlayer) SetPosition(pos *connect4.Position) error {
	p.engine.Reset(pos)
	return nil
}

func (p *MCTSPlayer) BestMove(ctx context.Context) (connect4.Move, error) {
	if err := ctx.Err(); err != nil {
		return connect4.MoveNone, err
	}

	p.engine.SetContext(ctx)
	defer p.engine.SetContext(context.Background())

	if p.cycles > 0 {
		p.engine.SetLimits(mcts.DefaultLimits().SetCycles(p.cycles))
		p.engine.Run()
	} else {
		p.engine.Search(p.budget)
	}

	move, ok := p.engine.BestMove()
	if !ok {
		return connect4.MoveNone, ErrGameOver
	}
	return move, nil
}

func (p *MCTSPlayer) Advance(move connect4.Move) error {
	return p.engine.Advance(move)
}

// Parameters:
//
//	rollout=uniform|heuristic (default uniform), c=<exploration>, depth=<rollout plies>,
//	epsilon=<heuristic randomness>, seed=<int>, time=<duration>, cycles=<rollouts per move>,
//	forced=<bool>, cpu=<bool> (measure time in process CPU time, default true), name=<string>
func newMCTSPlayerFromParams(params map[string]string) (Player, error) {
	config := DefaultConfig()

	rollout, err := PopParamOr(params, "rollout", "uniform")
	if err != nil {
		return nil, err
	}

	defaultDepth := 0
	switch rollout {
	case "uniform":
	case "heuristic":
		epsilon, err := PopParamOr(params, "epsilon", connect4.DefaultHeuristicEpsilon)
		if err != nil {
			return nil, err
		}
		config.SetRollout(&connect4.HeuristicPolicy{Epsilon: epsilon})
		defaultDepth = DefaultHeuristicDepth
	default:
		return nil, errors.Wrapf(ErrBadParam, "rollout=%q, expected uniform or heuristic", rollout)
	}

	c, err := PopParamOr(params, "c", mcts.DefaultExplorationParam)
	if err != nil {
		return nil, err
	}
	depth, err := PopParamOr(params, "depth", defaultDepth)
	if err != nil {
		return nil, err
	}
	seed, err := PopParamOr(params, "seed", int64(0))
	if err != nil {
		return nil, err
	}
	budget, err := PopParamOr(params, "time", DefaultMoveTime)
	if err != nil {
		return nil, err
	}
	cycles, err := PopParamOr(params, "cycles", 0)
	if err != nil {
		return nil, err
	}
	forced, err := PopParamOr(params, "forced", true)
	if err != nil {
		return nil, err
	}
	cpu, err := PopParamOr(params, "cpu", true)
	if err != nil {
		return nil, err
	}
	name, err := PopParamOr(params, "name", "")
	if err != nil {
		return nil, err
	}
	if err := checkUnused(params); err != nil {
		return nil, err
	}

	if c < 0 || depth < 0 || budget < 0 || cycles < 0 {
		return nil, errors.Wrapf(ErrBadParam, "negative value in c=%v depth=%d time=%v cycles=%d", c, depth, budget, cycles)
	}
	if name == "" {
		name = fmt.Sprintf("mcts(%s)", rollout)
	}

	config.SetExplorationParam(c).
		SetRolloutDepth(depth).
		SetSeed(seed).
		SetForcedMoves(forced).
		SetLogger(log.With().Str("player", name).Logger())
	if !cpu {
		config.SetClock(mcts.WallTime)
	}

	player := NewMCTSPlayer(name, connect4.NewPosition(), config, budget)
	return player.SetCycles(uint32(cycles)), nil
}
