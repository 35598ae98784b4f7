package players

import (
	"context"
	"math/rand"

	"github.com/IlikeChooros/connect4-mcts/pkg/connect4"
	"github.com/IlikeChooros/connect4-mcts/pkg/mcts"
)

func init() {
	RegisterPlayerModule("random", ModuleFunc(newRandomPlayerFromParams))
}

// Baseline player, plays a uniformly random legal move
type RandomPlayer struct {
	pos  *connect4.Position
	rand *rand.Rand
}

// Seed 0 uses mcts.SeedGeneratorFn
func NewRandomPlayer(seed int64) *RandomPlayer {
	if seed == 0 {
		seed = mcts.SeedGeneratorFn()
	}
	return &RandomPlayer{
		pos:  connect4.NewPosition(),
		rand: rand.New(rand.NewSource(seed)),
	}
}

func (p *RandomPlayer) Name() string {
	return "random"
}

func (p *RandomPlayer) SetPosition(pos *connect4.Position) error {
	p.pos = pos.Clone()
	return nil
}

func (p *RandomPlayer) BestMove(ctx context.Context) (connect4.Move, error) {
	if err := ctx.Err(); err != nil {
		return connect4.MoveNone, err
	}

	moves := p.pos.GenerateMoves()
	if moves.Size == 0 {
		return connect4.MoveNone, ErrGameOver
	}
	return moves.Moves[p.rand.Intn(int(moves.Size))], nil
}

func (p *RandomPlayer) Advance(move connect4.Move) error {
	return p.pos.MakeMove(move)
}

func newRandomPlayerFromParams(params map[string]string) (Player, error) {
	seed, err := PopParamOr(params, "seed", int64(0))
	if err != nil {
		return nil, err
	}
	if err := checkUnused(params); err != nil {
		return nil, err
	}
	return NewRandomPlayer(seed), nil
}
