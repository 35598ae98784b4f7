package players

import (
	"github.com/IlikeChooros/connect4-mcts/pkg/connect4"
	"github.com/IlikeChooros/connect4-mcts/pkg/mcts"
)

// MCTS engine playing Connect Four
type Engine = mcts.Engine[connect4.Move, connect4.Player, *connect4.Position]
type Config = mcts.Config[connect4.Move, *connect4.Position]

func DefaultConfig() *Config {
	return mcts.DefaultConfig[connect4.Move, *connect4.Position]()
}

// Create new engine searching from a copy of 'pos', nil config means DefaultConfig
func NewEngine(pos *connect4.Position, config *Config) *Engine {
	return mcts.NewEngine[connect4.Move, connect4.Player, *connect4.Position](pos, config)
}
