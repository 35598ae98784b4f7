package bench

import (
	"sync/atomic"

	"github.com/IlikeChooros/connect4-mcts/pkg/connect4"
	"github.com/IlikeChooros/connect4-mcts/pkg/players"
)

type VersusMatchResult int

const (
	VersusPl1Win VersusMatchResult = 1
	VersusPl2Win VersusMatchResult = -1
	VersusDraw   VersusMatchResult = 0
)

// Creates a fresh player, called once per worker, so players are never shared between goroutines
type PlayerFactory func() (players.Player, error)

// Factory creating players from a config string, see players.New
func FromConfig(config string) PlayerFactory {
	return func() (players.Player, error) {
		return players.New(config)
	}
}

type VersusArenaStats struct {
	p1Wins           uint32
	p2Wins           uint32
	draws            uint32
	firstToMoveWins  uint32
	secondToMoveWins uint32
}

func (vas *VersusArenaStats) Total() int {
	return vas.P1Wins() + vas.P2Wins() + vas.Draws()
}

func (vas *VersusArenaStats) P1Wins() int {
	return int(atomic.LoadUint32(&vas.p1Wins))
}

func (vas *VersusArenaStats) P2Wins() int {
	return int(atomic.LoadUint32(&vas.p2Wins))
}

func (vas *VersusArenaStats) Draws() int {
	return int(atomic.LoadUint32(&vas.draws))
}

func (vas *VersusArenaStats) FirstToMoveWins() int {
	return int(atomic.LoadUint32(&vas.firstToMoveWins))
}

func (vas *VersusArenaStats) SecondToMoveWins() int {
	return int(atomic.LoadUint32(&vas.secondToMoveWins))
}

// Count the game, 'p1Side' is the side played by player 1,
// 'firstSide' is the side to move at the start of the game
func (vas *VersusArenaStats) add(outcome connect4.Outcome, p1Side, firstSide connect4.Player) VersusMatchResult {
	switch outcome {
	case connect4.WinOutcome(firstSide):
		atomic.AddUint32(&vas.firstToMoveWins, 1)
	case connect4.WinOutcome(firstSide.Opponent()):
		atomic.AddUint32(&vas.secondToMoveWins, 1)
	}

	result := toAgentResult(outcome, p1Side)
	switch result {
	case VersusPl1Win:
		atomic.AddUint32(&vas.p1Wins, 1)
	case VersusPl2Win:
		atomic.AddUint32(&vas.p2Wins, 1)
	default:
		atomic.AddUint32(&vas.draws, 1)
	}
	return result
}

type VersusWorkerInfo struct {
	WorkerID         int
	NGames           int
	FinishedGames    int
	GameMoveNum      int
	Moves            []connect4.Move
	Outcome          connect4.Outcome
	P1Wins           int
	P2Wins           int
	Draws            int
	FirstToMoveWins  int
	SecondToMoveWins int
	P1Name           string
	P2Name           string
}

type VersusSummaryInfo struct {
	TotalGames       int    `json:"total_games"`
	P1Wins           int    `json:"player1_wins"`
	P2Wins           int    `json:"player2_wins"`
	FirstToMoveWins  int    `json:"first_to_move_wins"`
	SecondToMoveWins int    `json:"second_to_move_wins"`
	Draws            int    `json:"draws"`
	Workers          int    `json:"workers"`
	P1Name           string `json:"player1_name"`
	P2Name           string `json:"player2_name"`
}

// Moves of a single game, together with its final outcome
type GameRecord struct {
	Moves   []connect4.Move
	Outcome connect4.Outcome
}

// String of 1-based columns, same as connect4.FromMoves accepts
func (g GameRecord) String() string {
	buf := make([]byte, len(g.Moves))
	for i, m := range g.Moves {
		buf[i] = byte('1' + m)
	}
	return string(buf)
}

// maps a game outcome to which agent won, 'p1Side' is the side played by player 1
func toAgentResult(outcome connect4.Outcome, p1Side connect4.Player) VersusMatchResult {
	switch outcome {
	case connect4.WinOutcome(p1Side):
		return VersusPl1Win
	case connect4.WinOutcome(p1Side.Opponent()):
		return VersusPl2Win
	}
	return VersusDraw
}
