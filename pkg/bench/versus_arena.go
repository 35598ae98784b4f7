// Package bench plays Connect Four games between players, single games
// or whole matches spread over multiple goroutines.
package bench

import (
	"context"

	"github.com/IlikeChooros/connect4-mcts/pkg/connect4"
	"github.com/IlikeChooros/connect4-mcts/pkg/players"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Play a single game from 'pos' (nil means the starting position), 'first' plays
// the side to move. Both players are synced with the position before the first move.
func PlayGame(ctx context.Context, first, second players.Player, pos *connect4.Position) (GameRecord, error) {
	return playGame(ctx, first, second, pos, nil)
}

func playGame(ctx context.Context, first, second players.Player, pos *connect4.Position, onMove func([]connect4.Move)) (GameRecord, error) {
	if pos == nil {
		pos = connect4.NewPosition()
	} else {
		pos = pos.Clone()
	}

	agents := [2]players.Player{first, second}
	for _, p := range agents {
		if err := p.SetPosition(pos); err != nil {
			return GameRecord{}, errors.WithMessagef(err, "set position for %s", p.Name())
		}
	}

	record := GameRecord{Moves: make([]connect4.Move, 0, connect4.MaxPlies)}
	for turn := 0; !pos.IsTerminated(); turn ^= 1 {
		mover := agents[turn]
		move, err := mover.BestMove(ctx)
		if err != nil {
			return record, errors.WithMessagef(err, "%s on move %d", mover.Name(), len(record.Moves)+1)
		}
		if err := pos.MakeMove(move); err != nil {
			return record, errors.WithMessagef(err, "%s played %d", mover.Name(), move+1)
		}
		for _, p := range agents {
			if err := p.Advance(move); err != nil {
				return record, errors.WithMessagef(err, "advance %s", p.Name())
			}
		}

		record.Moves = append(record.Moves, move)
		if onMove != nil {
			onMove(record.Moves)
		}
	}

	outcome, err := pos.Outcome()
	if err != nil {
		return record, err
	}
	record.Outcome = outcome
	return record, nil
}

// Plays NGames between two players, using NThreads goroutines.
// Every worker creates its own pair of players, the player moving first alternates between games.
type VersusArena struct {
	VersusArenaStats
	Player1  PlayerFactory
	Player2  PlayerFactory
	NGames   int
	NThreads int
	// Starting position of every game, nil means the empty board
	Position *connect4.Position
	ctx      context.Context
}

func NewVersusArena(player1, player2 PlayerFactory) *VersusArena {
	return &VersusArena{
		Player1:  player1,
		Player2:  player2,
		NGames:   1,
		NThreads: 1,
		ctx:      context.Background(),
	}
}

func (va *VersusArena) WithContext(ctx context.Context) *VersusArena {
	va.ctx = ctx
	return va
}

func (va *VersusArena) WithPosition(pos *connect4.Position) *VersusArena {
	va.Position = pos
	return va
}

func (va *VersusArena) Setup(nGames, nThreads int) *VersusArena {
	va.NGames = max(1, nGames)
	va.NThreads = min(max(1, nThreads), va.NGames)
	return va
}

// Play all the games, blocks until they are done or one of the workers fails.
// The summary covers the games finished before the error.
func (va *VersusArena) Run(listener ListenerLike) (VersusSummaryInfo, error) {
	if listener == nil {
		listener = DefaultListener{}
	}
	va.VersusArenaStats = VersusArenaStats{}
	listener.OnStart()

	g, ctx := errgroup.WithContext(va.ctx)
	names := make([][2]string, va.NThreads)
	gamesPerWorker := va.NGames / va.NThreads
	remainder := va.NGames % va.NThreads

	for i := 0; i < va.NThreads; i++ {
		nGames := gamesPerWorker
		if i < remainder {
			nGames++
		}
		id := i
		g.Go(func() error {
			var err error
			names[id], err = va.work(ctx, id, nGames, listener)
			return err
		})
	}

	err := g.Wait()
	summary := VersusSummaryInfo{
		TotalGames:       va.Total(),
		P1Wins:           va.P1Wins(),
		P2Wins:           va.P2Wins(),
		FirstToMoveWins:  va.FirstToMoveWins(),
		SecondToMoveWins: va.SecondToMoveWins(),
		Draws:            va.Draws(),
		Workers:          va.NThreads,
		P1Name:           names[0][0],
		P2Name:           names[0][1],
	}
	listener.Summary(summary)
	listener.OnEnd()
	return summary, err
}

func (va *VersusArena) work(ctx context.Context, id, nGames int, listener ListenerLike) ([2]string, error) {
	p1, err := va.Player1()
	if err != nil {
		return [2]string{}, errors.WithMessagef(err, "worker %d: player 1", id)
	}
	p2, err := va.Player2()
	if err != nil {
		return [2]string{}, errors.WithMessagef(err, "worker %d: player 2", id)
	}

	info := VersusWorkerInfo{
		WorkerID: id,
		NGames:   nGames,
		P1Name:   p1.Name(),
		P2Name:   p2.Name(),
	}
	names := [2]string{info.P1Name, info.P2Name}
	logger := log.With().Int("worker", id).Logger()

	firstSide := connect4.PlayerOne
	if va.Position != nil {
		firstSide = va.Position.Turn()
	}

	for game := 0; game < nGames; game++ {
		// worker 'id' plays the global games id, id+NThreads, ...
		p1WentFirst := (id+game*va.NThreads)%2 == 0
		first, second := p1, p2
		p1Side := firstSide
		if !p1WentFirst {
			first, second = p2, p1
			p1Side = firstSide.Opponent()
		}

		record, err := playGame(ctx, first, second, va.Position, func(moves []connect4.Move) {
			info.Moves = moves
			info.GameMoveNum = len(moves)
			listener.OnMoveMade(info)
		})
		if err != nil {
			return names, errors.WithMessagef(err, "worker %d: game %d", id, game+1)
		}

		switch va.add(record.Outcome, p1Side, firstSide) {
		case VersusPl1Win:
			info.P1Wins++
		case VersusPl2Win:
			info.P2Wins++
		default:
			info.Draws++
		}
		switch record.Outcome {
		case connect4.WinOutcome(firstSide):
			info.FirstToMoveWins++
		case connect4.WinOutcome(firstSide.Opponent()):
			info.SecondToMoveWins++
		}

		info.FinishedGames++
		info.Moves = record.Moves
		info.GameMoveNum = len(record.Moves)
		info.Outcome = record.Outcome
		logger.Debug().Int("game", info.FinishedGames).Str("moves", record.String()).
			Stringer("outcome", record.Outcome).Bool("p1_first", p1WentFirst).Msg("game finished")
		listener.OnFinishedGame(info)
	}

	listener.OnFinishedWork(info)
	return names, nil
}
