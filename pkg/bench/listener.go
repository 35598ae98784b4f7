package bench

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/muesli/termenv"
)

// Arena hooks, called from the worker goroutines
type ListenerLike interface {
	OnStart()
	OnMoveMade(info VersusWorkerInfo)
	OnFinishedGame(info VersusWorkerInfo)
	OnFinishedWork(info VersusWorkerInfo)
	Summary(info VersusSummaryInfo)
	OnEnd()
}

type DefaultListener struct{}

func (DefaultListener) OnStart()                        {}
func (DefaultListener) OnMoveMade(VersusWorkerInfo)     {}
func (DefaultListener) OnFinishedGame(VersusWorkerInfo) {}
func (DefaultListener) OnFinishedWork(VersusWorkerInfo) {}
func (DefaultListener) Summary(VersusSummaryInfo)       {}
func (DefaultListener) OnEnd()                          {}

const (
	winColor  = "#2E8B57"
	lossColor = "#DC143C"
	drawColor = "#DAA520"
)

// Prints finished games and the final summary, colours depend on the output's profile
type TermListener struct {
	DefaultListener
	output *termenv.Output
	mu     sync.Mutex
	// Print every move as it's made
	Verbose bool
}

func NewTermListener(w io.Writer) *TermListener {
	if w == nil {
		w = os.Stdout
	}
	return &TermListener{output: termenv.NewOutput(w)}
}

func (l *TermListener) OnStart() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output.HideCursor()
}

func (l *TermListener) OnMoveMade(info VersusWorkerInfo) {
	if !l.Verbose {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.output, "[worker %d] game %d move %d: %d\n",
		info.WorkerID, info.FinishedGames+1, info.GameMoveNum, info.Moves[len(info.Moves)-1]+1)
}

func (l *TermListener) OnFinishedGame(info VersusWorkerInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.output, "[worker %d] game %d/%d %s (%d moves) | %s %s %s\n",
		info.WorkerID, info.FinishedGames, info.NGames,
		l.outcome(info), info.GameMoveNum,
		l.colored(fmt.Sprintf("%s %d", info.P1Name, info.P1Wins), winColor),
		l.colored(fmt.Sprintf("%s %d", info.P2Name, info.P2Wins), lossColor),
		l.colored(fmt.Sprintf("draws %d", info.Draws), drawColor),
	)
}

func (l *TermListener) Summary(info VersusSummaryInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.output, "\n%s\n", l.output.String("Summary").Bold())
	fmt.Fprintf(l.output, "games: %d, workers: %d\n", info.TotalGames, info.Workers)
	fmt.Fprintf(l.output, "%s: %s\n", info.P1Name, l.colored(fmt.Sprint(info.P1Wins), winColor))
	fmt.Fprintf(l.output, "%s: %s\n", info.P2Name, l.colored(fmt.Sprint(info.P2Wins), lossColor))
	fmt.Fprintf(l.output, "draws: %s\n", l.colored(fmt.Sprint(info.Draws), drawColor))
	fmt.Fprintf(l.output, "first to move wins: %d, second to move wins: %d\n",
		info.FirstToMoveWins, info.SecondToMoveWins)
}

func (l *TermListener) OnEnd() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output.ShowCursor()
}

func (l *TermListener) outcome(info VersusWorkerInfo) string {
	return l.colored(info.Outcome.String(), drawColor)
}

func (l *TermListener) colored(s, color string) string {
	return l.output.String(s).Foreground(l.output.Color(color)).String()
}
