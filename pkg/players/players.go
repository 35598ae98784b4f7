// Package players provides Connect Four players (search engines and baselines)
// created from configuration strings, like "mcts:rollout=heuristic,time=500ms".
package players

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/IlikeChooros/connect4-mcts/pkg/connect4"
	"github.com/pkg/errors"
)

var (
	ErrUnknownPlayer = errors.New("unknown player")
	ErrBadParam      = errors.New("invalid player parameter")
	ErrGameOver      = errors.New("no move, the game is over")
)

// Player is anything that is able to play the game. The player keeps its own
// copy of the position, the driver keeps it in sync with SetPosition and Advance.
type Player interface {
	Name() string
	// Replace the position (and discard anything learned about the previous one)
	SetPosition(pos *connect4.Position) error
	// Choose the move for the side to move, ErrGameOver if there is none
	BestMove(ctx context.Context) (connect4.Move, error)
	// Apply a move played by either side
	Advance(move connect4.Move) error
}

// Module implements a player constructor.
type Module interface {
	// Receives the parsed parameters, must reject the unknown ones
	NewPlayer(params map[string]string) (Player, error)
}

// Adapter allowing plain functions to be used as modules
type ModuleFunc func(params map[string]string) (Player, error)

func (f ModuleFunc) NewPlayer(params map[string]string) (Player, error) {
	return f(params)
}

var (
	// Registered modules, by name
	modules = make(map[string]Module)

	// DefaultPlayerConfig is used if no configuration was given
	DefaultPlayerConfig = "mcts"
)

// Register a player module, so it can be created by New
func RegisterPlayerModule(name string, module Module) {
	modules[name] = module
}

// Names of the registered modules, sorted
func Modules() []string {
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates a new player given the configuration string.
//
// The config is the module name followed by a colon (":") and a comma-separated
// list of parameters with optional values, for example:
//
//	mcts:rollout=heuristic,c=1.41,depth=20,seed=7,time=500ms,forced=false
//	random:seed=3
//
// An empty config means DefaultPlayerConfig.
func New(config string) (Player, error) {
	if config == "" {
		config = DefaultPlayerConfig
	}

	name, paramStr, _ := strings.Cut(config, ":")
	module, ok := modules[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownPlayer, "%q, available: %s", name, strings.Join(Modules(), ", "))
	}

	player, err := module.NewPlayer(ParseParams(paramStr))
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to create player %q", name)
	}
	return player, nil
}

// Split the config string to a map of keys to values, all strings.
// See GetParamOr and PopParamOr to parse values from this map.
func ParseParams(config string) map[string]string {
	params := make(map[string]string)
	for _, part := range strings.Split(config, ",") {
		if part = strings.TrimSpace(part); part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		params[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return params
}

type ParamType interface {
	bool | int | int64 | float64 | string | time.Duration
}

// GetParamOr attempts to parse a parameter to the given type if the key is present,
// or returns the defaultValue if not.
//
// For bool types, a key without a value is interpreted as true.
func GetParamOr[T ParamType](params map[string]string, key string, defaultValue T) (T, error) {
	value, exists := params[key]
	if !exists {
		return defaultValue, nil
	}

	var parsed any
	var err error
	switch any(defaultValue).(type) {
	case bool:
		switch strings.ToLower(value) {
		case "", "true", "1":
			parsed = true
		case "false", "0":
			parsed = false
		default:
			err = errors.New("expected a bool")
		}
	case int:
		parsed, err = strconv.Atoi(value)
	case int64:
		parsed, err = strconv.ParseInt(value, 10, 64)
	case float64:
		parsed, err = strconv.ParseFloat(value, 64)
	case time.Duration:
		parsed, err = time.ParseDuration(value)
	case string:
		parsed = value
	}

	if err != nil {
		return defaultValue, errors.Wrapf(ErrBadParam, "%s=%q: %v", key, value, err)
	}
	return parsed.(T), nil
}

// PopParamOr is like GetParamOr but it also deletes from the params map the retrieved parameter.
func PopParamOr[T ParamType](params map[string]string, key string, defaultValue T) (T, error) {
	value, err := GetParamOr(params, key, defaultValue)
	if err != nil {
		return value, err
	}
	delete(params, key)
	return value, nil
}

// Error listing the parameters nobody consumed, nil if there are none
func checkUnused(params map[string]string) error {
	if len(params) == 0 {
		return nil
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return errors.Wrapf(ErrBadParam, "unknown parameters: %s", strings.Join(keys, ", "))
}
