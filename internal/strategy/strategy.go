package strategy

import (
	"fmt"
	"sort"

	"market-sim/internal/model"
)

// Context is what a firm knows when it decides on a round: its own state, the game
// parameters and the game-master actions announced for the round (nil if none).
type Context struct {
	Round   int
	FirmID  string
	State   model.FirmState
	Params  model.ParameterSet
	Actions *model.PeriodActions
}

type Strategy interface {
	Name() string
	Decide(ctx Context) model.PeriodDecision
}

// ParameterInfo documents one strategy parameter.
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Default     interface{} `json:"default"`
}

// Info describes a registered strategy.
type Info struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

type factory struct {
	info  Info
	build func(params map[string]any) (Strategy, error)
}

var registry = map[string]factory{
	"fixed": {
		info: Info{
			Name:        "fixed",
			Description: "Constant policy. Produces a share of capacity, sells a share of inventory and always asks the same price.",
			Parameters:  fixedParameterInfo,
		},
		build: func(params map[string]any) (Strategy, error) {
			p, err := parseFixedParams(params)
			if err != nil {
				return nil, err
			}
			return &FixedStrategy{Params: p}, nil
		},
	},
}

func init() {
	for _, prof := range profiles {
		prof := prof
		registry[string(prof.Kind)] = factory{
			info: Info{Name: string(prof.Kind), Description: prof.Description},
			build: func(params map[string]any) (Strategy, error) {
				if len(params) > 0 {
					return nil, fmt.Errorf("strategy %q takes no parameters", prof.Kind)
				}
				return NewProfileStrategy(prof.Kind)
			},
		}
	}
}

// New builds a fresh strategy instance. Instances may keep per-firm state, so every
// firm needs its own.
func New(name string, params map[string]any) (Strategy, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unsupported strategy: %q", name)
	}
	return f.build(params)
}

// Describe lists the registered strategies by name.
func Describe() []Info {
	out := make([]Info, 0, len(registry))
	for _, f := range registry {
		info := f.info
		if info.Parameters == nil {
			info.Parameters = []ParameterInfo{}
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
