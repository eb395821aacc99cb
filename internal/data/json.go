package data

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"market-sim/internal/market"
	"market-sim/internal/model"
)

// RoundSnapshot is one round ready to be cleared: the game parameters, the firms'
// decisions and states, and the round's actions.
type RoundSnapshot struct {
	Preset     string               `json:"preset,omitempty"`
	Parameters model.ParameterSet   `json:"parameters"`
	Round      int                  `json:"round"`
	Firms      []market.FirmInput   `json:"firms"`
	Actions    *model.PeriodActions `json:"actions,omitempty"`
}

func LoadRoundJSON(path string) (*RoundSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeRoundSnapshot(f)
}

// DecodeRoundSnapshot reads a snapshot. Parameters start from the named preset (or
// the defaults) and only the fields present in the document override them. Machines
// given by name alone are completed from the catalog.
func DecodeRoundSnapshot(r io.Reader) (*RoundSnapshot, error) {
	var raw struct {
		Preset     string               `json:"preset"`
		Parameters json.RawMessage      `json:"parameters"`
		Round      int                  `json:"round"`
		Firms      []market.FirmInput   `json:"firms"`
		Actions    *model.PeriodActions `json:"actions"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}

	params, err := model.Preset(raw.Preset)
	if err != nil {
		return nil, err
	}
	if len(raw.Parameters) > 0 {
		if err := json.Unmarshal(raw.Parameters, &params); err != nil {
			return nil, fmt.Errorf("parameters: %w", err)
		}
	}
	if raw.Round < 1 {
		return nil, fmt.Errorf("round must be >= 1, got %d", raw.Round)
	}

	for i := range raw.Firms {
		if err := CompleteMachines(&raw.Firms[i].State); err != nil {
			return nil, fmt.Errorf("firm %s: %w", raw.Firms[i].FirmID, err)
		}
	}

	return &RoundSnapshot{
		Preset:     raw.Preset,
		Parameters: params,
		Round:      raw.Round,
		Firms:      raw.Firms,
		Actions:    raw.Actions,
	}, nil
}

// CompleteMachines fills in machines given by name alone from the catalog.
func CompleteMachines(st *model.FirmState) error {
	for i, m := range st.Machines {
		if m.Capacity != 0 || m.Cost != 0 || m.VariableCostPerUnit != 0 {
			continue
		}
		full, ok := model.LookupMachine(m.Name)
		if !ok {
			return fmt.Errorf("unknown machine %q", m.Name)
		}
		st.Machines[i] = full
	}
	return nil
}
