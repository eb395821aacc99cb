package simulation

import (
	"errors"
	"fmt"
	"log"

	"market-sim/internal/market"
	"market-sim/internal/model"
	"market-sim/internal/strategy"
)

// Participant is one firm entering a simulation.
type Participant struct {
	ID       string
	Name     string
	State    model.FirmState
	Strategy strategy.Strategy
}

type Engine struct {
	// Quiet suppresses the log line written for every replaced decision.
	Quiet bool
}

func New() *Engine { return &Engine{} }

// Run plays rounds 1..rounds. Each round every strategy decides, the decision is
// validated (an invalid one is replaced by the zero decision), the market is cleared
// and the results are applied to the firm states.
//
// actions may hold at most one entry per round. A clearing error aborts the run and
// no partial result is returned.
func (e *Engine) Run(params model.ParameterSet, firms []Participant, rounds int, actions []model.PeriodActions) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("parameters invalid: %w", err)
	}
	if rounds <= 0 {
		return nil, errors.New("rounds must be > 0")
	}
	if len(firms) == 0 {
		return nil, errors.New("no firms")
	}
	for _, f := range firms {
		if f.Strategy == nil {
			return nil, fmt.Errorf("firm %s: strategy is nil", f.ID)
		}
	}

	byRound := make(map[int]*model.PeriodActions, len(actions))
	for i := range actions {
		a := actions[i]
		if _, dup := byRound[a.Round]; dup {
			return nil, fmt.Errorf("more than one action set for round %d", a.Round)
		}
		byRound[a.Round] = &a
	}

	states := make([]model.FirmState, len(firms))
	for i, f := range firms {
		states[i] = f.State.Clone()
	}

	ledger := make([]LedgerRow, 0, len(firms)*rounds)
	summaries := make([]RoundSummary, 0, rounds)

	for round := 1; round <= rounds; round++ {
		roundActions := byRound[round]

		inputs := make([]market.FirmInput, len(firms))
		checks := make([]market.Validation, len(firms))
		for i, f := range firms {
			d := f.Strategy.Decide(strategy.Context{
				Round:   round,
				FirmID:  f.ID,
				State:   states[i].Clone(),
				Params:  params,
				Actions: roundActions,
			})
			d.FirmID = f.ID
			if d.Round == 0 {
				d.Round = round
			}

			v := market.ValidateDecisionWithActions(d, states[i], params, round, roundActions)
			if !v.Valid {
				if !e.Quiet {
					log.Printf("Engine: round %d firm %s: replacing invalid decision: %v", round, f.ID, v.Violations)
				}
				d = model.ZeroDecision(f.ID, round, params)
			}
			checks[i] = v
			inputs[i] = market.FirmInput{FirmID: f.ID, Decision: d, State: states[i]}
		}

		c, err := market.Clear(params, round, inputs, roundActions)
		if err != nil {
			return nil, fmt.Errorf("round %d clear: %w", round, err)
		}

		for i, fr := range c.Results {
			states[i] = fr.Apply(states[i])
			ledger = append(ledger, ledgerRow(firms[i], inputs[i].Decision, checks[i], c, fr, states[i]))
		}

		s := RoundSummary{
			Round:                round,
			TotalDemand:          c.Demand.TotalDemand,
			TotalSold:            c.Allocation.TotalSold(),
			Unmet:                c.Allocation.Unmet,
			AveragePrice:         c.Demand.AveragePrice,
			ElasticityMultiplier: c.Demand.ElasticityMultiplier,
			Boosted:              c.Demand.Boosted,
		}
		if c.Actions != nil {
			s.EventLabel = c.Actions.EventLabel
		}
		summaries = append(summaries, s)
	}

	outcomes := make([]FirmOutcome, len(firms))
	for i, f := range firms {
		outcomes[i] = FirmOutcome{ID: f.ID, Name: f.Name, Strategy: f.Strategy.Name(), State: states[i]}
	}

	return &Result{
		Rounds: rounds,
		Ledger: ledger,
		Market: summaries,
		Firms:  outcomes,
		Params: params,
	}, nil
}

func ledgerRow(f Participant, d model.PeriodDecision, v market.Validation, c *market.Clearing, fr market.FirmResult, next model.FirmState) LedgerRow {
	r := fr.Result
	row := LedgerRow{
		Round:    c.Round,
		FirmID:   f.ID,
		FirmName: f.Name,
		Strategy: f.Strategy.Name(),

		Production:        d.Production,
		SellFromInventory: d.SellFromInventory,
		Price:             d.Price,
		MarketingEffort:   d.MarketingEffort,
		BuyMarketAnalysis: d.BuyMarketAnalysis,
		RndInvestment:     d.RndInvestment,
		NewMachine:        d.NewMachine,

		Replaced: !v.Valid,

		Outcome: r.Outcome,

		// Market figures are only known to firms with market analysis this round.
		TotalDemand:  int(r.TotalMarketDemand),
		AveragePrice: r.AverageMarketPrice,

		UnitsSold:   r.UnitsSold,
		MarketShare: r.MarketShare,
		Revenue:     r.Revenue,

		ProductionCost:     r.ProductionCost,
		InventoryCost:      r.InventoryCost,
		RndCost:            r.RndCost,
		MachineCost:        r.MachineCost,
		MarketAnalysisCost: r.MarketAnalysisCost,
		TotalCosts:         r.TotalCosts,
		Interest:           r.Interest,
		Profit:             r.Profit,

		Capital:          next.Capital,
		Inventory:        next.Inventory,
		Capacity:         next.TotalCapacity(),
		CumulativeProfit: next.CumulativeProfit,
	}
	if !v.Valid {
		row.Violations = v.Violations
	}
	return row
}
