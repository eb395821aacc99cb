package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"market-sim/internal/api/models"
	"market-sim/internal/data"
	"market-sim/internal/market"

	"github.com/gin-gonic/gin"
)

const presetDir = "../../../examples/presets"

func newRouter(cache *data.ResultCache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	rounds := NewRoundHandler()
	sims := NewSimulationHandler(cache, presetDir)
	catalog := NewCatalogHandler(presetDir)
	strategies := NewStrategyHandler()

	api := r.Group("/api/v1")
	api.POST("/rounds/clear", rounds.ClearRound)
	api.POST("/decisions/validate", rounds.ValidateDecision)
	api.POST("/simulations", sims.RunSimulation)
	api.POST("/simulations/compare", sims.CompareSimulations)
	api.GET("/simulations/:id/ledger", sims.GetLedger)
	api.GET("/simulations/:id/standings", sims.GetStandings)
	api.GET("/machines", catalog.ListMachines)
	api.GET("/presets", catalog.ListPresets)
	api.GET("/strategies", strategies.ListStrategies)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	decode(t, w, &resp)
	return resp.Error.Code
}

const clearBody = `{
  "preset": "medium",
  "parameters": {"market_saturation_factor": 0.8},
  "round": 1,
  "firms": [
    {"firm_id": "a", "decision": {"firm_id": "a", "round": 1, "production": 100, "price": 40},
     "state": {"capital": 10000, "machines": [{"name": "Test", "cost": 1000, "capacity": 100, "variable_cost_per_unit": 5}]}},
    {"firm_id": "b", "decision": {"firm_id": "b", "round": 1, "production": 100, "price": 60},
     "state": {"capital": 10000, "machines": [{"name": "Test", "cost": 1000, "capacity": 100, "variable_cost_per_unit": 5}]}}
  ]
}`

func TestClearRound(t *testing.T) {
	r := newRouter(nil)
	w := do(t, r, http.MethodPost, "/api/v1/rounds/clear", clearBody)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var resp models.ClearRoundResponse
	decode(t, w, &resp)
	if resp.Round != 1 || len(resp.Results) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Demand.TotalDemand != 160 {
		t.Errorf("total demand: got %d, want 160", resp.Demand.TotalDemand)
	}
	a, b := resp.Results[0].Result, resp.Results[1].Result
	if a.UnitsSold != 96 || b.UnitsSold != 64 {
		t.Errorf("sold: got a=%v b=%v, want 96/64", a.UnitsSold, b.UnitsSold)
	}
	if a.Revenue != 3840 {
		t.Errorf("revenue: got %v, want 3840", a.Revenue)
	}
	if resp.Parameters.MarketSaturationFactor != 0.8 {
		t.Errorf("override not applied: %v", resp.Parameters.MarketSaturationFactor)
	}
}

func TestClearRoundCompletesMachinesByName(t *testing.T) {
	r := newRouter(nil)
	body := `{"round": 1, "firms": [
	  {"firm_id": "a", "decision": {"production": 50, "price": 50}, "state": {"capital": 1000, "machines": [{"name": "SmartMini-Fertiger"}]}}
	]}`
	w := do(t, r, http.MethodPost, "/api/v1/rounds/clear", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp models.ClearRoundResponse
	decode(t, w, &resp)
	if resp.Results[0].Result.ProductionCost != 300 {
		t.Errorf("production cost: got %v, want 50 units at 6", resp.Results[0].Result.ProductionCost)
	}
}

func TestClearRoundErrors(t *testing.T) {
	r := newRouter(nil)
	tests := []struct {
		name string
		body string
		code string
	}{
		{"malformed", `{"round": `, "INVALID_REQUEST"},
		{"missing round", `{"firms": [{"firm_id": "a"}]}`, "INVALID_REQUEST"},
		{"no firms", `{"round": 1, "firms": []}`, "INVALID_REQUEST"},
		{"unknown preset", `{"preset": "brutal", "round": 1, "firms": [{"firm_id": "a"}]}`, "INVALID_PARAMETERS"},
		{"bad parameters", `{"parameters": {"market_saturation_factor": 1.5}, "round": 1, "firms": [{"firm_id": "a"}]}`, "INVALID_PARAMETERS"},
		{"unknown machine", `{"round": 1, "firms": [{"firm_id": "a", "state": {"machines": [{"name": "Hyperdrive"}]}}]}`, "INVALID_FIRMS"},
		{"duplicate firm", `{"round": 1, "firms": [{"firm_id": "a"}, {"firm_id": "a"}]}`, "INVALID_FIRMS"},
		{"empty firm id", `{"round": 1, "firms": [{"firm_id": ""}]}`, "INVALID_FIRMS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/v1/rounds/clear", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want 400 (%s)", w.Code, w.Body.String())
			}
			if got := errorCode(t, w); got != tt.code {
				t.Errorf("code: got %s, want %s", got, tt.code)
			}
		})
	}
}

func TestValidateDecision(t *testing.T) {
	r := newRouter(nil)
	body := `{
	  "round": 4,
	  "decision": {"production": 300, "price": 50, "new_machine": "SmartMini-Fertiger"},
	  "state": {"capital": 20000, "machines": [{"name": "KompaktPro-Produzent"}]}
	}`
	w := do(t, r, http.MethodPost, "/api/v1/decisions/validate", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var v market.Validation
	decode(t, w, &v)
	if v.Valid || len(v.Violations) != 2 {
		t.Fatalf("expected two violations, got %+v", v)
	}
	if !strings.HasPrefix(v.Violations[0], "production (300) exceeds capacity (250)") {
		t.Errorf("first violation: %q", v.Violations[0])
	}

	actions := `{
	  "round": 4,
	  "decision": {"production": 100, "price": 50, "new_machine": "SmartMini-Fertiger"},
	  "state": {"capital": 20000, "machines": [{"name": "KompaktPro-Produzent"}]},
	  "actions": {"round": 4, "allow_machine_purchase": true}
	}`
	w = do(t, r, http.MethodPost, "/api/v1/decisions/validate", actions)
	decode(t, w, &v)
	if !v.Valid {
		t.Errorf("actions should allow the purchase: %v", v.Violations)
	}
}

const simulationBody = `{
  "config": {
    "preset": "medium",
    "rounds": 3,
    "firms": [
      {"id": "a", "machines": ["SmartMini-Fertiger"], "strategy": {"name": "fixed"}},
      {"id": "b", "machines": ["SmartMini-Fertiger"], "strategy": {"name": "aggressive"}}
    ]
  }
}`

func TestRunSimulationAndFetchResults(t *testing.T) {
	r := newRouter(data.NewResultCache(time.Hour))

	w := do(t, r, http.MethodPost, "/api/v1/simulations", simulationBody)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var first models.SimulationResponse
	decode(t, w, &first)
	if first.ID == "" || first.Status != "completed" || first.Cached {
		t.Fatalf("unexpected response: %+v", first)
	}
	if first.Summary.Rounds != 3 || first.Summary.Firms != 2 || len(first.Summary.Standings) != 2 {
		t.Errorf("summary: %+v", first.Summary)
	}
	if len(first.Summary.Market) != 3 {
		t.Errorf("market rounds: got %d", len(first.Summary.Market))
	}
	if first.Ledger != nil {
		t.Error("ledger returned without include_ledger")
	}

	w = do(t, r, http.MethodPost, "/api/v1/simulations", simulationBody)
	var second models.SimulationResponse
	decode(t, w, &second)
	if !second.Cached || second.ID != first.ID {
		t.Errorf("identical request should hit the cache: %+v", second)
	}

	w = do(t, r, http.MethodGet, "/api/v1/simulations/"+first.ID+"/ledger", "")
	if w.Code != http.StatusOK {
		t.Fatalf("ledger status %d", w.Code)
	}
	var ledger models.LedgerResponse
	decode(t, w, &ledger)
	if len(ledger.Ledger) != 6 {
		t.Errorf("ledger rows: got %d, want 6", len(ledger.Ledger))
	}

	w = do(t, r, http.MethodGet, "/api/v1/simulations/"+first.ID+"/ledger?firm=b", "")
	decode(t, w, &ledger)
	if len(ledger.Ledger) != 3 || ledger.Ledger[0].FirmID != "b" {
		t.Errorf("firm filter: %+v", ledger.Ledger)
	}

	w = do(t, r, http.MethodGet, "/api/v1/simulations/"+first.ID+"/ledger?format=csv", "")
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type: %q", ct)
	}
	if lines := strings.Count(strings.TrimSpace(w.Body.String()), "\n"); lines != 6 {
		t.Errorf("csv: got %d data lines, want 6", lines)
	}

	w = do(t, r, http.MethodGet, "/api/v1/simulations/"+first.ID+"/standings", "")
	var standings models.StandingsResponse
	decode(t, w, &standings)
	if len(standings.Standings) != 2 || standings.Standings[0].Rank != 1 {
		t.Errorf("standings: %+v", standings)
	}
}

func TestSimulationNotFound(t *testing.T) {
	r := newRouter(data.NewResultCache(time.Hour))
	for _, path := range []string{
		"/api/v1/simulations/nope/ledger",
		"/api/v1/simulations/nope/standings",
	} {
		w := do(t, r, http.MethodGet, path, "")
		if w.Code != http.StatusNotFound || errorCode(t, w) != "NOT_FOUND" {
			t.Errorf("%s: got %d %s", path, w.Code, w.Body.String())
		}
	}
}

func TestRunSimulationWithoutCache(t *testing.T) {
	r := newRouter(nil)
	body := strings.Replace(simulationBody, `"config": {`, `"options": {"include_ledger": true}, "config": {`, 1)
	w := do(t, r, http.MethodPost, "/api/v1/simulations", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp models.SimulationResponse
	decode(t, w, &resp)
	if len(resp.Ledger) != 6 {
		t.Errorf("include_ledger: got %d rows", len(resp.Ledger))
	}
	w = do(t, r, http.MethodGet, "/api/v1/simulations/"+resp.ID+"/ledger", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("nothing is stored without a cache, got %d", w.Code)
	}
}

func TestRunSimulationInvalidConfig(t *testing.T) {
	r := newRouter(nil)
	tests := []struct {
		name string
		body string
		code string
	}{
		{"no rounds", `{"config": {"firms": [{"id": "a", "strategy": {"name": "fixed"}}]}}`, "INVALID_CONFIG"},
		{"too many rounds", `{"config": {"rounds": 5000, "firms": [{"id": "a", "strategy": {"name": "fixed"}}]}}`, "INVALID_CONFIG"},
		{"malformed", `{"config": `, "INVALID_REQUEST"},
		{"unknown strategy", `{"config": {"rounds": 2, "firms": [{"id": "a", "strategy": {"name": "psychic"}}]}}`, "INVALID_CONFIG"},
		{"missing preset file", `{"config": {"parameters_file": "nightmare", "rounds": 2, "firms": [{"id": "a", "strategy": {"name": "fixed"}}]}}`, "INVALID_CONFIG"},
		{"action out of range", `{"config": {"rounds": 2, "firms": [{"id": "a", "strategy": {"name": "fixed"}}], "actions": [{"round": 5}]}}`, "INVALID_CONFIG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/v1/simulations", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d (%s)", w.Code, w.Body.String())
			}
			if got := errorCode(t, w); got != tt.code {
				t.Errorf("code: got %s, want %s", got, tt.code)
			}
		})
	}
}

func TestRunSimulationWithPresetFile(t *testing.T) {
	r := newRouter(nil)
	body := `{"config": {"parameters_file": "hard", "rounds": 1,
	  "firms": [{"id": "a", "machines": ["SmartMini-Fertiger"], "strategy": {"name": "fixed"}}]}}`
	w := do(t, r, http.MethodPost, "/api/v1/simulations", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp models.SimulationResponse
	decode(t, w, &resp)
	if resp.Summary.Parameters.StartingCapital != 25000 || !resp.Summary.Parameters.DepreciationEnabled {
		t.Errorf("hard preset not loaded: %+v", resp.Summary.Parameters)
	}
}

func TestCompareSimulations(t *testing.T) {
	r := newRouter(data.NewResultCache(time.Hour))
	body := `{
	  "base_config": {
	    "rounds": 2,
	    "firms": [
	      {"id": "a", "machines": ["SmartMini-Fertiger"], "strategy": {"name": "fixed"}},
	      {"id": "b", "machines": ["SmartMini-Fertiger"], "strategy": {"name": "conservative"}}
	    ]
	  },
	  "variations": [
	    {"name": "base", "config": {}},
	    {"name": "hard", "config": {"preset": "hard", "rounds": 4}},
	    {"name": "broken", "config": {"firms": [{"id": "x", "strategy": {"name": "psychic"}}]}}
	  ]
	}`
	w := do(t, r, http.MethodPost, "/api/v1/simulations/compare", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp models.CompareSimulationsResponse
	decode(t, w, &resp)
	if len(resp.Comparison) != 3 {
		t.Fatalf("every variation must be reported, got %d", len(resp.Comparison))
	}

	base, hard, broken := resp.Comparison[0], resp.Comparison[1], resp.Comparison[2]
	if base.Summary == nil || base.Summary.Rounds != 2 || base.ID == "" {
		t.Errorf("base: %+v", base)
	}
	if hard.Summary == nil || hard.Summary.Rounds != 4 || hard.Summary.Parameters.StartingCapital != 25000 {
		t.Errorf("hard: %+v", hard)
	}
	if broken.Summary != nil || broken.Error == nil || broken.Error.Code != "INVALID_CONFIG" {
		t.Errorf("broken: %+v", broken)
	}
}

func TestListMachines(t *testing.T) {
	r := newRouter(nil)
	w := do(t, r, http.MethodGet, "/api/v1/machines", "")
	var resp struct {
		Machines []struct {
			Name string  `json:"name"`
			Cost float64 `json:"cost"`
		} `json:"machines"`
	}
	decode(t, w, &resp)
	if len(resp.Machines) != 4 || resp.Machines[0].Cost != 5000 {
		t.Errorf("machines: %+v", resp.Machines)
	}
}

func TestListPresets(t *testing.T) {
	r := newRouter(nil)
	w := do(t, r, http.MethodGet, "/api/v1/presets", "")
	var resp struct {
		Presets []models.PresetInfo `json:"presets"`
	}
	decode(t, w, &resp)

	var names []string
	builtin := 0
	for _, p := range resp.Presets {
		names = append(names, p.Name)
		if p.Source == "built-in" {
			builtin++
		}
	}
	if builtin != 3 || len(resp.Presets) != 6 {
		t.Errorf("presets: %v", names)
	}
}

func TestListStrategies(t *testing.T) {
	r := newRouter(nil)
	w := do(t, r, http.MethodGet, "/api/v1/strategies", "")
	var resp struct {
		Strategies []struct {
			Name string `json:"name"`
		} `json:"strategies"`
	}
	decode(t, w, &resp)
	var names []string
	for _, s := range resp.Strategies {
		names = append(names, s.Name)
	}
	if got := strings.Join(names, ","); got != "aggressive,balanced,conservative,fixed,innovative" {
		t.Errorf("strategies: %s", got)
	}
}
