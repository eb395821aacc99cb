package simulation

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
)

var ledgerHeader = []string{
	"round",
	"firm_id",
	"strategy",
	"production",
	"sell_from_inventory",
	"price",
	"marketing_effort",
	"buy_market_analysis",
	"rnd_investment",
	"new_machine",
	"replaced",
	"violations",
	"outcome",
	"total_demand",
	"average_price",
	"units_sold",
	"market_share",
	"revenue",
	"production_cost",
	"inventory_cost",
	"rnd_cost",
	"machine_cost",
	"market_analysis_cost",
	"total_costs",
	"interest",
	"profit",
	"capital",
	"inventory",
	"capacity",
	"cumulative_profit",
}

func WriteLedgerCSV(path string, ledger []LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeLedgerCSV(f, ledger)
}

// EncodeLedgerCSV writes the ledger with a header row to w.
func EncodeLedgerCSV(w io.Writer, ledger []LedgerRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ledgerHeader); err != nil {
		return err
	}

	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Round),
			r.FirmID,
			r.Strategy,
			fmtUnits(r.Production),
			fmtUnits(r.SellFromInventory),
			fmtMoney(r.Price),
			fmtUnits(r.MarketingEffort),
			strconv.FormatBool(r.BuyMarketAnalysis),
			fmtMoney(r.RndInvestment),
			r.NewMachine,
			strconv.FormatBool(r.Replaced),
			strings.Join(r.Violations, "; "),
			string(r.Outcome),
			strconv.Itoa(r.TotalDemand),
			fmtMoney(r.AveragePrice),
			fmtUnits(r.UnitsSold),
			strconv.FormatFloat(r.MarketShare, 'f', 4, 64),
			fmtMoney(r.Revenue),
			fmtMoney(r.ProductionCost),
			fmtMoney(r.InventoryCost),
			fmtMoney(r.RndCost),
			fmtMoney(r.MachineCost),
			fmtMoney(r.MarketAnalysisCost),
			fmtMoney(r.TotalCosts),
			fmtMoney(r.Interest),
			fmtMoney(r.Profit),
			fmtMoney(r.Capital),
			fmtUnits(r.Inventory),
			fmtUnits(r.Capacity),
			fmtMoney(r.CumulativeProfit),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func fmtMoney(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}

func fmtUnits(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
