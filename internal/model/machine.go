package model

// Machine is a production unit. Capacity is units per round.
type Machine struct {
	Name                string  `json:"name" yaml:"name"`
	Cost                float64 `json:"cost" yaml:"cost"`
	Capacity            float64 `json:"capacity" yaml:"capacity"`
	VariableCostPerUnit float64 `json:"variable_cost_per_unit" yaml:"variable_cost_per_unit"`
}

// Catalog machine names. Keep these stable; they appear in saved decisions.
const (
	MachineSmartMini  = "SmartMini-Fertiger"
	MachineKompaktPro = "KompaktPro-Produzent"
	MachineFlexiTech  = "FlexiTech-Assembler"
	MachineMegaFlow   = "MegaFlow-Manufaktur"
)

// catalog is ordered by ascending cost. Bigger machines cost more, hold more capacity
// and produce cheaper units.
var catalog = [...]Machine{
	{Name: MachineSmartMini, Cost: 5000, Capacity: 100, VariableCostPerUnit: 6},
	{Name: MachineKompaktPro, Cost: 12000, Capacity: 250, VariableCostPerUnit: 5},
	{Name: MachineFlexiTech, Cost: 18000, Capacity: 350, VariableCostPerUnit: 4.5},
	{Name: MachineMegaFlow, Cost: 25000, Capacity: 500, VariableCostPerUnit: 4},
}

// Catalog returns a copy of the machine catalog, cheapest first.
func Catalog() []Machine {
	out := make([]Machine, len(catalog))
	copy(out, catalog[:])
	return out
}

func LookupMachine(name string) (Machine, bool) {
	for _, m := range catalog {
		if m.Name == name {
			return m, true
		}
	}
	return Machine{}, false
}
