package physics

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownFormula is returned when a formula name is not registered.
var ErrUnknownFormula = errors.New("unknown formula")

// Input describes one slider-controlled parameter of a formula.
type Input struct {
	Name    string  `json:"name"`
	Symbol  string  `json:"symbol"`
	Unit    string  `json:"unit"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
	Step    float64 `json:"step"`
}

// Clamp bounds v to the input's slider range.
func (in Input) Clamp(v float64) float64 {
	if v < in.Min {
		return in.Min
	}
	if v > in.Max {
		return in.Max
	}
	return v
}

// Formula is a named closed-form computation over one to three inputs.
type Formula struct {
	Name       string  `json:"name"`
	Expression string  `json:"expression"`
	Unit       string  `json:"unit"`
	Inputs     []Input `json:"inputs"`

	eval func(args []float64) float64
}

// Reading is the outcome of evaluating a formula: the inputs after
// clamping and defaulting, and the result.
type Reading struct {
	Formula string             `json:"formula"`
	Inputs  map[string]float64 `json:"inputs"`
	Result  float64            `json:"result"`
	Unit    string             `json:"unit"`
}

// Evaluate computes the formula. Values outside an input's range are
// clamped and missing values take the input's default; unknown keys are
// ignored.
func (f Formula) Evaluate(values map[string]float64) Reading {
	args := make([]float64, len(f.Inputs))
	used := make(map[string]float64, len(f.Inputs))
	for i, in := range f.Inputs {
		v, ok := values[in.Name]
		if !ok {
			v = in.Default
		}
		v = in.Clamp(v)
		args[i] = v
		used[in.Name] = v
	}

	return Reading{
		Formula: f.Name,
		Inputs:  used,
		Result:  f.eval(args),
		Unit:    f.Unit,
	}
}

// Defaults returns the default value of every input.
func (f Formula) Defaults() map[string]float64 {
	d := make(map[string]float64, len(f.Inputs))
	for _, in := range f.Inputs {
		d[in.Name] = in.Default
	}
	return d
}

var (
	massInput = Input{Name: "mass", Symbol: "m", Unit: "kg", Min: 1, Max: 100, Default: 10, Step: 1}
	velInput  = Input{Name: "velocity", Symbol: "v", Unit: "m/s", Min: 0, Max: 50, Default: 5, Step: 1}
	accInput  = Input{Name: "acceleration", Symbol: "a", Unit: "m/s²", Min: -20, Max: 20, Default: 2, Step: 0.5}
	timeInput = Input{Name: "time", Symbol: "t", Unit: "s", Min: 0, Max: 20, Default: 2, Step: 0.5}
)

var registry = map[string]Formula{
	"momentum": {
		Name: "momentum", Expression: "p = m × v", Unit: "kg·m/s",
		Inputs: []Input{massInput, velInput},
		eval:   func(a []float64) float64 { return Momentum(a[0], a[1]) },
	},
	"force": {
		Name: "force", Expression: "F = m × a", Unit: "N",
		Inputs: []Input{massInput, accInput},
		eval:   func(a []float64) float64 { return Force(a[0], a[1]) },
	},
	"acceleration": {
		Name: "acceleration", Expression: "a = F / m", Unit: "m/s²",
		Inputs: []Input{
			{Name: "force", Symbol: "F", Unit: "N", Min: 0, Max: 500, Default: 50, Step: 5},
			massInput,
		},
		eval: func(a []float64) float64 { return Acceleration(a[0], a[1]) },
	},
	"kinetic_energy": {
		Name: "kinetic_energy", Expression: "KE = ½ × m × v²", Unit: "J",
		Inputs: []Input{massInput, velInput},
		eval:   func(a []float64) float64 { return KineticEnergy(a[0], a[1]) },
	},
	"impulse": {
		Name: "impulse", Expression: "J = F × Δt", Unit: "N·s",
		Inputs: []Input{
			{Name: "force", Symbol: "F", Unit: "N", Min: 0, Max: 500, Default: 50, Step: 5},
			{Name: "duration", Symbol: "Δt", Unit: "s", Min: 0, Max: 5, Default: 0.5, Step: 0.1},
		},
		eval: func(a []float64) float64 { return Impulse(a[0], a[1]) },
	},
	"weight": {
		Name: "weight", Expression: "W = m × g", Unit: "N",
		Inputs: []Input{
			massInput,
			{Name: "gravity", Symbol: "g", Unit: "m/s²", Min: 1, Max: 25, Default: StandardGravity, Step: 0.1},
		},
		eval: func(a []float64) float64 { return Weight(a[0], a[1]) },
	},
	"final_velocity": {
		Name: "final_velocity", Expression: "v = u + a × t", Unit: "m/s",
		Inputs: []Input{
			{Name: "initial_velocity", Symbol: "u", Unit: "m/s", Min: 0, Max: 50, Default: 0, Step: 1},
			accInput, timeInput,
		},
		eval: func(a []float64) float64 { return FinalVelocity(a[0], a[1], a[2]) },
	},
	"displacement": {
		Name: "displacement", Expression: "s = u × t + ½ × a × t²", Unit: "m",
		Inputs: []Input{
			{Name: "initial_velocity", Symbol: "u", Unit: "m/s", Min: 0, Max: 50, Default: 0, Step: 1},
			accInput, timeInput,
		},
		eval: func(a []float64) float64 { return Displacement(a[0], a[1], a[2]) },
	},
}

// Lookup returns the registered formula with the given name.
func Lookup(name string) (Formula, error) {
	f, ok := registry[name]
	if !ok {
		return Formula{}, fmt.Errorf("%w: %q", ErrUnknownFormula, name)
	}
	return f, nil
}

// Names lists the registered formulas in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
