package metrics

import (
	"math"

	"github.com/san-kum/twosprings/internal/dynamo"
)

// EnergyLoss reports the fraction of the initial energy dissipated by the
// last observed sample.
type EnergyLoss struct {
	name          string
	dyn           dynamo.Hamiltonian
	initialEnergy float64
	currentEnergy float64
	samples       int
}

func NewEnergyLoss(dyn dynamo.Hamiltonian) *EnergyLoss {
	return &EnergyLoss{
		name: "energy_loss",
		dyn:  dyn,
	}
}

func (e *EnergyLoss) Name() string { return e.name }

func (e *EnergyLoss) Observe(x dynamo.State, t float64) {
	energy := e.dyn.Energy(x)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.currentEnergy = energy
	e.samples++
}

func (e *EnergyLoss) Value() float64 {
	if e.samples == 0 || e.initialEnergy == 0 {
		return 0
	}
	return (e.initialEnergy - e.currentEnergy) / math.Abs(e.initialEnergy)
}

func (e *EnergyLoss) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.samples = 0
}

// EnergyDrift tracks the largest rise of energy above its running minimum,
// relative to the initial energy. A damped system should keep this near
// zero; a large value points at integration error.
type EnergyDrift struct {
	name          string
	dyn           dynamo.Hamiltonian
	initialEnergy float64
	minEnergy     float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(dyn dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		dyn:  dyn,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	energy := e.dyn.Energy(x)

	if e.samples == 0 {
		e.initialEnergy = energy
		e.minEnergy = energy
	}
	e.samples++

	if energy < e.minEnergy {
		e.minEnergy = energy
	}
	if e.initialEnergy != 0 {
		drift := (energy - e.minEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.minEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// Defaults returns the metrics attached to every run of dyn.
func Defaults(dyn dynamo.Hamiltonian) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergyLoss(dyn),
		NewEnergyDrift(dyn),
	}
}
