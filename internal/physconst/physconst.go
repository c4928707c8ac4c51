// Package physconst is the table of physical and mathematical constants used
// by the numerical exercises. Values are CODATA 2018, in SI units.
package physconst

import "math"

const (
	// NeutronMass is the rest mass of the neutron in kilograms.
	NeutronMass = 1.67492749804e-27
	// ElectronVolt is one electronvolt expressed in joules.
	ElectronVolt = 1.602176634e-19
	// MilliElectronVolt is one millielectronvolt expressed in joules.
	MilliElectronVolt = 1e-3 * ElectronVolt
	// Golden is the golden ratio (1+√5)/2.
	Golden = math.Phi
)

// JoulesToMeV converts an energy in joules to millielectronvolts.
func JoulesToMeV(e float64) float64 { return e / MilliElectronVolt }

// MeVToJoules converts an energy in millielectronvolts to joules.
func MeVToJoules(e float64) float64 { return e * MilliElectronVolt }
