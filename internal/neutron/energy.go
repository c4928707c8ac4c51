// Package neutron computes inelastic neutron-scattering quantities from
// time-of-flight measurements. All quantities are in SI units.
package neutron

import (
	"math"
	"strings"

	apperrors "github.com/agbru/numex/internal/errors"
	"github.com/agbru/numex/internal/physconst"
)

const op = "energy_transfer"

// Mode selects the spectrometer geometry.
type Mode int

const (
	// Direct geometry: the incident energy Ei is fixed and known.
	Direct Mode = iota + 1
	// Indirect geometry: the final energy Ef is fixed and known.
	Indirect
)

// String returns "direct" or "indirect".
func (m Mode) String() string {
	switch m {
	case Direct:
		return "direct"
	case Indirect:
		return "indirect"
	default:
		return "unknown"
	}
}

// ParseMode converts "direct" or "indirect" (case-insensitive) into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "direct":
		return Direct, nil
	case "indirect":
		return Indirect, nil
	default:
		return 0, apperrors.NewInvalidArgument(op, "mode must be 'direct' or 'indirect', got %q", s)
	}
}

// Modes lists the supported geometries.
func Modes() []Mode { return []Mode{Direct, Indirect} }

// EnergyTransfer returns the energy transferred to the sample.
//
// eiOrEf is the incident energy in direct mode and the final energy in
// indirect mode, tof the measured time of flight, l1 the primary and l2 the
// secondary flight path. With mₙ the neutron mass:
//
//	t0 = sqrt(l1² mₙ / eiOrEf)
//	Δt = tof - t0
//	direct:   eiOrEf - mₙ l2² / (2 Δt²)
//	indirect: eiOrEf - mₙ l1² / (2 Δt²)
//
// Degenerate inputs are not guarded: Δt = 0 yields -Inf and a non-positive
// eiOrEf yields NaN or Inf, following IEEE-754.
func EnergyTransfer(eiOrEf, tof, l1, l2 float64, mode Mode) (float64, error) {
	t0 := math.Sqrt(l1 * l1 * physconst.NeutronMass / eiOrEf)
	dt := tof - t0
	switch mode {
	case Direct:
		return eiOrEf - physconst.NeutronMass*l2*l2/2/(dt*dt), nil
	case Indirect:
		return eiOrEf - physconst.NeutronMass*l1*l1/2/(dt*dt), nil
	default:
		return 0, apperrors.NewInvalidArgument(op, "unsupported mode %d", int(mode))
	}
}
