package network

import "math"

// Closed-form thermal resistances in K/W. Degenerate inputs (zero conductivity,
// area or coefficient) produce +Inf, an open edge.

// PlaneWall returns Δx/(k·A)
func PlaneWall(thickness, conductivity, area float64) float64 {
	return thickness / (conductivity * area)
}

// CylindricalWall returns ln(r2/r1)/(2π·H·k) for radial conduction through a
// cylinder shell of length H between radii r1 < r2
func CylindricalWall(r1, r2, length, conductivity float64) float64 {
	return math.Log(r2/r1) / (2 * math.Pi * length * conductivity)
}

// Convection returns 1/(h·A)
func Convection(coefficient, area float64) float64 {
	return 1 / (coefficient * area)
}

// Advection returns 1/(ṁ·cp), the resistance of a coolant stream carrying heat
// out of a node
func Advection(massFlow, specificHeat float64) float64 {
	return 1 / (massFlow * specificHeat)
}

// CylinderArea returns the lateral surface 2π·r·H
func CylinderArea(radius, length float64) float64 {
	return 2 * math.Pi * radius * length
}

// AnnulusArea returns π·(r2² − r1²)
func AnnulusArea(r1, r2 float64) float64 {
	return math.Pi * (r2*r2 - r1*r1)
}
