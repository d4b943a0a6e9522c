package network

import "math"

const (
	// Taylor number regime boundaries of the rotating annulus correlation
	laminarTaylorLimit = 41.0
	vortexTaylorLimit  = 100.0

	laminarReynoldsLimit = 2300.0
	// Fully developed laminar flow between parallel plates
	laminarChannelNusselt = 7.54

	diskTransitionReynolds = 2.5e5

	// freeConvectionCoefficient is the floor applied to rotating surfaces at
	// standstill, W/(m²·K)
	freeConvectionCoefficient = 5.0
)

// Fluid holds the coolant properties used by the convection correlations
type Fluid struct {
	Density             float64 `json:"density" yaml:"density" toml:"density"`                                        // kg/m³
	KinematicViscosity  float64 `json:"kinematic_viscosity" yaml:"kinematic_viscosity" toml:"kinematic_viscosity"`    // m²/s
	ThermalConductivity float64 `json:"thermal_conductivity" yaml:"thermal_conductivity" toml:"thermal_conductivity"` // W/(m·K)
	SpecificHeat        float64 `json:"specific_heat" yaml:"specific_heat" toml:"specific_heat"`                      // J/(kg·K)
}

// Prandtl returns ν·ρ·cp/k
func (f Fluid) Prandtl() float64 {
	return f.KinematicViscosity * f.Density * f.SpecificHeat / f.ThermalConductivity
}

// AirgapFlow describes the annulus between a rotating cylinder and a stationary bore
type AirgapFlow struct {
	RotorRadius  float64 // Outer radius of the rotating surface, m
	Gap          float64 // Radial clearance, m
	AngularSpeed float64 // rad/s
	AxialSpeed   float64 // Mean axial velocity of forced air, m/s
}

// ModifiedTaylorNumber returns Ta_m = Ta/Fg with Ta = ω²·r_m·g³/ν² and the
// geometric factor Fg of the narrow annulus, r_m being the mean gap radius.
func ModifiedTaylorNumber(flow AirgapFlow, fluid Fluid) float64 {
	g := flow.Gap
	rm := flow.RotorRadius + g/2
	nu := fluid.KinematicViscosity
	ta := flow.AngularSpeed * flow.AngularSpeed * rm * g * g * g / (nu * nu)

	x := g / flow.RotorRadius
	s := 1 - 0.652*x/(1-x)
	p := 0.0571*s + 0.00056/s
	fg := math.Pow(math.Pi, 4) / (1697 * p) / (1 - g/(2*rm))
	return math.Sqrt(ta / fg)
}

// TaylorNusselt returns the Nusselt number of rotational flow in the annulus,
// based on the hydraulic diameter 2g.
func TaylorNusselt(taylor, prandtl float64) float64 {
	switch {
	case taylor < laminarTaylorLimit:
		return 2
	case taylor < vortexTaylorLimit:
		return 0.212 * math.Pow(taylor, 0.63) * math.Pow(prandtl, 0.27)
	default:
		return 0.386 * math.Pow(taylor, 0.5) * math.Pow(prandtl, 0.27)
	}
}

// AxialNusselt returns the Nusselt number of axial channel flow at Reynolds
// number re, laminar below 2300 and Gnielinski above
func AxialNusselt(re, prandtl float64) float64 {
	if re < laminarReynoldsLimit {
		return laminarChannelNusselt
	}
	f := math.Pow(0.79*math.Log(re)-1.64, -2)
	nu := (f / 8) * (re - 1000) * prandtl / (1 + 12.7*math.Sqrt(f/8)*(math.Pow(prandtl, 2.0/3)-1))
	return math.Max(nu, laminarChannelNusselt)
}

// AirgapHeatTransfer returns the convection coefficient in W/(m²·K) between the
// rotor surface and the air in the gap. Rotational and axial contributions are
// combined as Nu = (Nu_rot³ + Nu_ax³)^{1/3}.
func AirgapHeatTransfer(flow AirgapFlow, fluid Fluid) float64 {
	dh := 2 * flow.Gap
	pr := fluid.Prandtl()

	nuRot := TaylorNusselt(ModifiedTaylorNumber(flow, fluid), pr)
	re := math.Abs(flow.AxialSpeed) * dh / fluid.KinematicViscosity
	nuAx := AxialNusselt(re, pr)

	nu := math.Cbrt(nuRot*nuRot*nuRot + nuAx*nuAx*nuAx)
	return nu * fluid.ThermalConductivity / dh
}

// RotatingDiskHeatTransfer returns the convection coefficient of a disk face of
// the given radius spinning in still air, 0.36·Re^0.5 laminar and 0.015·Re^0.8
// turbulent with Re = ω·r²/ν
func RotatingDiskHeatTransfer(radius, angularSpeed float64, fluid Fluid) float64 {
	re := math.Abs(angularSpeed) * radius * radius / fluid.KinematicViscosity
	var nu float64
	if re < diskTransitionReynolds {
		nu = 0.36 * math.Sqrt(re)
	} else {
		nu = 0.015 * math.Pow(re, 0.8)
	}
	return math.Max(nu*fluid.ThermalConductivity/radius, freeConvectionCoefficient)
}

// RotatingShaftHeatTransfer returns the convection coefficient of a cylinder of
// the given radius rotating in still air, Nu = 0.133·Re^(2/3)·Pr^(1/3) with
// Re = ω·D²/ν
func RotatingShaftHeatTransfer(radius, angularSpeed float64, fluid Fluid) float64 {
	d := 2 * radius
	re := math.Abs(angularSpeed) * d * d / fluid.KinematicViscosity
	nu := 0.133 * math.Pow(re, 2.0/3) * math.Cbrt(fluid.Prandtl())
	return math.Max(nu*fluid.ThermalConductivity/d, freeConvectionCoefficient)
}
