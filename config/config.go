// Package config holds the typed rotor design description shared by the thermal
// and structural analyzers, with defaults and YAML/TOML loading.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/RyanBlaney/emdesign/algorithms/network"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Material holds the properties the analyzers read for one rotor part
type Material struct {
	Name string `json:"name" yaml:"name" toml:"name"`

	Density       float64 `json:"density" yaml:"density" toml:"density"`                      // kg/m³
	YoungsModulus float64 `json:"youngs_modulus" yaml:"youngs_modulus" toml:"youngs_modulus"` // Pa
	PoissonRatio  float64 `json:"poisson_ratio" yaml:"poisson_ratio" toml:"poisson_ratio"`

	ThermalConductivity float64 `json:"thermal_conductivity" yaml:"thermal_conductivity" toml:"thermal_conductivity"` // W/(m·K)
	SpecificHeat        float64 `json:"specific_heat" yaml:"specific_heat" toml:"specific_heat"`                      // J/(kg·K)

	// YieldStrength is the allowable of ductile parts, UltimateStrength the
	// allowable of brittle parts. +Inf disables the check.
	YieldStrength    float64 `json:"yield_strength" yaml:"yield_strength" toml:"yield_strength"`          // Pa
	UltimateStrength float64 `json:"ultimate_strength" yaml:"ultimate_strength" toml:"ultimate_strength"` // Pa

	// Magnet only
	Remanence            float64 `json:"remanence,omitempty" yaml:"remanence,omitempty" toml:"remanence,omitempty"` // T
	RelativePermeability float64 `json:"relative_permeability,omitempty" yaml:"relative_permeability,omitempty" toml:"relative_permeability,omitempty"`
}

// Validate checks the mechanical and thermal properties
func (m Material) Validate() error {
	switch {
	case !(m.Density > 0):
		return fmt.Errorf("%w: %s density %v", ErrInvalidConfig, m.Name, m.Density)
	case !(m.YoungsModulus > 0):
		return fmt.Errorf("%w: %s Young's modulus %v", ErrInvalidConfig, m.Name, m.YoungsModulus)
	case !(m.PoissonRatio > -1 && m.PoissonRatio < 0.5):
		return fmt.Errorf("%w: %s Poisson ratio %v", ErrInvalidConfig, m.Name, m.PoissonRatio)
	case !(m.ThermalConductivity > 0):
		return fmt.Errorf("%w: %s thermal conductivity %v", ErrInvalidConfig, m.Name, m.ThermalConductivity)
	case !(m.YieldStrength > 0) || !(m.UltimateStrength > 0):
		return fmt.Errorf("%w: %s strengths yield=%v ultimate=%v", ErrInvalidConfig, m.Name,
			m.YieldStrength, m.UltimateStrength)
	}
	return nil
}

// Air holds the coolant properties at the operating temperature
type Air struct {
	Density             float64 `json:"density" yaml:"density" toml:"density"`                                        // kg/m³
	KinematicViscosity  float64 `json:"kinematic_viscosity" yaml:"kinematic_viscosity" toml:"kinematic_viscosity"`    // m²/s
	ThermalConductivity float64 `json:"thermal_conductivity" yaml:"thermal_conductivity" toml:"thermal_conductivity"` // W/(m·K)
	SpecificHeat        float64 `json:"specific_heat" yaml:"specific_heat" toml:"specific_heat"`                      // J/(kg·K)
}

// Fluid returns the properties in the form the convection correlations take
func (a Air) Fluid() network.Fluid {
	return network.Fluid{
		Density:             a.Density,
		KinematicViscosity:  a.KinematicViscosity,
		ThermalConductivity: a.ThermalConductivity,
		SpecificHeat:        a.SpecificHeat,
	}
}

// Validate checks that every property is positive
func (a Air) Validate() error {
	if !(a.Density > 0) || !(a.KinematicViscosity > 0) || !(a.ThermalConductivity > 0) || !(a.SpecificHeat > 0) {
		return fmt.Errorf("%w: air properties must be positive: %+v", ErrInvalidConfig, a)
	}
	return nil
}

// RotorGeometry describes a surface magnet rotor: a solid shaft carrying a
// laminated core, magnets bonded to the core and a retaining sleeve, clamped
// axially by two hubs.
type RotorGeometry struct {
	ShaftRadius       float64 `json:"shaft_radius" yaml:"shaft_radius" toml:"shaft_radius"`
	CoreOuterRadius   float64 `json:"core_outer_radius" yaml:"core_outer_radius" toml:"core_outer_radius"`
	MagnetThickness   float64 `json:"magnet_thickness" yaml:"magnet_thickness" toml:"magnet_thickness"`
	SleeveThickness   float64 `json:"sleeve_thickness" yaml:"sleeve_thickness" toml:"sleeve_thickness"`
	AdhesiveThickness float64 `json:"adhesive_thickness" yaml:"adhesive_thickness" toml:"adhesive_thickness"` // Bond line, thermal only
	Airgap            float64 `json:"airgap" yaml:"airgap" toml:"airgap"`                                     // Sleeve to stator bore
	StackLength       float64 `json:"stack_length" yaml:"stack_length" toml:"stack_length"`

	HubOuterRadius float64 `json:"hub_outer_radius" yaml:"hub_outer_radius" toml:"hub_outer_radius"`
	HubThickness   float64 `json:"hub_thickness" yaml:"hub_thickness" toml:"hub_thickness"`
	ShaftOverhang  float64 `json:"shaft_overhang" yaml:"shaft_overhang" toml:"shaft_overhang"` // Exposed shaft past each hub

	// Radial interferences of the press fits
	CoreShaftInterference    float64 `json:"core_shaft_interference" yaml:"core_shaft_interference" toml:"core_shaft_interference"`
	MagnetSleeveInterference float64 `json:"magnet_sleeve_interference" yaml:"magnet_sleeve_interference" toml:"magnet_sleeve_interference"`
}

// MagnetOuterRadius returns the radius of the magnet surface
func (g RotorGeometry) MagnetOuterRadius() float64 {
	return g.CoreOuterRadius + g.MagnetThickness
}

// SleeveOuterRadius returns the outer rotor radius
func (g RotorGeometry) SleeveOuterRadius() float64 {
	return g.MagnetOuterRadius() + g.SleeveThickness
}

// StatorBoreRadius returns the radius of the stationary wall of the airgap
func (g RotorGeometry) StatorBoreRadius() float64 {
	return g.SleeveOuterRadius() + g.Airgap
}

// Validate checks that the radii are positive and nested
func (g RotorGeometry) Validate() error {
	positive := map[string]float64{
		"shaft_radius":       g.ShaftRadius,
		"magnet_thickness":   g.MagnetThickness,
		"sleeve_thickness":   g.SleeveThickness,
		"adhesive_thickness": g.AdhesiveThickness,
		"airgap":             g.Airgap,
		"stack_length":       g.StackLength,
		"hub_thickness":      g.HubThickness,
		"shaft_overhang":     g.ShaftOverhang,
	}
	for name, v := range positive {
		if !(v > 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, name, v)
		}
	}
	if !(g.CoreOuterRadius > g.ShaftRadius) {
		return fmt.Errorf("%w: core outer radius %v must exceed shaft radius %v",
			ErrInvalidConfig, g.CoreOuterRadius, g.ShaftRadius)
	}
	if !(g.HubOuterRadius > g.ShaftRadius) {
		return fmt.Errorf("%w: hub outer radius %v must exceed shaft radius %v",
			ErrInvalidConfig, g.HubOuterRadius, g.ShaftRadius)
	}
	if g.CoreShaftInterference < 0 || g.MagnetSleeveInterference < 0 {
		return fmt.Errorf("%w: interferences must not be negative", ErrInvalidConfig)
	}
	return nil
}

// RotorMaterials names the material of every rotor part
type RotorMaterials struct {
	Shaft    Material `json:"shaft" yaml:"shaft" toml:"shaft"`
	Core     Material `json:"core" yaml:"core" toml:"core"`
	Magnet   Material `json:"magnet" yaml:"magnet" toml:"magnet"`
	Sleeve   Material `json:"sleeve" yaml:"sleeve" toml:"sleeve"`
	Adhesive Material `json:"adhesive" yaml:"adhesive" toml:"adhesive"`
	Hub      Material `json:"hub" yaml:"hub" toml:"hub"`
}

// Validate checks every material
func (m RotorMaterials) Validate() error {
	for _, mat := range []Material{m.Shaft, m.Core, m.Magnet, m.Sleeve, m.Adhesive, m.Hub} {
		if err := mat.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Operating is the operating point the rotor is analyzed at
type Operating struct {
	SpeedRPM           float64 `json:"speed_rpm" yaml:"speed_rpm" toml:"speed_rpm"`
	AmbientTemperature float64 `json:"ambient_temperature" yaml:"ambient_temperature" toml:"ambient_temperature"` // °C
}

// AngularSpeed returns the speed in rad/s
func (o Operating) AngularSpeed() float64 {
	return RPMToRadPerSecond(o.SpeedRPM)
}

// RotorDesign is the complete input of the rotor analyzers
type RotorDesign struct {
	Name      string         `json:"name" yaml:"name" toml:"name"`
	Geometry  RotorGeometry  `json:"geometry" yaml:"geometry" toml:"geometry"`
	Materials RotorMaterials `json:"materials" yaml:"materials" toml:"materials"`
	Air       Air            `json:"air" yaml:"air" toml:"air"`
	Operating Operating      `json:"operating" yaml:"operating" toml:"operating"`
}

// Validate checks the whole design
func (d RotorDesign) Validate() error {
	if err := d.Geometry.Validate(); err != nil {
		return err
	}
	if err := d.Materials.Validate(); err != nil {
		return err
	}
	if err := d.Air.Validate(); err != nil {
		return err
	}
	if d.Operating.SpeedRPM < 0 || math.IsNaN(d.Operating.SpeedRPM) {
		return fmt.Errorf("%w: speed %v rpm", ErrInvalidConfig, d.Operating.SpeedRPM)
	}
	return nil
}

// RPMToRadPerSecond converts a rotational speed
func RPMToRadPerSecond(rpm float64) float64 {
	return rpm * 2 * math.Pi / 60
}
