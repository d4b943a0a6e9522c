// Package structural finds the speed at which a surface magnet rotor first
// overstresses one of its parts.
package structural

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/emdesign/algorithms/stress"
	"github.com/RyanBlaney/emdesign/config"
	"github.com/RyanBlaney/emdesign/logging"
)

// Part identifies a checked rotor part
type Part string

const (
	PartShaft    Part = "shaft"
	PartCore     Part = "core"
	PartMagnet   Part = "magnet"
	PartSleeve   Part = "sleeve"
	PartAdhesive Part = "adhesive"
)

// CheckOrder is the order parts are checked in at every speed
var CheckOrder = []Part{PartShaft, PartCore, PartMagnet, PartSleeve, PartAdhesive}

// Layer indices of the stress model, inside out. The adhesive is the
// zero-thickness interface between core and magnet.
const (
	layerShaft = iota
	layerCore
	layerMagnet
	layerSleeve
)

// SpeedLimitParams controls the speed sweep
type SpeedLimitParams struct {
	MaxSpeed        float64 `json:"max_speed" yaml:"max_speed" toml:"max_speed"` // rpm
	Step            float64 `json:"step" yaml:"step" toml:"step"`                // rpm
	SamplesPerLayer int     `json:"samples_per_layer" yaml:"samples_per_layer" toml:"samples_per_layer"`
}

// DefaultSpeedLimitParams returns a sweep up to 200 krpm in 500 rpm steps
func DefaultSpeedLimitParams() SpeedLimitParams {
	return SpeedLimitParams{
		MaxSpeed:        200000,
		Step:            500,
		SamplesPerLayer: 20,
	}
}

// MaterialRatio is the worst stress of one part against its allowable
type MaterialRatio struct {
	Part      Part             `json:"part"`
	Material  string           `json:"material"`
	Criterion stress.Criterion `json:"criterion"`
	Stress    float64          `json:"stress"`    // Equivalent stress, Pa
	Allowable float64          `json:"allowable"` // Pa
	Ratio     float64          `json:"ratio"`
	Radius    float64          `json:"radius"` // Where Stress occurs, m
}

// SpeedLimitResult is the outcome of the sweep. When Failed is false the sweep
// reached MaxSpeed and Ratios describe that speed.
type SpeedLimitResult struct {
	Failed   bool            `json:"failed"`
	Part     Part            `json:"part,omitempty"`
	Material string          `json:"material,omitempty"`
	Speed    float64         `json:"speed"` // rpm
	Steps    int             `json:"steps"`
	Ratios   []MaterialRatio `json:"ratios"`
}

type partRating struct {
	part      Part
	material  config.Material
	criterion stress.Criterion
	allowable float64
}

// SpeedLimitAnalyzer sweeps the rotor speed until a part fails
type SpeedLimitAnalyzer struct {
	design config.RotorDesign
	params SpeedLimitParams
	rotor  *stress.LayeredRotor
	parts  []partRating

	logger logging.Logger
}

// NewSpeedLimitAnalyzer builds the layered stress model of design. Shaft and
// core are ductile and rated by von Mises against their yield strength; the
// magnet, sleeve and adhesive are brittle and rated by Tresca against their
// ultimate strength.
func NewSpeedLimitAnalyzer(design config.RotorDesign, params SpeedLimitParams) (*SpeedLimitAnalyzer, error) {
	if err := design.Validate(); err != nil {
		return nil, err
	}
	if !(params.Step > 0) || !(params.MaxSpeed >= 0) || math.IsInf(params.MaxSpeed, 0) {
		return nil, fmt.Errorf("structural: invalid sweep max=%v step=%v", params.MaxSpeed, params.Step)
	}
	if params.SamplesPerLayer < 2 {
		return nil, fmt.Errorf("structural: need at least 2 samples per layer, got %d", params.SamplesPerLayer)
	}

	g := design.Geometry
	m := design.Materials
	layer := func(name string, mat config.Material, inner, outer float64) stress.Layer {
		return stress.Layer{
			Name:          name,
			InnerRadius:   inner,
			OuterRadius:   outer,
			Density:       mat.Density,
			YoungsModulus: mat.YoungsModulus,
			PoissonRatio:  mat.PoissonRatio,
		}
	}
	rotor, err := stress.NewLayeredRotor([]stress.Layer{
		layer(string(PartShaft), m.Shaft, 0, g.ShaftRadius),
		layer(string(PartCore), m.Core, g.ShaftRadius, g.CoreOuterRadius),
		layer(string(PartMagnet), m.Magnet, g.CoreOuterRadius, g.MagnetOuterRadius()),
		layer(string(PartSleeve), m.Sleeve, g.MagnetOuterRadius(), g.SleeveOuterRadius()),
	}, []float64{g.CoreShaftInterference, 0, g.MagnetSleeveInterference})
	if err != nil {
		return nil, fmt.Errorf("structural: %w", err)
	}

	return &SpeedLimitAnalyzer{
		design: design,
		params: params,
		rotor:  rotor,
		parts: []partRating{
			{PartShaft, m.Shaft, stress.CriterionVonMises, m.Shaft.YieldStrength},
			{PartCore, m.Core, stress.CriterionVonMises, m.Core.YieldStrength},
			{PartMagnet, m.Magnet, stress.CriterionTresca, m.Magnet.UltimateStrength},
			{PartSleeve, m.Sleeve, stress.CriterionTresca, m.Sleeve.UltimateStrength},
			{PartAdhesive, m.Adhesive, stress.CriterionTresca, m.Adhesive.UltimateStrength},
		},
		logger: logging.WithFields(logging.Fields{
			"component": "rotor_structural",
			"design":    design.Name,
		}),
	}, nil
}

// Ratios returns the stress ratio of every part at speedRPM, in CheckOrder
func (a *SpeedLimitAnalyzer) Ratios(speedRPM float64) ([]MaterialRatio, error) {
	sol, err := a.rotor.Solve(config.RPMToRadPerSecond(speedRPM))
	if err != nil {
		return nil, fmt.Errorf("structural: %w", err)
	}

	ratios := make([]MaterialRatio, len(a.parts))
	for i, p := range a.parts {
		var worst, radius float64
		switch p.part {
		case PartAdhesive:
			// Only radial tension pulling the magnet off the core loads the bond
			// line, contact pressure does not
			tension := max(sol.InterfaceStress(layerCore), 0)
			worst = p.criterion.Equivalent(stress.PrincipalStresses(tension, 0, 0))
			radius = a.design.Geometry.CoreOuterRadius
		default:
			for _, pt := range sol.Sample(layerOf(p.part), a.params.SamplesPerLayer) {
				eq := p.criterion.Equivalent(stress.PrincipalStresses(pt.Radial, pt.Tangential, 0))
				if eq > worst {
					worst, radius = eq, pt.Radius
				}
			}
		}
		ratios[i] = MaterialRatio{
			Part:      p.part,
			Material:  p.material.Name,
			Criterion: p.criterion,
			Stress:    worst,
			Allowable: p.allowable,
			Ratio:     worst / p.allowable,
			Radius:    radius,
		}
	}
	return ratios, nil
}

func layerOf(p Part) int {
	switch p {
	case PartShaft:
		return layerShaft
	case PartCore:
		return layerCore
	case PartMagnet:
		return layerMagnet
	default:
		return layerSleeve
	}
}

// Analyze sweeps from standstill to MaxSpeed in fixed steps and stops at the
// first speed where any part reaches a ratio of 1
func (a *SpeedLimitAnalyzer) Analyze() (*SpeedLimitResult, error) {
	steps := int(math.Floor(a.params.MaxSpeed/a.params.Step+1e-9)) + 1

	var ratios []MaterialRatio
	var speed float64
	for i := 0; i < steps; i++ {
		speed = float64(i) * a.params.Step
		var err error
		ratios, err = a.Ratios(speed)
		if err != nil {
			return nil, err
		}
		for _, r := range ratios {
			if r.Ratio >= 1 {
				a.logger.Debug("Rotor speed limit found", logging.Fields{
					"part":  r.Part,
					"speed": speed,
					"ratio": r.Ratio,
				})
				return &SpeedLimitResult{
					Failed:   true,
					Part:     r.Part,
					Material: r.Material,
					Speed:    speed,
					Steps:    i + 1,
					Ratios:   ratios,
				}, nil
			}
		}
	}

	a.logger.Debug("No part failed within the speed range", logging.Fields{
		"max_speed": a.params.MaxSpeed,
		"steps":     steps,
	})
	return &SpeedLimitResult{
		Speed:  speed,
		Steps:  steps,
		Ratios: ratios,
	}, nil
}
