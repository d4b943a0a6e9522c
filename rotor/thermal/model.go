// Package thermal assembles the lumped thermal network of a surface magnet
// rotor and solves it for steady state temperatures.
package thermal

import (
	"errors"
	"fmt"
	"math"

	"github.com/RyanBlaney/emdesign/algorithms/network"
	"github.com/RyanBlaney/emdesign/config"
	"github.com/RyanBlaney/emdesign/logging"
)

// Slices is the number of axial slices the active length is split into
const Slices = 3

const ambientNode = "ambient"

// Radial node positions within one axial slice, inside out
var sliceParts = []string{
	"shaft", "core_inner", "core_outer", "magnet_inner", "magnet_outer",
	"sleeve_inner", "sleeve_outer", "air",
}

// ErrInvalidLosses is returned for negative or non-finite loss inputs
var ErrInvalidLosses = errors.New("thermal: invalid losses")

// Losses are the heat sources over the whole active length, W
type Losses struct {
	Core   float64 `json:"core" yaml:"core" toml:"core"`
	Magnet float64 `json:"magnet" yaml:"magnet" toml:"magnet"`
	Sleeve float64 `json:"sleeve" yaml:"sleeve" toml:"sleeve"`
}

func (l Losses) validate() error {
	for _, q := range []float64{l.Core, l.Magnet, l.Sleeve} {
		if !(q >= 0) || math.IsInf(q, 0) {
			return fmt.Errorf("%w: %+v", ErrInvalidLosses, l)
		}
	}
	return nil
}

// ThermalParams holds the modeling constants that are not part of the design
type ThermalParams struct {
	// ContactConductance of the magnet to sleeve press fit, W/(m²·K)
	ContactConductance float64 `json:"contact_conductance" yaml:"contact_conductance" toml:"contact_conductance"`
}

// DefaultThermalParams returns a typical press fit conductance
func DefaultThermalParams() ThermalParams {
	return ThermalParams{
		ContactConductance: 3000,
	}
}

// NodeName returns the name of a radial node in axial slice s
func NodeName(part string, s int) string {
	return fmt.Sprintf("%s_%d", part, s)
}

// HubNodeName returns the name of radial node i of hub end (0 or 1)
func HubNodeName(end, i int) string {
	return fmt.Sprintf("hub%d_%d", end, i)
}

// ShaftEndNodeName returns the name of the exposed shaft node at end (0 or 1)
func ShaftEndNodeName(end int) string {
	return fmt.Sprintf("shaft_end_%d", end)
}

// Model is the rotor thermal network at one design and operating point. The
// only free input left is the axial cooling air speed.
type Model struct {
	design config.RotorDesign
	losses Losses
	params ThermalParams
	fluid  network.Fluid

	logger logging.Logger
}

// NewModel validates the inputs and creates a model
func NewModel(design config.RotorDesign, losses Losses, params ThermalParams) (*Model, error) {
	if err := design.Validate(); err != nil {
		return nil, err
	}
	if err := losses.validate(); err != nil {
		return nil, err
	}
	if !(params.ContactConductance > 0) {
		return nil, fmt.Errorf("thermal: contact conductance must be positive, got %v", params.ContactConductance)
	}
	return &Model{
		design: design,
		losses: losses,
		params: params,
		fluid:  design.Air.Fluid(),
		logger: logging.WithFields(logging.Fields{
			"component": "rotor_thermal",
			"design":    design.Name,
		}),
	}, nil
}

// Design returns the rotor design the model was built from
func (m *Model) Design() config.RotorDesign {
	return m.design
}

// AirgapMassFlow returns the mass flow of cooling air through the airgap at
// axial speed v, kg/s
func (m *Model) AirgapMassFlow(v float64) float64 {
	g := m.design.Geometry
	return m.fluid.Density * math.Abs(v) * network.AnnulusArea(g.SleeveOuterRadius(), g.StatorBoreRadius())
}

// Result is the steady state of the network
type Result struct {
	AirflowSpeed float64            `json:"airflow_speed"` // m/s
	Temperatures map[string]float64 `json:"temperatures"`  // °C keyed by node name
	Names        []string           `json:"names"`         // Node names in index order

	MaxShaft  float64 `json:"max_shaft"`
	MaxCore   float64 `json:"max_core"`
	MaxMagnet float64 `json:"max_magnet"`
	MaxSleeve float64 `json:"max_sleeve"`
	MaxHub    float64 `json:"max_hub"`
}

// Build assembles the network at axial air speed v (m/s)
func (m *Model) Build(v float64) *network.Builder {
	g := m.design.Geometry
	mats := m.design.Materials
	omega := m.design.Operating.AngularSpeed()

	rs := g.ShaftRadius
	rc := g.CoreOuterRadius
	rm := g.MagnetOuterRadius()
	rsl := g.SleeveOuterRadius()
	dz := g.StackLength / Slices

	hGap := network.AirgapHeatTransfer(network.AirgapFlow{
		RotorRadius:  rsl,
		Gap:          g.Airgap,
		AngularSpeed: omega,
		AxialSpeed:   v,
	}, m.fluid)
	mdot := m.AirgapMassFlow(v) / Slices

	b := network.NewBuilder()
	b.Node(ambientNode)
	for s := 0; s < Slices; s++ {
		for _, part := range sliceParts {
			b.Node(NodeName(part, s))
		}
	}

	for s := 0; s < Slices; s++ {
		node := func(part string) string { return NodeName(part, s) }

		// Shaft lumped at half radius
		b.Connect(node("shaft"), node("core_inner"),
			network.CylindricalWall(rs/2, rs, dz, mats.Shaft.ThermalConductivity), network.KindCylindricalWall)
		b.Connect(node("core_inner"), node("core_outer"),
			network.CylindricalWall(rs, rc, dz, mats.Core.ThermalConductivity), network.KindCylindricalWall)
		b.Connect(node("core_outer"), node("magnet_inner"),
			network.PlaneWall(g.AdhesiveThickness, mats.Adhesive.ThermalConductivity, network.CylinderArea(rc, dz)),
			network.KindPlaneWall)
		b.Connect(node("magnet_inner"), node("magnet_outer"),
			network.CylindricalWall(rc, rm, dz, mats.Magnet.ThermalConductivity), network.KindCylindricalWall)
		b.Connect(node("magnet_outer"), node("sleeve_inner"),
			network.Convection(m.params.ContactConductance, network.CylinderArea(rm, dz)), network.KindContact)
		b.Connect(node("sleeve_inner"), node("sleeve_outer"),
			network.CylindricalWall(rm, rsl, dz, mats.Sleeve.ThermalConductivity), network.KindCylindricalWall)
		b.Connect(node("sleeve_outer"), node("air"),
			network.Convection(hGap, network.CylinderArea(rsl, dz)), network.KindConvection)
		// Air picked up in the slice leaves with the flow
		b.Connect(node("air"), ambientNode, network.Advection(mdot, m.fluid.SpecificHeat), network.KindAdvection)

		b.AddSource(node("core_inner"), m.losses.Core/Slices/2)
		b.AddSource(node("core_outer"), m.losses.Core/Slices/2)
		b.AddSource(node("magnet_inner"), m.losses.Magnet/Slices/2)
		b.AddSource(node("magnet_outer"), m.losses.Magnet/Slices/2)
		b.AddSource(node("sleeve_outer"), m.losses.Sleeve/Slices)

		if s == 0 {
			continue
		}
		prev := func(part string) string { return NodeName(part, s-1) }
		b.Connect(prev("shaft"), node("shaft"),
			network.PlaneWall(dz, mats.Shaft.ThermalConductivity, math.Pi*rs*rs), network.KindPlaneWall)
		b.Connect(prev("core_outer"), node("core_outer"),
			network.PlaneWall(dz, mats.Core.ThermalConductivity, network.AnnulusArea(rs, rc)), network.KindPlaneWall)
		b.Connect(prev("magnet_outer"), node("magnet_outer"),
			network.PlaneWall(dz, mats.Magnet.ThermalConductivity, network.AnnulusArea(rc, rm)), network.KindPlaneWall)
		b.Connect(prev("sleeve_outer"), node("sleeve_outer"),
			network.PlaneWall(dz, mats.Sleeve.ThermalConductivity, network.AnnulusArea(rm, rsl)), network.KindPlaneWall)
	}

	for end := 0; end < 2; end++ {
		m.buildEnd(b, end, omega, dz)
	}

	b.Fix(ambientNode, m.design.Operating.AmbientTemperature)
	return b
}

// buildEnd adds the hub clamping the core at one end and the shaft beyond it
func (m *Model) buildEnd(b *network.Builder, end int, omega, dz float64) {
	g := m.design.Geometry
	mats := m.design.Materials
	rs := g.ShaftRadius
	rh := g.HubOuterRadius
	th := g.HubThickness

	slice := 0
	if end == 1 {
		slice = Slices - 1
	}
	shaft := NodeName("shaft", slice)

	// Hub nodes at the bore, the mid radius and the rim
	radii := [3]float64{rs, (rs + rh) / 2, rh}
	// Face bands owned by each node
	bands := [4]float64{rs, (radii[0] + radii[1]) / 2, (radii[1] + radii[2]) / 2, rh}

	hDisk := network.RotatingDiskHeatTransfer(rh, omega, m.fluid)
	for i := range radii {
		hub := HubNodeName(end, i)
		area := network.AnnulusArea(bands[i], bands[i+1])
		if i == len(radii)-1 {
			area += network.CylinderArea(rh, th)
		}
		b.Connect(hub, ambientNode, network.Convection(hDisk, area), network.KindConvection)
		if i > 0 {
			b.Connect(HubNodeName(end, i-1), hub,
				network.CylindricalWall(radii[i-1], radii[i], th, mats.Hub.ThermalConductivity), network.KindCylindricalWall)
		}
	}

	// Shaft under the hub carries heat into the bore
	b.Connect(shaft, HubNodeName(end, 0),
		network.CylindricalWall(rs/2, rs, th, mats.Shaft.ThermalConductivity), network.KindCylindricalWall)
	// Hub face pressed against the core end
	b.Connect(NodeName("core_outer", slice), HubNodeName(end, 1),
		network.PlaneWall(dz/2, mats.Core.ThermalConductivity, network.AnnulusArea(rs, g.CoreOuterRadius)),
		network.KindPlaneWall)

	tip := ShaftEndNodeName(end)
	b.Connect(shaft, tip,
		network.PlaneWall(dz/2+th+g.ShaftOverhang/2, mats.Shaft.ThermalConductivity, math.Pi*rs*rs),
		network.KindPlaneWall)
	hShaft := network.RotatingShaftHeatTransfer(rs, omega, m.fluid)
	b.Connect(tip, ambientNode,
		network.Convection(hShaft, network.CylinderArea(rs, g.ShaftOverhang)+math.Pi*rs*rs), network.KindConvection)
}

// Solve returns the steady state at axial air speed v (m/s)
func (m *Model) Solve(v float64) (*Result, error) {
	if !(v >= 0) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("thermal: airflow speed must be finite and non-negative, got %v", v)
	}
	b := m.Build(v)
	temps, err := b.Solve()
	if err != nil {
		return nil, fmt.Errorf("thermal: solve rotor network: %w", err)
	}

	res := &Result{
		AirflowSpeed: v,
		Temperatures: temps,
		Names:        b.Names(),
		MaxShaft:     math.Inf(-1),
		MaxCore:      math.Inf(-1),
		MaxMagnet:    math.Inf(-1),
		MaxSleeve:    math.Inf(-1),
		MaxHub:       math.Inf(-1),
	}
	for s := 0; s < Slices; s++ {
		res.MaxShaft = max(res.MaxShaft, temps[NodeName("shaft", s)])
		res.MaxCore = max(res.MaxCore, temps[NodeName("core_inner", s)], temps[NodeName("core_outer", s)])
		res.MaxMagnet = max(res.MaxMagnet, temps[NodeName("magnet_inner", s)], temps[NodeName("magnet_outer", s)])
		res.MaxSleeve = max(res.MaxSleeve, temps[NodeName("sleeve_inner", s)], temps[NodeName("sleeve_outer", s)])
	}
	for end := 0; end < 2; end++ {
		res.MaxShaft = max(res.MaxShaft, temps[ShaftEndNodeName(end)])
		for i := 0; i < 3; i++ {
			res.MaxHub = max(res.MaxHub, temps[HubNodeName(end, i)])
		}
	}

	m.logger.Debug("Rotor thermal network solved", logging.Fields{
		"airflow_speed": v,
		"nodes":         len(res.Names),
		"max_magnet":    res.MaxMagnet,
	})
	return res, nil
}
