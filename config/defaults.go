package config

// DefaultShaftSteel returns a quenched and tempered alloy steel
func DefaultShaftSteel() Material {
	return Material{
		Name:                "shaft_steel",
		Density:             7850,
		YoungsModulus:       205e9,
		PoissonRatio:        0.29,
		ThermalConductivity: 42.6,
		SpecificHeat:        473,
		YieldStrength:       655e6,
		UltimateStrength:    1020e6,
	}
}

// DefaultElectricalSteel returns a non-oriented silicon steel lamination stack
func DefaultElectricalSteel() Material {
	return Material{
		Name:                "electrical_steel",
		Density:             7650,
		YoungsModulus:       185e9,
		PoissonRatio:        0.3,
		ThermalConductivity: 25,
		SpecificHeat:        490,
		YieldStrength:       360e6,
		UltimateStrength:    480e6,
	}
}

// DefaultNdFeB returns sintered neodymium magnet properties
func DefaultNdFeB() Material {
	return Material{
		Name:                 "ndfeb",
		Density:              7500,
		YoungsModulus:        160e9,
		PoissonRatio:         0.24,
		ThermalConductivity:  7.6,
		SpecificHeat:         440,
		YieldStrength:        80e6,
		UltimateStrength:     80e6,
		Remanence:            1.2,
		RelativePermeability: 1.05,
	}
}

// DefaultCarbonFiberSleeve returns hoop-wound carbon fiber properties
func DefaultCarbonFiberSleeve() Material {
	return Material{
		Name:                "carbon_fiber",
		Density:             1600,
		YoungsModulus:       125e9,
		PoissonRatio:        0.28,
		ThermalConductivity: 0.7,
		SpecificHeat:        1000,
		YieldStrength:       1400e6,
		UltimateStrength:    1400e6,
	}
}

// DefaultEpoxy returns a structural epoxy bond line
func DefaultEpoxy() Material {
	return Material{
		Name:                "epoxy",
		Density:             1150,
		YoungsModulus:       3e9,
		PoissonRatio:        0.35,
		ThermalConductivity: 0.25,
		SpecificHeat:        1100,
		YieldStrength:       20e6,
		UltimateStrength:    20e6,
	}
}

// DefaultAluminumHub returns an aluminum alloy end hub
func DefaultAluminumHub() Material {
	return Material{
		Name:                "aluminum",
		Density:             2700,
		YoungsModulus:       69e9,
		PoissonRatio:        0.33,
		ThermalConductivity: 167,
		SpecificHeat:        896,
		YieldStrength:       276e6,
		UltimateStrength:    310e6,
	}
}

// DefaultAir returns dry air at 25 °C and atmospheric pressure
func DefaultAir() Air {
	return Air{
		Density:             1.184,
		KinematicViscosity:  1.562e-5,
		ThermalConductivity: 0.02551,
		SpecificHeat:        1007,
	}
}

// DefaultRotorGeometry returns a small high speed rotor
func DefaultRotorGeometry() RotorGeometry {
	return RotorGeometry{
		ShaftRadius:              0.008,
		CoreOuterRadius:          0.018,
		MagnetThickness:          0.005,
		SleeveThickness:          0.002,
		AdhesiveThickness:        0.0001,
		Airgap:                   0.001,
		StackLength:              0.05,
		HubOuterRadius:           0.02,
		HubThickness:             0.005,
		ShaftOverhang:            0.03,
		CoreShaftInterference:    10e-6,
		MagnetSleeveInterference: 40e-6,
	}
}

// DefaultRotorDesign returns the reference design every loaded file starts from
func DefaultRotorDesign() RotorDesign {
	return RotorDesign{
		Name:     "default",
		Geometry: DefaultRotorGeometry(),
		Materials: RotorMaterials{
			Shaft:    DefaultShaftSteel(),
			Core:     DefaultElectricalSteel(),
			Magnet:   DefaultNdFeB(),
			Sleeve:   DefaultCarbonFiberSleeve(),
			Adhesive: DefaultEpoxy(),
			Hub:      DefaultAluminumHub(),
		},
		Air: DefaultAir(),
		Operating: Operating{
			SpeedRPM:           30000,
			AmbientTemperature: 25,
		},
	}
}
