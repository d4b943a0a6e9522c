package thermal

import (
	"fmt"

	"github.com/RyanBlaney/emdesign/logging"
)

// AirflowParams bounds the search for the cooling air speed
type AirflowParams struct {
	MagnetTemperatureLimit float64 `json:"magnet_temperature_limit" yaml:"magnet_temperature_limit" toml:"magnet_temperature_limit"` // °C
	MinSpeed               float64 `json:"min_speed" yaml:"min_speed" toml:"min_speed"`                                              // m/s
	MaxSpeed               float64 `json:"max_speed" yaml:"max_speed" toml:"max_speed"`                                              // m/s
	Tolerance              float64 `json:"tolerance" yaml:"tolerance" toml:"tolerance"`                                              // m/s
	MaxIterations          int     `json:"max_iterations" yaml:"max_iterations" toml:"max_iterations"`
}

// DefaultAirflowParams returns limits for a sintered NdFeB rotor
func DefaultAirflowParams() AirflowParams {
	return AirflowParams{
		MagnetTemperatureLimit: 120,
		MinSpeed:               0,
		MaxSpeed:               100,
		Tolerance:              1e-3,
		MaxIterations:          100,
	}
}

// AirflowResult is the outcome of the airflow search. Valid is false when even
// MaxSpeed leaves the magnets above the limit; the remaining fields then
// describe the MaxSpeed operating point.
type AirflowResult struct {
	Valid             bool    `json:"valid"`
	AirflowSpeed      float64 `json:"airflow_speed"`      // m/s
	MassFlow          float64 `json:"mass_flow"`          // kg/s
	MagnetTemperature float64 `json:"magnet_temperature"` // °C
	Iterations        int     `json:"iterations"`
	Thermal           *Result `json:"thermal"`
}

// AirflowAnalyzer finds the smallest axial air speed that keeps the magnets at
// or below their temperature limit
type AirflowAnalyzer struct {
	model  *Model
	params AirflowParams
	logger logging.Logger
}

// NewAirflowAnalyzer creates an analyzer over model
func NewAirflowAnalyzer(model *Model, params AirflowParams) (*AirflowAnalyzer, error) {
	if model == nil {
		return nil, fmt.Errorf("thermal: nil model")
	}
	if !(params.MinSpeed >= 0) || !(params.MaxSpeed > params.MinSpeed) {
		return nil, fmt.Errorf("thermal: airflow range [%v, %v] is invalid", params.MinSpeed, params.MaxSpeed)
	}
	if !(params.Tolerance > 0) || params.MaxIterations <= 0 {
		return nil, fmt.Errorf("thermal: tolerance %v and iterations %d must be positive",
			params.Tolerance, params.MaxIterations)
	}
	return &AirflowAnalyzer{
		model:  model,
		params: params,
		logger: model.logger.WithFields(logging.Fields{
			"analyzer": "airflow",
		}),
	}, nil
}

func (a *AirflowAnalyzer) result(res *Result, valid bool, iterations int) *AirflowResult {
	return &AirflowResult{
		Valid:             valid,
		AirflowSpeed:      res.AirflowSpeed,
		MassFlow:          a.model.AirgapMassFlow(res.AirflowSpeed),
		MagnetTemperature: res.MaxMagnet,
		Iterations:        iterations,
		Thermal:           res,
	}
}

// Analyze bisects the airflow range. The magnet temperature falls monotonically
// with air speed, so the feasible set is an interval ending at MaxSpeed.
func (a *AirflowAnalyzer) Analyze() (*AirflowResult, error) {
	limit := a.params.MagnetTemperatureLimit

	low, err := a.model.Solve(a.params.MinSpeed)
	if err != nil {
		return nil, err
	}
	if low.MaxMagnet <= limit {
		return a.result(low, true, 0), nil
	}

	high, err := a.model.Solve(a.params.MaxSpeed)
	if err != nil {
		return nil, err
	}
	if high.MaxMagnet > limit {
		a.logger.Warn("No airflow within range keeps the magnets below the limit", logging.Fields{
			"max_speed":          a.params.MaxSpeed,
			"magnet_temperature": high.MaxMagnet,
			"limit":              limit,
		})
		return a.result(high, false, 0), nil
	}

	lo, hi := a.params.MinSpeed, a.params.MaxSpeed
	iterations := 0
	for hi-lo > a.params.Tolerance && iterations < a.params.MaxIterations {
		iterations++
		mid := (lo + hi) / 2
		res, err := a.model.Solve(mid)
		if err != nil {
			return nil, err
		}
		if res.MaxMagnet <= limit {
			hi, high = mid, res
		} else {
			lo = mid
		}
	}

	a.logger.Debug("Airflow search converged", logging.Fields{
		"airflow_speed":      high.AirflowSpeed,
		"magnet_temperature": high.MaxMagnet,
		"iterations":         iterations,
	})
	return a.result(high, true, iterations), nil
}
