// Package emission maps a logged activity to its estimated CO2 footprint
// using fixed emission factors. Compute is pure and deterministic; the
// factors are estimates for awareness purposes, not audited inventories.
package emission

import "errors"

// ErrInvalidActivityType is returned for an unknown activity type, travel
// mode or diet type. Callers must reject the activity before persisting
// anything.
var ErrInvalidActivityType = errors.New("invalid activity type")

// Transport emission factors in kg CO2 per km.
var transportFactors = map[string]float64{
	"car":   0.21,
	"bus":   0.10,
	"bike":  0.02,
	"train": 0.05,
}

// electricityFactor is kg CO2 per kWh consumed.
const electricityFactor = 0.7

// Diet factors are flat kg CO2 per logged meal, not scaled by quantity.
var dietFactors = map[string]float64{
	"vegetarian":    2.0,
	"nonVegetarian": 4.5,
	"vegan":         1.5,
}

// Params carries the type-specific inputs of one activity. Only the fields
// relevant to the activity type are consulted.
type Params struct {
	Mode     string  `json:"mode"`
	Distance float64 `json:"distance"`
	Usage    float64 `json:"usage"`
	DietType string  `json:"dietType"`
}

// Compute returns the footprint in kg CO2 for one activity. The result
// keeps full floating precision; rounding happens only at display time.
func Compute(activityType string, p Params) (float64, error) {
	switch activityType {
	case "transport":
		factor, ok := transportFactors[p.Mode]
		if !ok {
			return 0, ErrInvalidActivityType
		}
		return p.Distance * factor, nil
	case "electricity":
		return p.Usage * electricityFactor, nil
	case "diet":
		factor, ok := dietFactors[p.DietType]
		if !ok {
			return 0, ErrInvalidActivityType
		}
		return factor, nil
	default:
		return 0, ErrInvalidActivityType
	}
}

// Suggestion returns the reduction hint shown alongside a freshly logged
// activity. Unknown types yield an empty string; Compute has already
// rejected them by then.
func Suggestion(activityType string) string {
	switch activityType {
	case "transport":
		return "Try walking, cycling, or using public transport more often."
	case "electricity":
		return "Reduce electricity usage and switch to renewable sources."
	case "diet":
		return "Consider eating more plant-based meals."
	}
	return ""
}
