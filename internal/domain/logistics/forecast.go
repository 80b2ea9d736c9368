package logistics

import "math"

// LinearForecaster extrapolates a request's declared Rate over the travel
// time. Predictions never exceed what is physically there now and never
// cross zero; a target that expires before arrival forecasts zero.
type LinearForecaster struct{}

func (LinearForecaster) Forecast(r *Request, eta float64) int {
	if r.IsVoid() {
		return 0
	}
	if eta < 0 {
		eta = 0
	}
	if r.ExpiresIn() > 0 && eta > float64(r.ExpiresIn()) {
		return 0
	}

	current := float64(r.Amount())
	predicted := current + r.Rate()*eta
	if math.Signbit(predicted) != math.Signbit(current) || predicted == 0 {
		return 0
	}
	if math.Abs(predicted) > math.Abs(current) {
		predicted = current
	}
	return int(predicted)
}
