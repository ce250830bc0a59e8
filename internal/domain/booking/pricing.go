package booking

import "math"

const (
	// OptimalTempCelsius is the forecast temperature at which no weather
	// adjustment applies.
	OptimalTempCelsius = 21.0

	// perDegreeRate is charged per degree of deviation from the optimum.
	perDegreeRate = 0.5

	// fallbackSurchargeRate applies when no forecast could be obtained.
	fallbackSurchargeRate = 0.10
)

// WeatherSample is a forecast for the room's location on the booking date.
type WeatherSample struct {
	Temperature float64
	Condition   string
}

// PriceQuote is the itemized pricing snapshot fixed at booking creation.
// FinalPrice == BasePrice + WeatherAdjustment always holds after rounding.
type PriceQuote struct {
	BasePrice         float64
	WeatherAdjustment float64
	FinalPrice        float64
	ForecastedTemp    *float64
	Condition         *string
	UsedFallback      bool
}

// Quote computes the price for a booking from the room's base price and an
// optional weather sample. Pure: no I/O, deterministic.
//
// The adjustment is rounded to 2 decimal places before it is added to the
// base, so the reported breakdown always sums exactly to the final price.
func Quote(basePrice float64, sample *WeatherSample) PriceQuote {
	if sample == nil {
		adjustment := round2(basePrice * fallbackSurchargeRate)
		return PriceQuote{
			BasePrice:         basePrice,
			WeatherAdjustment: adjustment,
			FinalPrice:        round2(basePrice + adjustment),
			UsedFallback:      true,
		}
	}

	adjustment := round2(math.Abs(sample.Temperature-OptimalTempCelsius) * perDegreeRate)
	temp := sample.Temperature
	condition := sample.Condition
	return PriceQuote{
		BasePrice:         basePrice,
		WeatherAdjustment: adjustment,
		FinalPrice:        round2(basePrice + adjustment),
		ForecastedTemp:    &temp,
		Condition:         &condition,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
