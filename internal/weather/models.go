package weather

// Record is one day of historical weather as reported by the provider's
// timeline endpoint ("days" entries, metric units).
type Record struct {
	Date      string  `json:"datetime"`
	TempC     float64 `json:"temp"`
	Humidity  float64 `json:"humidity"`
	WindSpeed float64 `json:"windspeed"`
	Pressure  float64 `json:"pressure"`
	PrecipMM  float64 `json:"precip"`
}

// Metric returns a record value by the checklist key used in the UI.
func (r Record) Metric(key string) (float64, bool) {
	switch key {
	case "temp":
		return r.TempC, true
	case "humidity":
		return r.Humidity, true
	case "windspeed":
		return r.WindSpeed, true
	case "pressure":
		return r.Pressure, true
	case "precip":
		return r.PrecipMM, true
	}
	return 0, false
}

// MetricLabel maps a checklist key to its display label.
func MetricLabel(key string) string {
	switch key {
	case "temp":
		return "Temperature (°C)"
	case "humidity":
		return "Humidity (%)"
	case "windspeed":
		return "Wind Speed (m/s)"
	case "pressure":
		return "Pressure (hPa)"
	case "precip":
		return "Precipitation (mm)"
	}
	return key
}
