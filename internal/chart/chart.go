// Package chart builds declarative figure descriptions from record sequences.
// Builders are pure: they never mutate their inputs and never fail; when
// there is nothing to plot they return a placeholder figure instead.
package chart

import "strconv"

// MaxPoints caps the number of points per series. Longer inputs are decimated
// by uniform stride before charting; the stored data is untouched.
const MaxPoints = 1000

// Series is one plotted line.
type Series struct {
	Name string    `json:"name"`
	X    []string  `json:"x"`
	Y    []float64 `json:"y"`
}

// Figure is the declarative chart description handed to the rendering side.
type Figure struct {
	Title      string   `json:"title"`
	XTitle     string   `json:"xTitle"`
	YTitle     string   `json:"yTitle"`
	Series     []Series `json:"series"`
	Annotation string   `json:"annotation,omitempty"`
	NoData     bool     `json:"noData"`
}

// RawColumn is an unparsed dataset column: name plus string cells.
type RawColumn struct {
	Name   string
	Values []string
}

// Placeholder returns the fixed no-data figure.
func Placeholder(title, xTitle, yTitle, note string) Figure {
	return Figure{
		Title:      title,
		XTitle:     xTitle,
		YTitle:     yTitle,
		Annotation: note,
		NoData:     true,
	}
}

// Stride returns the decimation step for n points: 1 when n fits under the
// cap, otherwise n/MaxPoints (floor, minimum 1).
func Stride(n int) int {
	if n <= MaxPoints {
		return 1
	}
	step := n / MaxPoints
	if step < 1 {
		step = 1
	}
	return step
}

// TimeSeries builds a figure from raw dataset columns. Cells that do not
// parse as numbers are skipped for that series. Empty input or no surviving
// selection yields a placeholder, never an error.
func TimeSeries(title, xTitle, yTitle string, xs []string, cols []RawColumn, selected []string) Figure {
	if len(xs) == 0 || len(selected) == 0 {
		return Placeholder(title, xTitle, yTitle, "No data to display.")
	}

	byName := make(map[string][]string, len(cols))
	for _, c := range cols {
		byName[c.Name] = c.Values
	}

	step := Stride(len(xs))
	var series []Series
	for _, name := range selected {
		values, ok := byName[name]
		if !ok {
			continue
		}
		s := Series{Name: name}
		for i := 0; i < len(xs) && i < len(values); i += step {
			y, err := strconv.ParseFloat(values[i], 64)
			if err != nil {
				continue
			}
			s.X = append(s.X, xs[i])
			s.Y = append(s.Y, y)
		}
		series = append(series, s)
	}

	if len(series) == 0 {
		return Placeholder(title, xTitle, yTitle, "Selected columns not found in data.")
	}

	return Figure{Title: title, XTitle: xTitle, YTitle: yTitle, Series: series}
}

// MetricSeries builds a figure from already-numeric metric columns, one
// series per selected metric present in the map.
func MetricSeries(title, xTitle, yTitle string, xs []string, metrics map[string][]float64, selected []string) Figure {
	if len(xs) == 0 || len(selected) == 0 {
		return Placeholder(title, xTitle, yTitle, "No data to display. Please fetch weather data.")
	}

	step := Stride(len(xs))
	var series []Series
	for _, name := range selected {
		values, ok := metrics[name]
		if !ok {
			continue
		}
		s := Series{Name: name}
		for i := 0; i < len(xs) && i < len(values); i += step {
			s.X = append(s.X, xs[i])
			s.Y = append(s.Y, values[i])
		}
		series = append(series, s)
	}

	if len(series) == 0 {
		return Placeholder(title, xTitle, yTitle, "Selected metrics not found in data.")
	}

	return Figure{Title: title, XTitle: xTitle, YTitle: yTitle, Series: series}
}
