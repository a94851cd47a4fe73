package profile

import (
	"math"

	"resframe/domain/frame"
	"resframe/domain/timeseries"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// SeriesProfile summarizes one result series.
type SeriesProfile struct {
	ID       timeseries.TimeSeriesID `json:"id"`
	Count    int                     `json:"count"`
	NaNCount int                     `json:"nan_count"`
	Mean     float64                 `json:"mean"`
	StdDev   float64                 `json:"std_dev"`
	Min      float64                 `json:"min"`
	Max      float64                 `json:"max"`
	Median   float64                 `json:"median"`
	Q25      float64                 `json:"q25"`
	Q75      float64                 `json:"q75"`
}

// Frame profiles every series in the frame. NaN samples are counted and
// excluded from the statistics; an all-NaN series profiles to NaN stats.
func Frame(f *frame.Frame) ([]SeriesProfile, error) {
	ids, err := timeseries.FromColumnIndex(f.Index())
	if err != nil {
		return nil, err
	}
	out := make([]SeriesProfile, len(ids))
	for i, id := range ids {
		out[i] = Series(id, f.Column(i))
	}
	return out, nil
}

// Series profiles one series.
func Series(id timeseries.TimeSeriesID, values []float64) SeriesProfile {
	p := SeriesProfile{ID: id, Count: len(values)}

	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) {
			p.NaNCount++
			continue
		}
		clean = append(clean, v)
	}
	if len(clean) == 0 {
		nan := math.NaN()
		p.Mean, p.StdDev, p.Min, p.Max, p.Median, p.Q25, p.Q75 = nan, nan, nan, nan, nan, nan, nan
		return p
	}

	p.Mean = stat.Mean(clean, nil)
	p.StdDev = stat.StdDev(clean, nil)
	p.Min, _ = stats.Min(clean)
	p.Max, _ = stats.Max(clean)
	p.Median, _ = stats.Median(clean)
	p.Q25, _ = stats.Percentile(clean, 25)
	p.Q75, _ = stats.Percentile(clean, 75)
	return p
}
