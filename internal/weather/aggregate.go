package weather

import (
	"sort"

	"github.com/i474232898/insight-dashboards/internal/common"
)

// summaryPrecision is the number of decimal places averages are rounded to.
const summaryPrecision = 2

const dateLayout = "2006-01-02"

type dayAccumulator struct {
	tempSum       float64
	tempCount     int
	humiditySum   float64
	humidityCount int
	precipSum     float64
}

// AggregateDaily collapses observations into one DailySummary per UTC calendar date.
// Temperature and humidity are averaged, precipitation is summed with a missing
// value counting as zero. The result is ordered by date and is never nil.
func AggregateDaily(observations []Observation) []DailySummary {
	days := make(map[string]*dayAccumulator)

	for _, o := range observations {
		key := o.Timestamp.UTC().Format(dateLayout)

		acc, ok := days[key]
		if !ok {
			acc = &dayAccumulator{}
			days[key] = acc
		}

		acc.tempSum += o.TemperatureC
		acc.tempCount++
		acc.humiditySum += o.HumidityPct
		acc.humidityCount++
		if o.PrecipMM != nil {
			acc.precipSum += *o.PrecipMM
		}
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	summaries := make([]DailySummary, 0, len(keys))
	for _, k := range keys {
		acc := days[k]
		summaries = append(summaries, DailySummary{
			Date:           k,
			AvgTemperature: common.Round(acc.tempSum/float64(acc.tempCount), summaryPrecision),
			AvgHumidity:    common.Round(acc.humiditySum/float64(acc.humidityCount), summaryPrecision),
			TotalPrecipMM:  acc.precipSum,
		})
	}

	return summaries
}
