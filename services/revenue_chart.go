package services

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/models"
	"github.com/SolomonKhan1122/freshplus-web-haven-sub002/utils"
)

var ErrNoChartData = errors.New("no revenue recorded for the period")

type RevenuePoint struct {
	Month   string  `json:"month"` // YYYY-MM
	Revenue float64 `json:"revenue"`
	Jobs    int     `json:"jobs"`
}

// MonthlyRevenue buckets completed bookings by service month for the last
// `months` calendar months up to and including now. Empty months are kept.
func MonthlyRevenue(bookings []models.InstantBooking, now time.Time, months int) []RevenuePoint {
	if months < 1 {
		months = 1
	}
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)

	points := make([]RevenuePoint, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		points[i].Month = key
		index[key] = i
	}

	for _, b := range bookings {
		if b.Status != models.StatusCompleted {
			continue
		}
		i, ok := index[b.ServiceDate.In(now.Location()).Format("2006-01")]
		if !ok {
			continue
		}
		points[i].Revenue = utils.RoundMoney(points[i].Revenue + b.TotalPrice)
		points[i].Jobs++
	}
	return points
}

// RenderRevenueChart draws the points as a PNG bar chart.
func RenderRevenueChart(w io.Writer, points []RevenuePoint, currency string) error {
	var max float64
	bars := make([]chart.Value, 0, len(points))
	for _, p := range points {
		label := p.Month
		if t, err := time.Parse("2006-01", p.Month); err == nil {
			label = t.Format("Jan 06")
		}
		bars = append(bars, chart.Value{Label: label, Value: p.Revenue})
		if p.Revenue > max {
			max = p.Revenue
		}
	}
	if max <= 0 {
		return ErrNoChartData
	}

	graph := chart.BarChart{
		Title:  fmt.Sprintf("Completed revenue (%s)", currency),
		Width:  960,
		Height: 420,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		BarWidth: 48,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: max * 1.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return utils.FormatCurrency(f, currency)
				}
				return ""
			},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render revenue chart: %w", err)
	}
	return nil
}
