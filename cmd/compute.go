package cmd

import (
	"go.uber.org/zap"

	"github.com/etnz/heatmap"
	"github.com/etnz/heatmap/date"
)

// newEngine returns the engine configured by the global flags.
func newEngine(log *zap.Logger) *heatmap.Engine {
	return heatmap.NewEngine(heatmap.Config{TopSectors: *topSectors}, log)
}

// compute loads the data and computes the report of a single tag.
func compute(tag heatmap.Tag, on date.Date, log *zap.Logger) (*heatmap.Report, error) {
	series, err := loadSeries(on)
	if err != nil {
		return nil, err
	}
	instruments, err := loadInstruments()
	if err != nil {
		return nil, err
	}
	return newEngine(log).Compute(series, instruments, tag, on)
}
