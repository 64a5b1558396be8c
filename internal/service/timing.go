package service

import (
	"context"

	servertiming "github.com/mitchellh/go-server-timing"
)

type timingMetric struct {
	metric *servertiming.Metric
}

func (m *timingMetric) Stop() {
	if m != nil && m.metric != nil {
		m.metric.Stop()
	}
}

// startTiming records a Server-Timing metric when the request carries a
// timing header, and is a no-op otherwise.
func startTiming(ctx context.Context, name, desc string) *timingMetric {
	timing := servertiming.FromContext(ctx)
	if timing == nil {
		return &timingMetric{}
	}
	return &timingMetric{metric: timing.NewMetric(name).WithDesc(desc).Start()}
}
