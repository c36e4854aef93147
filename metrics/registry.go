package metrics

import (
	"fmt"
	"time"

	"github.com/swarmlab/accord"
	"github.com/swarmlab/accord/logging"
)

// Collectors fans observations out to the enabled collectors. Disabled
// collectors cost nothing.
type Collectors struct {
	latency    *DecisionLatency
	throughput *Throughput
}

// Enable returns the named collectors bound to the metrics logger. Valid
// metric names are defined as constants in their respective metric files.
func Enable(metricsLogger Logger, logger logging.Logger, node accord.ID, metricNames ...string) (*Collectors, error) {
	if len(metricNames) == 0 {
		return nil, fmt.Errorf("no metric names provided")
	}
	c := &Collectors{}
	enabledMetrics := []string{}
	for _, name := range metricNames {
		switch name {
		case NameDecisionLatency:
			c.latency = NewDecisionLatency(metricsLogger, node)
		case NameThroughput:
			c.throughput = NewThroughput(metricsLogger, node)
		default:
			return nil, fmt.Errorf("invalid metric: %s", name)
		}
		enabledMetrics = append(enabledMetrics, name)
	}
	logger.Infof("Metrics enabled: %v", enabledMetrics)
	return c, nil
}

// ObserveDecision feeds one decision outcome and its duration to the
// enabled collectors.
func (c *Collectors) ObserveDecision(result *accord.Result, latency time.Duration) {
	if c.latency != nil {
		c.latency.Observe(latency)
	}
	if c.throughput != nil {
		c.throughput.Record(result.Decision)
	}
}

// Tick makes every enabled collector log its aggregate and start over.
func (c *Collectors) Tick(now time.Time) {
	if c.latency != nil {
		c.latency.Tick(now)
	}
	if c.throughput != nil {
		c.throughput.Tick(now)
	}
}
