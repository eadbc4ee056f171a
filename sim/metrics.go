// sim/metrics.go
package sim

import "fmt"

// Metrics aggregates simulation-wide counters for final reporting.
type Metrics struct {
	Delivered int // messages successfully handed to a destination element
	Dropped   int // messages whose destination was not a registered element
}

// NewMetrics returns a zeroed Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print(ticks int64) {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Ticks run      : %d\n", ticks)
	fmt.Printf("Delivered      : %d\n", m.Delivered)
	fmt.Printf("Dropped        : %d\n", m.Dropped)
}
