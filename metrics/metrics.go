// Package metrics condenses the simulation grid into a small set of
// smoothed pattern descriptors for downstream consumers (HUD readouts,
// CSV telemetry, audio mapping).
package metrics

import "log/slog"

// Metrics holds the six exponentially smoothed pattern descriptors,
// plus the integration step they were last refreshed at. The zero
// value is the reset state.
type Metrics struct {
	Step int `csv:"step"`

	// Fraction of sample cells above the activation threshold.
	Coverage float64 `csv:"coverage"`
	// Mean absolute change in V since the previous sample.
	Delta float64 `csv:"delta"`
	// 4-connected above-threshold regions, capped at ClusterCap.
	ClusterCount float64 `csv:"cluster_count"`
	// Left-right Pearson correlation of V.
	Symmetry float64 `csv:"symmetry"`
	// Fraction of cells whose threshold state differs from a neighbor.
	EdgeDensity float64 `csv:"edge_density"`
	// Normalized centroid of |V|.
	CenterX float64 `csv:"center_x"`
	CenterY float64 `csv:"center_y"`
}

// LogValue implements slog.LogValuer for structured logging.
func (m Metrics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("step", m.Step),
		slog.Float64("coverage", m.Coverage),
		slog.Float64("delta", m.Delta),
		slog.Float64("cluster_count", m.ClusterCount),
		slog.Float64("symmetry", m.Symmetry),
		slog.Float64("edge_density", m.EdgeDensity),
		slog.Float64("center_x", m.CenterX),
		slog.Float64("center_y", m.CenterY),
	)
}

// LogStats logs the descriptors using slog.
func (m Metrics) LogStats() {
	slog.Info("metrics",
		"step", m.Step,
		"coverage", m.Coverage,
		"delta", m.Delta,
		"cluster_count", m.ClusterCount,
		"symmetry", m.Symmetry,
		"edge_density", m.EdgeDensity,
		"center_x", m.CenterX,
		"center_y", m.CenterY,
	)
}
