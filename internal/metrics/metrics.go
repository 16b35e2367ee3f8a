package metrics

import "time"

// SourceID identifies one metric source variant.
type SourceID string

const (
	SourceCPU     SourceID = "cpu"
	SourceMemory  SourceID = "memory"
	SourceDisk    SourceID = "disk"
	SourceNetwork SourceID = "network"
	SourceGPU     SourceID = "gpu"
	SourceBattery SourceID = "battery"
)

// AllSources lists every known source in display order.
func AllSources() []SourceID {
	return []SourceID{SourceCPU, SourceMemory, SourceDisk, SourceNetwork, SourceGPU, SourceBattery}
}

// ParseSourceID maps a user-supplied name to a SourceID.
func ParseSourceID(s string) (SourceID, bool) {
	switch s {
	case "cpu":
		return SourceCPU, true
	case "memory", "mem", "ram":
		return SourceMemory, true
	case "disk":
		return SourceDisk, true
	case "network", "net":
		return SourceNetwork, true
	case "gpu":
		return SourceGPU, true
	case "battery", "batt":
		return SourceBattery, true
	}
	return "", false
}

// Kind distinguishes instantaneous readings from cumulative counters.
type Kind int

const (
	// Gauge readings are already an absolute value (a percent).
	Gauge Kind = iota
	// Counter readings are monotonic cumulative byte totals that need
	// differencing to become a rate.
	Counter
)

// Reading is one raw poll result. Created and consumed within a single
// sampling tick, never retained.
type Reading struct {
	Source SourceID
	At     time.Time
	Kind   Kind

	// Value carries gauge readings (percent).
	Value float64

	// InBytes/OutBytes carry counter readings: read/rx in, write/tx out.
	InBytes  uint64
	OutBytes uint64

	// Label is an optional human hint (NIC name, GPU model, charge state).
	Label string
}

// Field is a snapshot value that may be absent when its source failed
// or is disabled.
type Field struct {
	Value   float64
	Present bool
}

// FieldOf wraps v as a present field.
func FieldOf(v float64) Field { return Field{Value: v, Present: true} }

// ClampPercent forces v into [0,100].
func ClampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Snapshot is the immutable per-tick aggregate handed to renderers.
// Percent fields are in [0,100] when present; rate fields are bytes/sec
// and never negative.
type Snapshot struct {
	Timestamp time.Time

	CPUPercent     Field
	MemoryPercent  Field
	DiskReadRate   Field
	DiskWriteRate  Field
	NetRxRate      Field
	NetTxRate      Field
	GPUPercent     Field
	BatteryPercent Field

	NetInterface string
	GPUName      string
	BatteryState string
}

// Zero returns an empty snapshot for initialization, before the first
// tick has published.
func Zero() Snapshot { return Snapshot{Timestamp: time.Now()} }
