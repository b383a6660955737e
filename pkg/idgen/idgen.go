package idgen

import (
	"sync"
	"time"

	"github.com/sony/sonyflake"
)

// Generator is an incrementing, globally-unique ID generator backed by the
// Sonyflake algorithm. viommu uses it to stamp trace IDs on fault records
// so operators can correlate a device log line with the fault event it
// produced.
type Generator struct {
	sf *sonyflake.Sonyflake
}

var (
	defaultGenerator     *Generator
	defaultGeneratorOnce sync.Once
)

func initDefaultGenerator() {
	defaultGenerator = New()
}

// DefaultGenerator returns the process-wide default generator.
func DefaultGenerator() *Generator {
	defaultGeneratorOnce.Do(initDefaultGenerator)
	return defaultGenerator
}

// New creates a Generator. If Sonyflake's default machine-ID resolution
// fails (no usable private network address, e.g. in a sandboxed
// container), it falls back to machine ID 0 and a start time of now
// rather than refusing to start.
func New() *Generator {
	sf := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if sf == nil {
		sf = sonyflake.NewSonyflake(sonyflake.Settings{
			StartTime: time.Now(),
			MachineID: func() (uint16, error) { return 0, nil },
		})
	}

	return &Generator{sf: sf}
}

// GenerateID returns the next ID. IDs increase monotonically (mod
// Sonyflake's 39-bit time field) but are not assigned contiguously.
func (g *Generator) GenerateID() (uint64, error) {
	return g.sf.NextID()
}

// GenerateID generates an ID using the default generator.
func GenerateID() (uint64, error) {
	return DefaultGenerator().GenerateID()
}
