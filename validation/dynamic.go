package validation

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Counter a hidden input holding how many extra copies of a dynamic unit
// (field or group) were submitted. A count of N means positions 0 to N are filled.
type Counter struct {
	name     string
	explicit bool
	value    int
	declared int
}

// Name returns the input name of the counter for the given suffix.
// Counters created by `SetDynamic` are named after their owner followed by the suffix.
func (c *Counter) Name(suffix string) string {
	if c.explicit {
		return c.name
	}
	return c.name + suffix
}

// Explicit returns true if the counter was attached with `AddCounter` under a full name.
func (c *Counter) Explicit() bool {
	return c.explicit
}

// Value returns the last value read or equalized.
func (c *Counter) Value() int {
	return c.value
}

// SetDefault sets the value used when the submission doesn't contain a valid count.
func (c *Counter) SetDefault(value int) {
	c.value = value
	c.declared = value
}

// read returns the submitted count. Values that are not integers, negative
// or greater than limit are ignored and the current value is returned instead.
func (c *Counter) read(source ValueSource, suffix string, limit int) int {
	raw := strings.TrimSpace(source.Get(c.Name(suffix)))
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > limit {
		return c.value
	}
	return n
}

func (c *Counter) reset() {
	c.value = c.declared
}

// DynamicState the client-side description of a dynamic unit: the current count
// and the names of the counters to update when a copy is added.
type DynamicState struct {
	Counters []string `json:"counters"`
	Count    int      `json:"count"`
}

type dynamic struct {
	counters []*Counter
	flagged  bool
}

func (d *dynamic) Counters() []*Counter {
	return d.counters
}

// equalize reads every counter, takes the maximum and, if it is greater
// than zero, writes it back into all of them. The result never exceeds limit.
func equalize(counters []*Counter, source ValueSource, suffix string, limit int) int {
	count := min(lo.Max(lo.Map(counters, func(c *Counter, _ int) int {
		return c.read(source, suffix, limit)
	})), limit)
	if count > 0 {
		for _, c := range counters {
			c.value = count
		}
	}
	return count
}

func counterNames(counters []*Counter, suffix string) []string {
	return lo.Map(counters, func(c *Counter, _ int) string {
		return c.Name(suffix)
	})
}
