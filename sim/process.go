package sim

import (
	"fmt"
	"strings"
)

// Quantity is an amount of a named resource, as it appears in a process
// definition.
type Quantity struct {
	Resource string
	Amount   int
}

// Process is an immutable transformation: it consumes Inputs when launched
// and produces Outputs Delay cycles later. Processes are shared read-only
// across all Individuals; in-flight state lives in the Timeline.
type Process struct {
	Name    string
	Inputs  []Quantity // declaration order, duplicates merged
	Outputs []Quantity // declaration order, duplicates merged
	Delay   int
}

// NewProcess builds a Process, merging repeated resources within each list.
func NewProcess(name string, inputs, outputs []Quantity, delay int) *Process {
	return &Process{
		Name:    name,
		Inputs:  mergeQuantities(inputs),
		Outputs: mergeQuantities(outputs),
		Delay:   delay,
	}
}

// Input returns the required amount of resource, 0 if not an input.
func (p *Process) Input(resource string) int {
	return amountOf(p.Inputs, resource)
}

// Output returns the produced amount of resource, 0 if not an output.
func (p *Process) Output(resource string) int {
	return amountOf(p.Outputs, resource)
}

// Touches reports whether resource is an input or an output of p.
func (p *Process) Touches(resource string) bool {
	return p.Input(resource) > 0 || p.Output(resource) > 0
}

func (p *Process) String() string {
	return fmt.Sprintf("%s:(%s):(%s):%d", p.Name, formatQuantities(p.Inputs), formatQuantities(p.Outputs), p.Delay)
}

func amountOf(qs []Quantity, resource string) int {
	for _, q := range qs {
		if q.Resource == resource {
			return q.Amount
		}
	}
	return 0
}

func mergeQuantities(qs []Quantity) []Quantity {
	merged := make([]Quantity, 0, len(qs))
	index := make(map[string]int, len(qs))
	for _, q := range qs {
		if i, ok := index[q.Resource]; ok {
			merged[i].Amount += q.Amount
			continue
		}
		index[q.Resource] = len(merged)
		merged = append(merged, q)
	}
	return merged
}

func formatQuantities(qs []Quantity) string {
	parts := make([]string, len(qs))
	for i, q := range qs {
		parts[i] = fmt.Sprintf("%s:%d", q.Resource, q.Amount)
	}
	return strings.Join(parts, ";")
}
