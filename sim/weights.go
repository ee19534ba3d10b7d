package sim

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

const (
	// MinWeight and MaxWeight bound every weight dimension.
	MinWeight = 0.0
	MaxWeight = 1.0

	// WaitKey is the weight dimension of the synthetic "wait" choice.
	// Resource and process names match \w+, so it cannot collide.
	WaitKey = "~wait"
)

// Layout is the ordered, immutable list of weight dimensions a Policy reads.
// One Layout is shared by every Individual of a search.
type Layout struct {
	keys  []string
	index map[string]int
}

// NewLayout builds a Layout, dropping repeated keys.
func NewLayout(keys []string) *Layout {
	l := &Layout{
		keys:  make([]string, 0, len(keys)),
		index: make(map[string]int, len(keys)),
	}
	for _, k := range keys {
		if _, dup := l.index[k]; dup {
			continue
		}
		l.index[k] = len(l.keys)
		l.keys = append(l.keys, k)
	}
	return l
}

// Len returns the number of dimensions.
func (l *Layout) Len() int {
	return len(l.keys)
}

// Keys returns a copy of the dimension names in layout order.
func (l *Layout) Keys() []string {
	return append([]string(nil), l.keys...)
}

// Index returns the position of key.
func (l *Layout) Index(key string) (int, bool) {
	i, ok := l.index[key]
	return i, ok
}

// Weights is one value per Layout dimension, each in [MinWeight, MaxWeight].
type Weights struct {
	layout *Layout
	values []float64
}

// NewWeights returns zero weights over l.
func NewWeights(l *Layout) *Weights {
	return &Weights{layout: l, values: make([]float64, l.Len())}
}

// RandomWeights draws every dimension uniformly in [MinWeight, MaxWeight).
func RandomWeights(l *Layout, rng *rand.Rand) *Weights {
	w := NewWeights(l)
	for i := range w.values {
		w.values[i] = MinWeight + rng.Float64()*(MaxWeight-MinWeight)
	}
	return w
}

// WeightsFromValues builds Weights from explicit values, clamped.
func WeightsFromValues(l *Layout, values []float64) (*Weights, error) {
	if len(values) != l.Len() {
		return nil, fmt.Errorf("got %d weight values for a layout of %d dimensions", len(values), l.Len())
	}
	w := NewWeights(l)
	for i, v := range values {
		w.values[i] = ClampWeight(v)
	}
	return w, nil
}

// Layout returns the layout the weights are defined over.
func (w *Weights) Layout() *Layout {
	return w.layout
}

// Len returns the number of dimensions.
func (w *Weights) Len() int {
	return len(w.values)
}

// Get returns the weight of key, 0 when key is not part of the layout.
func (w *Weights) Get(key string) float64 {
	if i, ok := w.layout.Index(key); ok {
		return w.values[i]
	}
	return 0
}

// At returns the weight at dimension i.
func (w *Weights) At(i int) float64 {
	return w.values[i]
}

// SetAt stores a clamped weight at dimension i.
func (w *Weights) SetAt(i int, v float64) {
	w.values[i] = ClampWeight(v)
}

// Values returns a copy of the raw values in layout order.
func (w *Weights) Values() []float64 {
	return append([]float64(nil), w.values...)
}

// Clone returns an independent copy sharing the same Layout.
func (w *Weights) Clone() *Weights {
	return &Weights{layout: w.layout, values: w.Values()}
}

// Equal reports whether both weights share a layout and hold the same values.
func (w *Weights) Equal(o *Weights) bool {
	if o == nil || w.layout != o.layout || len(w.values) != len(o.values) {
		return false
	}
	for i := range w.values {
		if w.values[i] != o.values[i] {
			return false
		}
	}
	return true
}

// Canonical serializes the weights as key=value pairs in layout order.
// Values are written in their shortest exact form, so equal weights always
// serialize identically.
func (w *Weights) Canonical() string {
	var sb strings.Builder
	for i, k := range w.layout.keys {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(strconv.FormatFloat(w.values[i], 'g', -1, 64))
	}
	return sb.String()
}

func (w *Weights) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, k := range w.layout.keys {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%s:%.3f", k, w.values[i])
	}
	sb.WriteString("}")
	return sb.String()
}

// ClampWeight bounds v to [MinWeight, MaxWeight].
func ClampWeight(v float64) float64 {
	return max(MinWeight, min(MaxWeight, v))
}
