package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// commentPrefix marks lines ignored by Parse. The scheduler writes its
// report footer with it so a saved report is still a valid trace.
const commentPrefix = "#"

var lineRE = regexp.MustCompile(`^(\d+):(\w+)$`)

// Trace collects launch records in launch order.
type Trace struct {
	Launches []LaunchRecord
}

// New creates a Trace ready for recording.
func New() *Trace {
	return &Trace{
		Launches: make([]LaunchRecord, 0),
	}
}

// Record appends a launch record.
func (t *Trace) Record(cycle int, process string) {
	t.Launches = append(t.Launches, LaunchRecord{Cycle: cycle, Process: process})
}

// Len returns the number of launches.
func (t *Trace) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Launches)
}

// LastCycle returns the cycle of the last launch, 0 for an empty trace.
func (t *Trace) LastCycle() int {
	if t.Len() == 0 {
		return 0
	}
	return t.Launches[len(t.Launches)-1].Cycle
}

// Clone returns an independent copy.
func (t *Trace) Clone() *Trace {
	if t == nil {
		return nil
	}
	return &Trace{Launches: append([]LaunchRecord(nil), t.Launches...)}
}

// WriteTo writes one "cycle:process" line per launch.
func (t *Trace) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, r := range t.Launches {
		m, err := fmt.Fprintln(bw, r.String())
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// Save writes the trace to path.
func (t *Trace) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trace file: %w", err)
	}
	if _, err := t.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing trace file: %w", err)
	}
	return f.Close()
}

// Parse reads a trace. Blank lines and lines starting with '#' are skipped.
// Cycles must be non-decreasing from top to bottom.
func Parse(r io.Reader) (*Trace, error) {
	t := New()
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		m := lineRE.FindStringSubmatch(line)
		if m == nil {
			return t, &InvalidLineError{Line: lineNo, Text: line}
		}
		cycle, err := strconv.Atoi(m[1])
		if err != nil {
			return t, &InvalidLineError{Line: lineNo, Text: line}
		}
		if last := t.LastCycle(); t.Len() > 0 && cycle < last {
			return t, &CycleOrderError{Line: lineNo, Cycle: cycle, Last: last}
		}
		t.Record(cycle, m[2])
	}
	if err := sc.Err(); err != nil {
		return t, fmt.Errorf("reading trace: %w", err)
	}
	return t, nil
}

// Load parses the trace file at path.
func Load(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}
