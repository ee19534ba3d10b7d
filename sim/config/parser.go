// Package config parses krpsim configuration files into a sim.Problem.
//
// A file holds, in this order: stock lines "name:quantity", process lines
// "name:(need:qty;...):(result:qty;...):delay" and a single optimize line
// "optimize:(name;...;time)". Blank lines and '#' comments are ignored.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/krpsim/sim"
)

// TimeTarget is the optimize keyword rewarding an early finish.
const TimeTarget = "time"

const commentPrefix = "#"

var (
	stockRE    = regexp.MustCompile(`^(\w+):(\d+)$`)
	processRE  = regexp.MustCompile(`^(\w+):(?:\((\w+:\d+(?:;\w+:\d+)*)?\))?:(?:\((\w+:\d+(?:;\w+:\d+)*)?\))?:(\d+)$`)
	optimizeRE = regexp.MustCompile(`^optimize:\((\w+(?:;\w+)*)\)$`)
)

type section int

const (
	sectionStock section = iota
	sectionProcess
	sectionOptimize
)

// Load parses the configuration file at path.
func Load(path string) (*sim.Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()
	problem, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return problem, nil
}

// Parse reads a configuration. Every error is one of the typed errors of
// this package, or a read error.
func Parse(r io.Reader) (*sim.Problem, error) {
	p := &parser{
		stock:       sim.NewStock(),
		processLine: make(map[string]int),
	}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		if err := p.parseLine(lineNo, line); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if len(p.processes) == 0 {
		return nil, &EmptyProcessListError{}
	}
	if p.optimizeLine == 0 {
		return nil, &MissingOptimizeError{}
	}
	if err := p.checkTarget(); err != nil {
		return nil, err
	}

	problem, err := sim.NewProblem(p.stock, p.processes, p.target)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("parsed %d processes, %d stocks, %d to optimize (time: %v)",
		len(problem.Processes), problem.Stock.Len(), len(problem.Target.Resources), problem.Target.Time)
	return problem, nil
}

type parser struct {
	section      section
	stock        *sim.Stock
	processes    []*sim.Process
	processLine  map[string]int
	target       sim.Target
	optimizeLine int
}

func (p *parser) parseLine(lineNo int, line string) error {
	if m := stockRE.FindStringSubmatch(line); m != nil {
		if p.section != sectionStock {
			return &OrderError{Line: lineNo, Text: line}
		}
		qty, err := strconv.Atoi(m[2])
		if err != nil {
			return &FormatError{Line: lineNo, Text: line}
		}
		p.stock.Add(m[1], qty)
		return nil
	}

	if m := processRE.FindStringSubmatch(line); m != nil {
		if p.section > sectionProcess {
			return &OrderError{Line: lineNo, Text: line}
		}
		p.section = sectionProcess
		return p.addProcess(lineNo, line, m)
	}

	if m := optimizeRE.FindStringSubmatch(line); m != nil {
		if p.optimizeLine != 0 {
			return &DuplicateOptimizeError{Line: lineNo, FirstLine: p.optimizeLine}
		}
		p.section = sectionOptimize
		p.optimizeLine = lineNo
		p.setTarget(m[1])
		return nil
	}

	return &FormatError{Line: lineNo, Text: line}
}

func (p *parser) addProcess(lineNo int, line string, m []string) error {
	name := m[1]
	if first, dup := p.processLine[name]; dup {
		return &DuplicateProcessError{Line: lineNo, Name: name, FirstLine: first}
	}
	inputs, err := parseQuantities(m[2])
	if err != nil {
		return &FormatError{Line: lineNo, Text: line}
	}
	outputs, err := parseQuantities(m[3])
	if err != nil {
		return &FormatError{Line: lineNo, Text: line}
	}
	delay, err := strconv.Atoi(m[4])
	if err != nil {
		return &FormatError{Line: lineNo, Text: line}
	}
	p.processLine[name] = lineNo
	p.processes = append(p.processes, sim.NewProcess(name, inputs, outputs, delay))
	return nil
}

// setTarget records the optimize names. The time keyword only sets
// Target.Time. Names are checked by checkTarget once every process is read.
func (p *parser) setTarget(list string) {
	seen := make(map[string]struct{})
	for _, name := range strings.Split(list, ";") {
		if name == TimeTarget {
			p.target.Time = true
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		p.target.Resources = append(p.target.Resources, name)
	}
}

// checkTarget rejects optimize names no process consumes or produces.
func (p *parser) checkTarget() error {
	known := make(map[string]struct{})
	for _, proc := range p.processes {
		for _, q := range proc.Inputs {
			known[q.Resource] = struct{}{}
		}
		for _, q := range proc.Outputs {
			known[q.Resource] = struct{}{}
		}
	}
	var unknown []string
	for _, name := range p.target.Resources {
		if _, ok := known[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return &UnknownOptimizeResourceError{Line: p.optimizeLine, Resources: unknown}
	}
	return nil
}

// parseQuantities reads "a:1;b:2". An empty group yields no quantities.
func parseQuantities(group string) ([]sim.Quantity, error) {
	if group == "" {
		return nil, nil
	}
	items := strings.Split(group, ";")
	qs := make([]sim.Quantity, 0, len(items))
	for _, item := range items {
		name, qtyStr, ok := strings.Cut(item, ":")
		if !ok {
			return nil, fmt.Errorf("quantity %q lacks ':'", item)
		}
		qty, err := strconv.Atoi(qtyStr)
		if err != nil {
			return nil, fmt.Errorf("quantity %q: %w", item, err)
		}
		qs = append(qs, sim.Quantity{Resource: name, Amount: qty})
	}
	return qs, nil
}
