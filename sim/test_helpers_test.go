package sim

import "testing"

// q is shorthand for a Quantity literal.
func q(resource string, amount int) Quantity {
	return Quantity{Resource: resource, Amount: amount}
}

// newTestProblem builds a Problem from an initial stock map and processes.
func newTestProblem(t *testing.T, stock map[string]int, target Target, processes ...*Process) *Problem {
	t.Helper()
	s := NewStock()
	for name, qty := range stock {
		s.Add(name, qty)
	}
	p, err := NewProblem(s, processes, target)
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}
	return p
}

// breadProblem is euro:10, buy_bread:(euro:5):(bread:1):2, optimize:(bread).
func breadProblem(t *testing.T) *Problem {
	t.Helper()
	return newTestProblem(t, map[string]int{"euro": 10}, Target{Resources: []string{"bread"}},
		NewProcess("buy_bread", []Quantity{q("euro", 5)}, []Quantity{q("bread", 1)}, 2))
}

// ikeaProblem is the classic furniture chain with one final product.
func ikeaProblem(t *testing.T) *Problem {
	t.Helper()
	return newTestProblem(t, map[string]int{"planche": 7}, Target{Resources: []string{"armoire"}, Time: true},
		NewProcess("do_montant", []Quantity{q("planche", 1)}, []Quantity{q("montant", 1)}, 15),
		NewProcess("do_fond", []Quantity{q("planche", 2)}, []Quantity{q("fond", 1)}, 20),
		NewProcess("do_etagere", []Quantity{q("planche", 1)}, []Quantity{q("etagere", 1)}, 10),
		NewProcess("do_armoire_ikea", []Quantity{q("montant", 2), q("fond", 1), q("etagere", 3)}, []Quantity{q("armoire", 1)}, 30),
	)
}

// uniformWeights returns weights of v in every dimension of the policy layout.
func uniformWeights(policy Policy, problem *Problem, v float64) *Weights {
	w := NewWeights(NewLayoutFor(policy, problem))
	for i := 0; i < w.Len(); i++ {
		w.SetAt(i, v)
	}
	return w
}
