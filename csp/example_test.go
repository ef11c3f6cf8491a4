package csp_test

import (
	"fmt"

	"github.com/katalvlaran/lvsolve/csp"
)

// ExampleForwardChecking assigns three mutually different values.
func ExampleForwardChecking() {
	vars := []string{"X", "Y", "Z"}
	p := csp.Problem[string, int]{
		Variables:   vars,
		Domains:     map[string][]int{"X": {1, 2, 3}, "Y": {1, 2, 3}, "Z": {1, 2, 3}},
		Constraints: csp.AllDifferent[string, int](vars...),
	}

	res, err := csp.ForwardChecking(p)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, v := range vars {
		fmt.Printf("%s=%d ", v, res.Assignment[v])
	}
	fmt.Println(res.Solved)
	// Output: X=1 Y=2 Z=3 true
}
