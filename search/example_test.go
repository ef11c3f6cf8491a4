package search_test

import (
	"fmt"

	"github.com/katalvlaran/lvsolve/search"
)

// ExampleWeightedAStar crosses a 4×4 grid diagonally with plain A*.
func ExampleWeightedAStar() {
	p := gridProblem(4, pt{0, 0}, pt{3, 3})

	res, err := search.WeightedAStar(p)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(res.Found, res.Cost, len(res.Path))
	// Output: true 6 7
}
