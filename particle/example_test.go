package particle_test

import (
	"fmt"
	"math/rand/v2"

	"github.com/katalvlaran/lvsolve/particle"
)

// ExampleFilter_Update reweights four particles by a measurement and shows
// the weighted estimate.
func ExampleFilter_Update() {
	states := []float64{1, 2, 3, 4}
	i := 0
	f, err := particle.New(particle.Model[float64, float64, float64]{
		Motion: func(s, dx float64, _ *rand.Rand) float64 { return s + dx },
		Likelihood: func(s, z float64) float64 {
			if s == z {
				return 1
			}
			return 0
		},
		Fields: func(s float64) []float64 { return []float64{s} },
	}, func(*rand.Rand) float64 {
		s := states[i]
		i++
		return s
	}, particle.WithParticles(len(states)))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	f.Predict(1)
	resampled := f.Update(3)
	fmt.Println(resampled, f.Estimate()[0], f.Particles())
	// Output: true 3 [3 3 3 3]
}
