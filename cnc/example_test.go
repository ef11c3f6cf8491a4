package cnc_test

import (
	"fmt"

	"github.com/katalvlaran/lvsolve/cnc"
)

func ExampleOptimizeToolChanges() {
	ops := []cnc.Operation{
		{ID: "face", Tool: "T1"},
		{ID: "drill", Tool: "T2"},
		{ID: "finish", Tool: "T1"},
	}

	plan, err := cnc.OptimizeToolChanges(ops)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(plan.ToolChanges, plan.Searched)
	// Output: 2 true
}

func ExamplePlanSetups() {
	features := []cnc.Feature{
		{ID: "pocket", Allowed: []cnc.Direction{"+Z"}},
		{ID: "bore", RelatedTo: []string{"pocket"}},
		{ID: "slot", Allowed: []cnc.Direction{"-Z"}},
	}

	plan, err := cnc.PlanSetups(features, []cnc.Direction{"+Z", "-Z"})
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, s := range plan.Setups {
		fmt.Println(s.Direction, s.Features)
	}
	// Output:
	// +Z [pocket bore]
	// -Z [slot]
}
