package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"sales_deepdive/pkg/core/gate"
)

// verify_outputs is the post-run quality gate: every report directory must
// contain all three non-empty artifacts. Exit code 0 on a full pass, 1
// otherwise, so CI can chain it after the pipeline.
func main() {
	outDir := flag.String("out", "outputs", "pipeline output directory to verify")
	flag.Parse()

	statuses, err := gate.Validate(*outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "verify_outputs: %v\n", err)
		os.Exit(1)
	}

	for _, st := range statuses {
		if st.Passed {
			fmt.Printf("PASS  %s\n", st.Report)
			continue
		}
		var problems []string
		if len(st.Missing) > 0 {
			problems = append(problems, "missing: "+strings.Join(st.Missing, ", "))
		}
		if len(st.Empty) > 0 {
			problems = append(problems, "empty: "+strings.Join(st.Empty, ", "))
		}
		fmt.Printf("FAIL  %s (%s)\n", st.Report, strings.Join(problems, "; "))
	}

	if !gate.AllPassed(statuses) {
		os.Exit(1)
	}
}
