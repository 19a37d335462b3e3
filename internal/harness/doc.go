// Package harness runs join scenarios described in YAML.
//
// A scenario names two in-memory inputs, the join options and, optionally,
// the exact output expected:
//
//	name: left_outer_with_placeholder
//	description: "Unmatched left rows are padded with the placeholder"
//	left:
//	  - "1\tA"
//	  - "2\tB"
//	right:
//	  - "2\tX"
//	options:
//	  left: { keys: ["1"], unmatched: true }
//	  empty: "-"
//	expect:
//	  - "1\tA\t-"
//	  - "2\tB\tX"
//
// options uses the same keys as a profile file (see package config).
// expect_error replaces expect for scenarios whose join must fail; it is
// matched as a substring of the error text.
//
// # Golden files
//
// RunWithGolden compares the rendered output of a scenario against
// testdata/golden/{name}.golden. To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness
