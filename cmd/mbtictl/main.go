// Command mbtictl runs the MBTI climate pipeline over a local file and prints
// the results as tables.
//
// Usage:
//
//	go run ./cmd/mbtictl run --data countriesMBTI_16types.csv --capitals capitals.csv
//	go run ./cmd/mbtictl groups --data countriesMBTI_16types.csv --by climate --type INTJ
//	go run ./cmd/mbtictl correlate --data countriesMBTI_16types.csv
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
