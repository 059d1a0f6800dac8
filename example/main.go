// Example program demonstrating the gitversioning library API.
//
// Run from the repo root:
//
//	go run ./example/
package main

import (
	"fmt"
	"log"
	"sort"

	"github.com/go-gitversioning/gitversioning/pkg/gitversioning"
)

func main() {
	result, err := gitversioning.GetVersion(gitversioning.Options{
		Path: ".",
	})
	if err != nil {
		log.Fatalf("version computation failed: %v", err)
	}

	keys := make([]string, 0, len(result.Variables))
	for k := range result.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Printf("%-32s %s\n", k, result.Variables[k])
	}
	fmt.Printf("%-32s %d\n", "GitVersionHeight", result.Artifacts.GitVersionHeight)
	fmt.Printf("%-32s %t\n", "PublicRelease", result.Artifacts.PublicRelease)
}
