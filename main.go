// Package main provides a short pointer to the cachesim command.
// cachesim replays memory-access traces against a set-associative LRU cache.
//
// For the full CLI, use: go run ./cmd/cachesim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("cachesim - set-associative LRU cache simulator")
	fmt.Println("")
	fmt.Println("Usage: cachesim -s <bits> -E <lines> -b <bits> -t <trace> [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -s, --set-bits     Number of set index bits")
	fmt.Println("  -E, --lines        Number of lines per set")
	fmt.Println("  -b, --block-bits   Number of block offset bits")
	fmt.Println("  -t, --trace        Valgrind Lackey trace file")
	fmt.Println("  -v, --verbose      Print the outcome of every record")
	fmt.Println("      --config       JSON cache geometry file")
	fmt.Println("      --backend      arena, directory or lru")
	fmt.Println("      --record       Record every access into SQLite")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/cachesim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/cachesim' instead.")
	}
}
