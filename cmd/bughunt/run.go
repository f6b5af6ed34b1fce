package main

import (
	gocontext "context"
	"fmt"
	"os"
	"strings"
)

// handleRun implements `bughunt run <command...>`: one command, one
// result, exit code by success.
func handleRun(a *app) error {
	if len(os.Args) < 3 {
		fmt.Println("Usage: bughunt run <command>")
		fmt.Println()
		fmt.Println("Examples:")
		for _, example := range a.router.Examples() {
			fmt.Printf("  bughunt run '%s'\n", example)
		}
		return nil
	}

	line := strings.Join(os.Args[2:], " ")
	result := a.router.Parse(gocontext.Background(), line)
	printResult(result)

	if !result.Success {
		return fmt.Errorf("command failed")
	}
	return nil
}
