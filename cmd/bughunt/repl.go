package main

import (
	"bufio"
	gocontext "context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cgast/bughunt/pkg/events"
	"github.com/cgast/bughunt/pkg/ops"
)

func runInteractiveREPL(a *app) {
	fmt.Println("bughunt v0.1.0 — git regression hunter")
	fmt.Println("Type 'help' for available commands, 'exit' to quit.")
	fmt.Println()

	// Progress events print as they happen so a long hunt is not silent.
	progress := a.bus.Subscribe(
		events.EventHuntStart,
		events.EventHuntStep,
		events.EventHuntExpand,
		events.EventCheckoutDone,
	)
	defer a.bus.Unsubscribe(progress)
	go printProgress(progress)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("bughunt> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "exit", "quit":
			fmt.Println("Goodbye.")
			return
		case "help":
			printHelp(a)
		case "operations":
			printOperations(a.registry)
		default:
			result := a.router.Parse(gocontext.Background(), line)
			printResult(result)
		}
	}
}

func printProgress(ch <-chan events.Event) {
	for event := range ch {
		switch event.Type {
		case events.EventHuntStart:
			fmt.Fprintf(os.Stderr, "· hunting: %v\n", event.Data)
		case events.EventHuntExpand:
			fmt.Fprintf(os.Stderr, "· expanding window: %v\n", event.Data)
		case events.EventCheckoutDone:
			fmt.Fprintf(os.Stderr, "· checked out %v\n", event.Data)
		case events.EventHuntStep:
			fmt.Fprintf(os.Stderr, "· step %d: %v\n", event.Step, event.Data)
		}
	}
}

func printHelp(a *app) {
	fmt.Println("Commands:")
	fmt.Println("  help              Show this help message")
	fmt.Println("  operations        List operations and their parameters")
	fmt.Println("  exit              Exit the shell")
	fmt.Println()
	fmt.Println("Operation shapes:")
	for _, example := range a.router.Examples() {
		fmt.Printf("  %s\n", example)
	}
}

func printOperations(registry *ops.Registry) {
	for _, name := range registry.Names() {
		op, _ := registry.Resolve(name)
		fmt.Printf("  %-20s %s\n", name, op.Description())
		params, _ := registry.Describe(name)
		for _, p := range params {
			required := ""
			if p.Required {
				required = " (required)"
			}
			fmt.Printf("      %-14s %s%s  %s\n", p.Name, p.Type, required, p.Description)
		}
	}
}

func printResult(result ops.Result) {
	if !result.Success {
		fmt.Printf("error: %s\n", result.Error)
		if len(result.KnownOperations) > 0 {
			fmt.Printf("known operations: %s\n", strings.Join(result.KnownOperations, ", "))
		}
		if len(result.Examples) > 0 {
			fmt.Println("try one of:")
			for _, example := range result.Examples {
				fmt.Printf("  %s\n", example)
			}
		}
		return
	}

	data, err := json.MarshalIndent(result.Data, "", "  ")
	if err != nil {
		fmt.Printf("%+v\n", result.Data)
		return
	}
	fmt.Println(string(data))
}
