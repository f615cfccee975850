package main

import (
	"fmt"
	"os"
	"strings"
)

const version = "0.0.1-dev"

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		// No subcommand — default to transform (backward compatible)
		return runTransform(os.Args[1:])
	}

	switch os.Args[1] {
	case "transform":
		return runTransform(os.Args[2:])
	case "--version", "-v":
		fmt.Println("runtype", version)
		return 0
	case "--help", "-h":
		printUsage()
		return 0
	default:
		// Check if first arg starts with - (it's a flag, not a subcommand)
		if strings.HasPrefix(os.Args[1], "-") {
			return runTransform(os.Args[1:])
		}
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Println("runtype - runtime type enforcement transformer")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  runtype [flags] <module.ast.json>...    Transform modules (default)")
	fmt.Println("  runtype transform [flags] <files>...    Transform modules")
	fmt.Println()
	fmt.Println("Global Flags:")
	fmt.Println("  --version, -v          Print version and exit")
	fmt.Println("  --help, -h             Print this help message")
	fmt.Println()
	fmt.Println("Transform Flags:")
	fmt.Println("  --config <path>        Path to runtype.config.json or .yaml")
	fmt.Println("  --out <dir>            Output directory (default: next to input)")
	fmt.Println("  --mode <mode>          Override assertionMode (off, warn, assert)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  runtype src/main.ast.json")
	fmt.Println("  runtype transform --config runtype.config.json src/*.ast.json")
	fmt.Println("  runtype transform --mode warn --out dist src/main.ast.json")
	fmt.Println()
}
