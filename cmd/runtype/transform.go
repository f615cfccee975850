package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/runtype/runtype/internal/ast"
	"github.com/runtype/runtype/internal/config"
	"github.com/runtype/runtype/internal/transform"
)

// runTransform drives the transform subcommand: for each input AST dump,
// run the pass and write the emitted module next to it (or under --out).
func runTransform(args []string) int {
	var configPath, outDir, modeOverride string
	var files []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--config requires a path")
				return 1
			}
			i++
			configPath = args[i]
		case "--out":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--out requires a directory")
				return 1
			}
			i++
			outDir = args[i]
		case "--mode":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--mode requires a value")
				return 1
			}
			i++
			modeOverride = args[i]
		default:
			if strings.HasPrefix(args[i], "-") {
				fmt.Fprintf(os.Stderr, "unknown flag: %s\n", args[i])
				return 1
			}
			files = append(files, args[i])
		}
	}

	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no input files")
		return 1
	}

	cfg := config.DefaultConfig()
	if configPath == "" {
		if wd, err := os.Getwd(); err == nil {
			configPath = config.Discover(wd)
		}
	}
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		cfg = *loaded
	}
	if modeOverride != "" {
		cfg.AssertionMode = modeOverride
		if result := cfg.Validate(); !result.IsValid() {
			fmt.Fprintln(os.Stderr, strings.Join(result.Errors, "\n"))
			return 1
		}
	}

	exitCode := 0
	for _, file := range files {
		if err := transformFile(&cfg, file, outDir); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)
			exitCode = 1
		}
	}
	return exitCode
}

func transformFile(cfg *config.Config, file string, outDir string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	program, err := ast.Decode(data)
	if err != nil {
		return err
	}
	result, err := transform.Transform(cfg, file, program)
	if err != nil {
		return err
	}

	if formatted := result.Diagnostics.FormatAll(); formatted != "" {
		fmt.Fprint(os.Stderr, formatted)
	}
	if result.Diagnostics.HasErrors() {
		return fmt.Errorf("transform failed: %s", result.Diagnostics.Summary())
	}

	out := outputPath(file, outDir)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(out, []byte(result.Source), 0o644); err != nil {
		return err
	}
	fmt.Printf("%s -> %s\n", file, out)
	return nil
}

// outputPath maps input.ast.json to input.js, optionally rerooted.
func outputPath(file string, outDir string) string {
	base := filepath.Base(file)
	base = strings.TrimSuffix(base, ".ast.json")
	base = strings.TrimSuffix(base, ".json")
	base += ".js"
	if outDir != "" {
		return filepath.Join(outDir, base)
	}
	return filepath.Join(filepath.Dir(file), base)
}
