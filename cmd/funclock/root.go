package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/funclock/funclock/rewriting"
	"github.com/funclock/funclock/timing"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "funclock",
	Short: "Funclock rewrites annotated Go functions with timing instrumentation.",
	Long: `Funclock rewrites annotated Go functions with timing instrumentation. ` +
		`A function carrying a //funclock:println or //funclock:log directive is ` +
		`rewritten so that it measures its own execution time and, on normal ` +
		`completion, emits a message with the elapsed duration on the chosen ` +
		`channel. Panics propagate unchanged and emit nothing.`,
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// gatherFiles resolves the command arguments into a list of Go files. With
// no arguments the current directory is scanned.
func gatherFiles(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var files []string
	for _, arg := range args {
		list, err := rewriting.ListGoFiles(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, list...)
	}

	return files, nil
}

// scanOptions builds the rewriting options from the environment.
func scanOptions() (rewriting.Options, error) {
	token := os.Getenv("FUNCLOCK_UNIT")
	if token == "" {
		return rewriting.Options{}, nil
	}

	unit, err := timing.ParseUnit(token)
	if err != nil {
		return rewriting.Options{}, fmt.Errorf("FUNCLOCK_UNIT: %v", err)
	}

	return rewriting.Options{DefaultUnit: unit}, nil
}
