package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/funclock/funclock/rewriting"
)

var listCmd = &cobra.Command{
	Use:   "list [files or directories]",
	Short: "List annotated functions.",
	Long: "`list [files or directories]` prints a table of every function " +
		"carrying a funclock directive, with its channel, unit, and format.",
	Run: func(cmd *cobra.Command, args []string) {
		files, err := gatherFiles(args)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		opts, err := scanOptions()
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("File", "Line", "Function", "Channel", "Unit",
			"Format", "Rewritten")

		count := 0
		for _, path := range files {
			src, err := os.ReadFile(path)
			if err != nil {
				log.Fatalf("Error: %v", err)
			}

			targets, diags, err := rewriting.ScanSource(path, src, opts)
			if err != nil {
				log.Fatalf("Error: %v", err)
			}
			for _, d := range diags {
				fmt.Fprintln(os.Stderr, d.Error())
			}

			for _, t := range targets {
				format := t.Directive.Format
				if format == "" {
					format = "(default)"
				}
				rewritten := "no"
				if t.Instrumented {
					rewritten = "yes"
				}
				table.Append(
					t.File,
					strconv.Itoa(t.Line),
					t.Func,
					t.Directive.Channel.String(),
					t.Directive.Unit.Suffix(),
					format,
					rewritten,
				)
				count++
			}
		}

		if count == 0 {
			fmt.Println("no annotated functions found")
			return
		}
		table.Render()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
