package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/funclock/funclock/rewriting"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [files or directories]",
	Short: "Rewrite annotated functions with timing instrumentation.",
	Long: "`rewrite [files or directories]` rewrites every function that " +
		"carries a funclock directive. Without -w the rewritten sources are " +
		"printed to standard output. A file with a malformed directive is " +
		"reported and left untouched.",
	Run: func(cmd *cobra.Command, args []string) {
		write, _ := cmd.Flags().GetBool("write")

		files, err := gatherFiles(args)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		opts, err := scanOptions()
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		hasError := false
		for _, path := range files {
			src, err := os.ReadFile(path)
			if err != nil {
				log.Fatalf("Error: %v", err)
			}

			out, targets, diags, err := rewriting.RewriteSource(
				path, src, opts)
			if err != nil {
				log.Fatalf("Error: %v", err)
			}
			if len(diags) > 0 {
				for _, d := range diags {
					fmt.Fprintln(os.Stderr, d.Error())
				}
				hasError = true
				continue
			}
			if len(targets) == 0 {
				continue
			}

			if !write {
				os.Stdout.Write(out)
				continue
			}
			if err := os.WriteFile(path, out, 0644); err != nil {
				log.Fatalf("Error: %v", err)
			}
			fmt.Printf("rewrote %s (%d annotated functions)\n",
				path, len(targets))
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(rewriteCmd)
	rewriteCmd.Flags().BoolP("write", "w", false,
		"write the rewritten source back to the file")
}
