package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"mcquiz/internal/question"
)

// runConvert builds the handler for the convert command.
func runConvert(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		to := flags.String("to", "", "Target format: csv|json|yaml")
		from := flags.String("from", "auto", "Source format: auto|csv|json|yaml")
		out := flags.String("out", "", "Write to a file instead of stdout")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if flags.NArg() != 1 {
			fmt.Fprintln(stderr, "Expected exactly one question file")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		target, err := question.ParseFormat(*to)
		if err != nil || target == question.FormatAuto {
			fmt.Fprintln(stderr, "Missing or invalid --to (expected csv|json|yaml)")
			return ExitUsage
		}
		source, err := question.ParseFormat(*from)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitUsage
		}

		set, err := question.LoadFile(flags.Arg(0), source)
		if err != nil {
			fmt.Fprintf(stderr, "Load failed:\n%v\n", err)
			return ExitError
		}
		printWarnings(stderr, set)
		data, err := question.Encode(set, target)
		if err != nil {
			fmt.Fprintf(stderr, "Convert failed: %v\n", err)
			return ExitError
		}
		if path := strings.TrimSpace(*out); path != "" {
			if err := os.WriteFile(path, data, 0o644); err != nil {
				fmt.Fprintf(stderr, "Convert failed: %v\n", err)
				return ExitError
			}
			fmt.Fprintf(stdout, "Wrote %s\n", path)
			return ExitOK
		}
		if _, err := stdout.Write(data); err != nil {
			return ExitError
		}
		return ExitOK
	}
}
