package cli

import (
	"flag"
	"fmt"
	"io"

	"mcquiz/internal/question"
)

// runValidate builds the handler for the validate command.
func runValidate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		formatFlag := flags.String("format", "auto", "Question format: auto|csv|json|yaml")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if flags.NArg() != 1 {
			fmt.Fprintln(stderr, "Expected exactly one question file")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		format, err := question.ParseFormat(*formatFlag)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitUsage
		}

		set, err := question.LoadFile(flags.Arg(0), format)
		if err != nil {
			fmt.Fprintf(stderr, "Validation failed:\n%v\n", err)
			return ExitError
		}
		printWarnings(stdout, set)
		fmt.Fprintf(stdout, "Questions OK: %d (%s)\n", set.Len(), set.Format)
		return ExitOK
	}
}
