package main

import (
	"encoding/hex"
	"fmt"

	"github.com/skdltmxn/demangle-go/demangle"
	"github.com/spf13/cobra"
)

var (
	parseHex bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <input>...",
	Short: "Parse one <source-name> from each input",
	Long: `Parse a single <source-name> from the start of each argument and
report the outcome:

  done        the token and the unconsumed remainder
  incomplete  how many more bytes are needed ("unknown" if the length
              prefix itself may still grow)
  error       the input can never become valid

Use --hex to pass inputs as hexadecimal bytes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVarP(&parseHex, "hex", "x", false, "inputs are hex encoded")
}

func runParse(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, arg := range args {
		buf := []byte(arg)
		if parseHex {
			var err error
			buf, err = hex.DecodeString(arg)
			if err != nil {
				return fmt.Errorf("invalid hex input %q: %w", arg, err)
			}
		}

		r := demangle.SourceName(buf)
		logger.Debug().
			Str("input", arg).
			Stringer("status", r.Status).
			Msg("parsed")

		switch r.Status {
		case demangle.StatusDone:
			fmt.Fprintf(output, "%q: done token=%q rest=%q\n", buf, r.Value, r.Rest)
		case demangle.StatusIncomplete:
			fmt.Fprintf(output, "%q: incomplete need=%s\n", buf, r.Needed)
		case demangle.StatusError:
			fmt.Fprintf(output, "%q: error: %v\n", buf, r.Err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d input(s) malformed", failed, len(args))
	}
	return nil
}
