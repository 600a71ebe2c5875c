package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/skdltmxn/demangle-go/demangle"
	"github.com/skdltmxn/demangle-go/internal/stream"
	"github.com/spf13/cobra"
)

var (
	scanChunkSize int
	scanMaxLength int
	scanQuote     bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Decode a stream of concatenated <source-name> tokens",
	Long: `Read concatenated <source-name> productions from a file, or from
stdin when no file is given, and print one token per line.

Reads are sized from the decoder's byte requirement: once a length prefix
is known, exactly the missing payload is requested. The command fails if
the input is malformed or ends inside a token.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanChunkSize, "chunk-size", defaultChunkSize, "read size when the needed amount is unknown")
	scanCmd.Flags().IntVar(&scanMaxLength, "max-length", defaultMaxLength, "maximum bytes buffered for a single token")
	scanCmd.Flags().BoolVarP(&scanQuote, "quote", "q", false, "print tokens as quoted Go strings")
}

func runScan(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	name := "<stdin>"
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in = f
		name = args[0]
	}

	d := stream.NewDecoder(in,
		stream.WithChunkSize(cfg.ChunkSize),
		stream.WithMaxBuffer(cfg.MaxLength),
		stream.WithRefillHook(func(ev stream.RefillEvent) {
			logger.Debug().
				Int64("offset", ev.Offset).
				Stringer("need", ev.Needed).
				Int("buffered", ev.Buffered).
				Int("read", ev.Read).
				Bool("eof", ev.EOF).
				Msg("refill")
		}),
	)

	count := 0
	for token, err := range stream.All(cmd.Context(), d, demangle.SourceName) {
		if err != nil {
			var te *stream.TruncatedError
			if errors.As(err, &te) {
				logger.Error().Int64("offset", te.Offset).Stringer("need", te.Needed).Msg("input ends inside a token")
			}
			return fmt.Errorf("%s: %w", name, err)
		}
		if scanQuote {
			fmt.Fprintf(output, "%q\n", token)
		} else {
			fmt.Fprintf(output, "%s\n", token)
		}
		count++
	}

	logger.Info().
		Str("input", name).
		Int("tokens", count).
		Str("read", humanize.Bytes(uint64(d.BytesRead()))).
		Msg("scan complete")
	return nil
}
