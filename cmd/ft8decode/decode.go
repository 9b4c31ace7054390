//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/kd9xyz/ft8decode"
	"github.com/kd9xyz/ft8decode/internal/config"
	"github.com/kd9xyz/ft8decode/internal/output"
)

var errDecodeArgs = errors.New("expected exactly one argument: wav file path")

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode FT8 transmissions from a 15s, 12kHz mono WAV slot",
		ArgsUsage: "<file.wav>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file overriding default tuning",
			},
			&cli.IntFlag{
				Name:  "max-passes",
				Usage: "Number of subtract-and-retry passes (0 = use config/default)",
			},
			&cli.FloatFlag{
				Name:  "sync-min",
				Usage: "Minimum normalized coarse-sync score to attempt a decode (0 = use config/default)",
			},
			&cli.IntFlag{
				Name:  "max-candidates",
				Usage: "Maximum sync candidates attempted per pass (0 = use config/default)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: console, json, jsonl",
				Value:   "console",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errDecodeArgs, cmd.NArg())
			}

			filePath := cmd.Args().First()

			file, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}

			opts := config.Resolve(file, cliOverrides(cmd))

			reader, err := os.Open(filePath) //nolint:gosec // CLI tool opens user-specified audio files
			if err != nil {
				return fmt.Errorf("opening file: %w", err)
			}
			defer reader.Close()

			result, err := ft8.Decode(ctx, reader, opts)
			if err != nil {
				return fmt.Errorf("decoding: %w", err)
			}

			return writeResult(result, cmd.String("format"))
		},
	}
}

func cliOverrides(cmd *cli.Command) config.Overrides {
	var o config.Overrides

	if v := cmd.Int("max-passes"); v != 0 {
		o.MaxPasses = &v
	}

	if v := cmd.Float("sync-min"); v != 0 {
		o.SyncMin = &v
	}

	if v := cmd.Int("max-candidates"); v != 0 {
		o.MaxCandidates = &v
	}

	return o
}

func writeResult(result *ft8.Result, format string) error {
	switch format {
	case "json":
		return output.WriteJSON(os.Stdout, result)
	case "jsonl":
		return output.WriteJSONL(os.Stdout, result)
	case "console", "":
		return output.WriteConsole(os.Stdout, result)
	default:
		return fmt.Errorf("unknown format %q (valid: console, json, jsonl)", format)
	}
}
