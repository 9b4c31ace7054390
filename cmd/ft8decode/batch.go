//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/urfave/cli/v3"

	"github.com/kd9xyz/ft8decode"
	"github.com/kd9xyz/ft8decode/internal/config"
	"github.com/kd9xyz/ft8decode/internal/output"
)

var (
	errBatchArgs    = errors.New("expected exactly one argument: directory of WAV slots")
	errNotDirectory = errors.New("not a directory")
	errNoWAVFiles   = errors.New("no .wav files found")
)

func batchCommand() *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "Decode every WAV slot in a directory, one JSONL line per decode",
		ArgsUsage: "<dir>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file overriding default tuning",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"j"},
				Usage:   "Number of concurrent workers",
				Value:   runtime.NumCPU(),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errBatchArgs, cmd.NArg())
			}

			file, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}

			opts := config.Resolve(file, config.Overrides{})
			workers := max(cmd.Int("workers"), 1)

			return runBatch(ctx, cmd.Args().First(), opts, workers)
		},
	}
}

func runBatch(ctx context.Context, dir string, opts ft8.Options, workers int) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%q: %w", dir, errNotDirectory)
	}

	files, err := collectWAVFiles(dir)
	if err != nil {
		return fmt.Errorf("scanning directory: %w", err)
	}

	if len(files) == 0 {
		return fmt.Errorf("%q: %w", dir, errNoWAVFiles)
	}

	results := make([]*ft8.Result, len(files))

	var progress atomic.Int64

	sem := make(chan struct{}, workers)

	var waitGroup sync.WaitGroup

	for idx, filePath := range files {
		waitGroup.Add(1)

		go func(idx int, filePath string) {
			defer waitGroup.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx] = decodeOneFile(ctx, filePath, opts)

			done := progress.Add(1)
			fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", done, len(files), filePath)
		}(idx, filePath)
	}

	waitGroup.Wait()

	for idx := range results {
		if results[idx] == nil {
			continue
		}

		if err := output.WriteJSONL(os.Stdout, results[idx]); err != nil {
			slog.Error("writing result", "file", files[idx], "error", err)
		}
	}

	return nil
}

func decodeOneFile(ctx context.Context, filePath string, opts ft8.Options) *ft8.Result {
	reader, err := os.Open(filePath) //nolint:gosec // CLI tool opens user-specified audio files
	if err != nil {
		slog.Error("opening file", "file", filePath, "error", err)

		return nil
	}
	defer reader.Close()

	result, err := ft8.Decode(ctx, reader, opts)
	if err != nil {
		slog.Error("decoding", "file", filePath, "error", err)

		return nil
	}

	return result
}

func collectWAVFiles(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		if strings.ToLower(filepath.Ext(path)) == ".wav" {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)

	return files, nil
}
