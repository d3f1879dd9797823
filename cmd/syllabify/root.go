package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-syllable/logging"
	"github.com/RyanBlaney/sonido-syllable/syllable"
	"github.com/RyanBlaney/sonido-syllable/syllable/config"
	"github.com/RyanBlaney/sonido-syllable/transcode"
)

type options struct {
	algorithm  string
	configPath string
	envFile    string
	workers    int
	format     string
	logLevel   string
	ffmpegPath string
}

// fileResult is the JSON shape of one segmented file
type fileResult struct {
	File      string            `json:"file"`
	Algorithm string            `json:"algorithm"`
	Duration  float64           `json:"duration"`
	Regions   []syllable.Region `json:"regions"`
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "syllabify [flags] FILE...",
		Short: "Split speech recordings into pseudosyllable regions",
		Long: `syllabify decodes each audio file, runs the selected segmenter over its first
channel and prints one [start, end) region per line, in seconds.

WAV files are decoded natively; other formats go through ffmpeg.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.algorithm, "algorithm", "a", "", `segmentation algorithm: "em" or "envelope" (default from config)`)
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file with SYLLABLE_* overrides, ignored when missing")
	flags.IntVarP(&opts.workers, "workers", "w", runtime.NumCPU(), "files segmented concurrently")
	flags.StringVarP(&opts.format, "format", "f", "text", `output format: "text" or "json"`)
	flags.StringVar(&opts.logLevel, "log-level", "warn", "debug, info, warn or error")
	flags.StringVar(&opts.ffmpegPath, "ffmpeg", "", "path to ffmpeg for non-WAV input")

	return cmd
}

func run(ctx context.Context, opts *options, files []string, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unknown output format %q", opts.format)
	}

	logger, err := setupLogging(opts.logLevel, stderr)
	if err != nil {
		return err
	}

	if err := loadEnvFile(opts.envFile); err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.algorithm != "" {
		cfg.Algorithm = config.Algorithm(opts.algorithm)
	}

	seg, err := syllable.NewSegmenter(cfg)
	if err != nil {
		return err
	}

	decoderConfig := transcode.DefaultDecoderConfig()
	if opts.ffmpegPath != "" {
		decoderConfig.FFmpegPath = opts.ffmpegPath
	}
	decoder := transcode.NewDecoder(decoderConfig)
	if err := decoder.ValidateConfig(); err != nil {
		return err
	}

	names := make([]string, 0, len(files))
	waveforms := make([]*transcode.AudioData, 0, len(files))
	for _, file := range files {
		audio, err := decoder.DecodeFile(ctx, file)
		if err != nil {
			logger.Error(err, "Skipping file that could not be decoded", logging.Fields{
				"file": file,
			})
			continue
		}
		names = append(names, file)
		waveforms = append(waveforms, audio)
	}
	if len(waveforms) == 0 {
		return errors.New("no input file could be decoded")
	}

	logger.Info("Segmenting files", logging.Fields{
		"files":     len(waveforms),
		"algorithm": seg.Name(),
		"workers":   opts.workers,
	})

	results, err := syllable.GenerateAll(ctx, seg, waveforms, opts.workers)
	if err != nil {
		return err
	}

	out := make([]fileResult, len(results))
	for i, regions := range results {
		out[i] = fileResult{
			File:      names[i],
			Algorithm: seg.Name(),
			Duration:  waveforms[i].Duration(),
			Regions:   regions,
		}
	}

	if opts.format == "json" {
		return writeJSON(stdout, out)
	}
	return writeText(stdout, out)
}

// setupLogging routes the library's global logger through logrus at the given level
func setupLogging(levelName string, w io.Writer) (logging.Logger, error) {
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}

	base := logrus.New()
	base.SetOutput(w)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	logger := logging.NewLogrusLogger(base)
	logger.SetLevel(level)
	logging.SetGlobalLogger(logger)

	return logger.WithFields(logging.Fields{"component": "syllabify"}), nil
}

// loadEnvFile exports the dotenv file at path without overriding variables that are
// already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func writeText(w io.Writer, results []fileResult) error {
	multi := len(results) > 1
	for _, res := range results {
		if multi {
			if _, err := fmt.Fprintf(w, "# %s\n", res.File); err != nil {
				return err
			}
		}
		for _, r := range res.Regions {
			if _, err := fmt.Fprintf(w, "%.3f\t%.3f\n", r.Start, r.End); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeJSON(w io.Writer, results []fileResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
