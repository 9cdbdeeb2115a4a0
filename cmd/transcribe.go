package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/wav2midi/cache"
	"github.com/jsphweid/wav2midi/config"
	"github.com/jsphweid/wav2midi/constants"
	"github.com/jsphweid/wav2midi/db"
	"github.com/jsphweid/wav2midi/model"
	"github.com/jsphweid/wav2midi/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	peaksFlag    int
	keyDiffFlag  float64
	tempoFlag    float64
	workersFlag  int
	useCache     bool
	showProgress bool
)

func init() {
	f := transcribeCmd.Flags()
	f.StringVar(&configPath, "config", "", "YAML config file")
	f.IntVarP(&peaksFlag, "peaks", "n", constants.DefaultPeaks, "number of voices to track")
	f.Float64VarP(&keyDiffFlag, "keydiff", "k", constants.DefaultKeyDiff, "semitones a voice must move to start a new note")
	f.Float64Var(&tempoFlag, "tempo", constants.DefaultTempo, "tempo written to the MIDI file")
	f.IntVar(&workersFlag, "workers", 0, "parallel workers (0 = one per CPU)")
	f.BoolVar(&useCache, "cache", false, "reuse results stored under CACHE_PATH")
	f.BoolVar(&showProgress, "progress", true, "show a progress bar")
	rootCmd.AddCommand(transcribeCmd)
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <in.wav> [out.mid]",
	Short: "Transcribes a wav file",
	Long: `Transcribes the first channel of a wav file into a MIDI file with one
track per voice. The output defaults to the input path with a .mid extension.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		out := outputPath(args)
		return runTranscribe(cmd.Context(), args[0], out, cfg)
	},
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("peaks") {
		cfg.Peaks = peaksFlag
	}
	if flags.Changed("keydiff") {
		cfg.KeyDiff = keyDiffFlag
	}
	if flags.Changed("tempo") {
		cfg.Tempo = tempoFlag
	}
	if flags.Changed("workers") {
		cfg.Workers = workersFlag
	}
	return cfg, cfg.Validate()
}

func outputPath(args []string) string {
	if len(args) == 2 {
		return args[1]
	}
	in := args[0]
	return strings.TrimSuffix(in, filepath.Ext(in)) + ".mid"
}

func runTranscribe(ctx context.Context, in, out string, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	wav, err := os.ReadFile(in)
	if err != nil {
		return errors.Wrap(err, "reading input")
	}

	var c *cache.Cache
	if useCache {
		if err := util.EnsureDir(constants.GetCacheDir()); err != nil {
			return errors.Wrap(err, "creating cache dir")
		}
		if c, err = cache.Open(constants.GetCacheDir()); err != nil {
			return err
		}
		defer c.Close()
	}

	fmt.Printf("Transcribing %v with %v voices, keydiff %v\n", in, cfg.Peaks, cfg.KeyDiff)
	var progress io.Writer
	if showProgress {
		progress = os.Stderr
	}
	res, err := transcribeWav(ctx, wav, cfg, c, progress)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, res.Midi, 0666); err != nil {
		return errors.Wrap(err, "writing output")
	}

	sum := res.Summary
	if res.Cached {
		fmt.Printf("Wrote cached result with %v voices, %v notes over %v frames to %v\n", sum.Voices, sum.Notes, sum.Frames, out)
	} else {
		fmt.Printf("Wrote %v voices, %v notes over %v frames to %v\n", sum.Voices, sum.Notes, sum.Frames, out)
	}
	return catalog(filepath.Base(in), cfg, sum)
}

func catalog(source string, cfg config.Config, sum model.Summary) error {
	cat, err := db.CatalogFromEnv()
	if err != nil {
		return err
	}
	return cat.PutTranscription(record(uuid.New().String(), source, cfg, sum))
}

func record(id, source string, cfg config.Config, sum model.Summary) model.TranscriptionRecord {
	return model.TranscriptionRecord{
		Id:        id,
		Source:    source,
		Voices:    sum.Voices,
		Notes:     sum.Notes,
		Frames:    sum.Frames,
		Peaks:     cfg.Peaks,
		KeyDiff:   cfg.KeyDiff,
		CreatedAt: time.Now().UTC(),
	}
}
