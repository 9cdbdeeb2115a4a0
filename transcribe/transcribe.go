// Package transcribe turns a dB spectrogram into per-voice note sequences.
package transcribe

import (
	"context"
	"io"

	"github.com/jsphweid/wav2midi/config"
	"github.com/jsphweid/wav2midi/model"
	"github.com/jsphweid/wav2midi/peaks"
	"github.com/jsphweid/wav2midi/spectrum"
	"github.com/jsphweid/wav2midi/voice"
	"github.com/pkg/errors"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/sync/errgroup"
)

type Transcriber struct {
	Config config.Config
	Table  spectrum.FrequencyTable

	// progress bar destination, nil for none
	Progress io.Writer

	extractor *peaks.Extractor
}

func New(cfg config.Config, table spectrum.FrequencyTable) (*Transcriber, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	extractor, err := peaks.NewFromConfig(table, cfg)
	if err != nil {
		return nil, err
	}
	return &Transcriber{Config: cfg, Table: table, extractor: extractor}, nil
}

// Run transcribes a time-major dB spectrogram: frames[t][bin].
func (t *Transcriber) Run(ctx context.Context, frames [][]float64) (*model.Transcription, error) {
	framePeaks, err := t.extractAll(ctx, frames)
	if err != nil {
		return nil, err
	}

	voices := voice.Voices(framePeaks, t.Config.Peaks)
	res := &model.Transcription{
		Voices: make([][]model.Note, len(voices)),
		Frames: len(frames),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.Config.NumWorkers())
	for i, slots := range voices {
		i, slots := i, slots
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			notes, err := voice.Build(slots, t.Config.KeyDiff, t.Config.Unit)
			if err != nil {
				return errors.Wrapf(err, "voice %d", i)
			}
			res.Voices[i] = notes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// FromSamples analyzes mono samples with the default STFT convention and
// transcribes the result. The table given to New must match sampleRate.
func (t *Transcriber) FromSamples(ctx context.Context, samples []float64, sampleRate int) (*model.Transcription, error) {
	sg, err := spectrum.Analyze(samples, sampleRate)
	if err != nil {
		return nil, err
	}
	if !spectrum.SameBins(t.Table, sg.Table) {
		return nil, errors.Wrapf(config.ErrInvalidConfig, "frequency table does not match %d Hz audio", sampleRate)
	}
	return t.Run(ctx, sg.Frames)
}

func (t *Transcriber) extractAll(ctx context.Context, frames [][]float64) ([]model.FramePeaks, error) {
	res := make([]model.FramePeaks, len(frames))

	var p *mpb.Progress
	var bar *mpb.Bar
	// a bar without a total never completes
	if t.Progress != nil && len(frames) > 0 {
		p = mpb.New(mpb.WithWidth(64), mpb.WithOutput(t.Progress))
		bar = p.AddBar(int64(len(frames)),
			mpb.PrependDecorators(
				decor.Name("Frames: "),
				decor.CountersNoUnit("%d / %d"),
			),
			mpb.AppendDecorators(
				decor.Percentage(),
				decor.EwmaETA(decor.ET_STYLE_GO, 60),
			),
		)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.Config.NumWorkers())
	for i, frame := range frames {
		i, frame := i, frame
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res[i] = t.extractor.Extract(frame)
			if bar != nil {
				bar.Increment()
			}
			return nil
		})
	}
	err := g.Wait()
	if p != nil {
		if err != nil {
			bar.Abort(false)
		}
		p.Wait()
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}
