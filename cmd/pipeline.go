package cmd

import (
	"bytes"
	"context"
	"io"

	"github.com/jsphweid/wav2midi/audio"
	"github.com/jsphweid/wav2midi/cache"
	"github.com/jsphweid/wav2midi/config"
	"github.com/jsphweid/wav2midi/constants"
	"github.com/jsphweid/wav2midi/midi"
	"github.com/jsphweid/wav2midi/model"
	"github.com/jsphweid/wav2midi/spectrum"
	"github.com/jsphweid/wav2midi/transcribe"
)

type result struct {
	Summary model.Summary
	Midi    []byte
	Cached  bool
}

// transcribeWav runs the whole pipeline on an in-memory wav file. With a
// cache, hits skip the analysis entirely.
func transcribeWav(ctx context.Context, wav []byte, cfg config.Config, c *cache.Cache, progress io.Writer) (*result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var key []byte
	if c != nil {
		key = cache.Key(wav, cfg)
		e, ok, err := c.Get(key)
		if err != nil {
			return nil, err
		}
		if ok {
			return &result{Summary: e.Summary, Midi: e.Midi, Cached: true}, nil
		}
	}

	samples, sampleRate, err := audio.ReadMono(bytes.NewReader(wav))
	if err != nil {
		return nil, err
	}
	tr, err := transcribe.New(cfg, spectrum.NewBins(sampleRate, constants.WindowSize))
	if err != nil {
		return nil, err
	}
	tr.Progress = progress

	t, err := tr.FromSamples(ctx, samples, sampleRate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := midi.Write(&buf, t, cfg.Tempo); err != nil {
		return nil, err
	}
	res := &result{Summary: t.Summary(), Midi: buf.Bytes()}
	if c != nil {
		if err := c.Put(key, cache.Entry{Summary: res.Summary, Midi: res.Midi}); err != nil {
			return nil, err
		}
	}
	return res, nil
}
