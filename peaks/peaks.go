// Package peaks picks the loudest distinct frequencies of a spectrogram
// frame. Every frame yields exactly as many slots as there are voices so
// voices stay aligned by rank across frames.
package peaks

import (
	"math"
	"sort"

	"github.com/jsphweid/wav2midi/config"
	"github.com/jsphweid/wav2midi/constants"
	"github.com/jsphweid/wav2midi/model"
	"github.com/jsphweid/wav2midi/savgol"
	"github.com/jsphweid/wav2midi/spectrum"
	"github.com/jsphweid/wav2midi/util"
	"github.com/pkg/errors"
)

// smoothing leaves floor regions a hair off the floor
const floorTolerance = 1e-6

type Extractor struct {
	Table  spectrum.FrequencyTable
	Peaks  int
	MinBin int
	MaxBin int

	smoother *savgol.Filter
}

func New(table spectrum.FrequencyTable, peaks, minBin, maxBin int) (*Extractor, error) {
	if peaks <= 0 {
		return nil, errors.Wrapf(config.ErrInvalidConfig, "n_peaks must be positive, got %d", peaks)
	}
	if minBin < 0 || maxBin <= minBin {
		return nil, errors.Wrapf(config.ErrInvalidConfig, "bad band [%d, %d)", minBin, maxBin)
	}
	smoother, err := savgol.New(constants.SmoothWindow, constants.SmoothOrder)
	if err != nil {
		return nil, err
	}
	return &Extractor{
		Table:    table,
		Peaks:    peaks,
		MinBin:   minBin,
		MaxBin:   maxBin,
		smoother: smoother,
	}, nil
}

func NewFromConfig(table spectrum.FrequencyTable, cfg config.Config) (*Extractor, error) {
	return New(table, cfg.Peaks, cfg.MinBin, cfg.MaxBin)
}

// Extract returns the frame's voice slots, loudest first, padded with
// silence. frame is left untouched.
func (e *Extractor) Extract(frame []float64) model.FramePeaks {
	band := e.gate(frame)
	band = e.smoother.Apply(band)

	res := model.FramePeaks{
		Pitches:     make([]float64, 0, e.Peaks),
		Intensities: make([]float64, 0, e.Peaks),
	}
	seen := make(map[float64]bool, e.Peaks)
	for _, p := range Candidates(band) {
		if len(res.Pitches) == e.Peaks {
			break
		}
		hz := e.Table.Frequency(p.Bin)
		if seen[hz] {
			continue
		}
		seen[hz] = true
		res.Pitches = append(res.Pitches, hz)
		res.Intensities = append(res.Intensities, p.Intensity)
	}

	for len(res.Pitches) < e.Peaks {
		res.Pitches = append(res.Pitches, constants.SilenceHz)
		res.Intensities = append(res.Intensities, constants.FloorDB)
	}
	return res
}

// gate restricts the frame to the analysis band and floors murmurs and
// sub-audible bins.
func (e *Extractor) gate(frame []float64) []float64 {
	n := util.Min(len(frame), util.Min(e.MaxBin, e.Table.Len()))
	band := make([]float64, n)
	for i := 0; i < n; i++ {
		v := frame[i]
		if math.IsNaN(v) || v <= constants.MurmurDB {
			v = constants.FloorDB
		}
		band[i] = v
	}
	for i := 0; i < util.Min(e.MinBin, n); i++ {
		band[i] = constants.FloorDB
	}
	return band
}

// Candidates lists interior bins above the floor, loudest first. Ties keep
// bin order.
func Candidates(band []float64) []model.Peak {
	var res []model.Peak
	for i := constants.PeakMargin; i < len(band)-constants.PeakMargin; i++ {
		if band[i]-constants.FloorDB > floorTolerance {
			res = append(res, model.Peak{Bin: i, Intensity: band[i]})
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Intensity > res[j].Intensity
	})
	return res
}
