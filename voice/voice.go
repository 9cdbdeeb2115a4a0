// Package voice stitches one voice's per-frame peaks into held notes.
package voice

import (
	"math"

	"github.com/jsphweid/wav2midi/config"
	"github.com/jsphweid/wav2midi/constants"
	"github.com/jsphweid/wav2midi/model"
	"github.com/jsphweid/wav2midi/note"
	"github.com/pkg/errors"
)

var ErrInvalidFrequency = errors.New("frequency must be positive and finite")

// KeyDiff is the distance between two frequencies in equal tempered
// semitones.
func KeyDiff(f1, f2 float64) float64 {
	return math.Abs(12 * math.Log2(f1/f2))
}

// Loudness maps an intensity and the frequency it was heard at to a MIDI
// velocity. Quiet and high pitched peaks fall under the floor and are muted.
func Loudness(db, freq float64) int {
	raw := math.Trunc((127 - 3*math.Abs(db)) * math.Exp(-freq/2000))
	if raw <= constants.VelocityFloor {
		return 0
	}
	return int(raw)
}

// run is the note being held. Its pitch and velocity come from the frame
// that started it.
type run struct {
	anchor   float64
	units    int
	velocity int
}

func start(s model.Slot) run {
	return run{anchor: s.Frequency, units: 1, velocity: Loudness(s.Intensity, s.Frequency)}
}

func (r run) note(unit float64) model.Note {
	return note.Make(r.anchor, r.units, unit, r.velocity)
}

// Build segments a voice into notes, starting a new one whenever the pitch
// moves keydiff semitones or more away from the held note.
func Build(slots []model.Slot, keydiff, unit float64) ([]model.Note, error) {
	if keydiff <= 0 {
		return nil, errors.Wrapf(config.ErrInvalidConfig, "keydiff_threshold must be positive, got %v", keydiff)
	}
	if unit <= 0 {
		return nil, errors.Wrapf(config.ErrInvalidConfig, "unit_duration must be positive, got %v", unit)
	}
	for i, s := range slots {
		if !valid(s.Frequency) {
			return nil, errors.Wrapf(ErrInvalidFrequency, "frame %d has %v Hz", i, s.Frequency)
		}
	}
	if len(slots) == 0 {
		return nil, nil
	}

	var res []model.Note
	curr := start(slots[0])
	for _, s := range slots[1:] {
		if KeyDiff(s.Frequency, curr.anchor) >= keydiff {
			res = append(res, curr.note(unit))
			curr = start(s)
		} else {
			curr.units++
		}
	}
	return append(res, curr.note(unit)), nil
}

func valid(freq float64) bool {
	return freq > 0 && !math.IsInf(freq, 0) && !math.IsNaN(freq)
}

// Voices splits rank-ordered frame peaks into one slot sequence per rank.
func Voices(frames []model.FramePeaks, k int) [][]model.Slot {
	res := make([][]model.Slot, k)
	for v := range res {
		res[v] = make([]model.Slot, len(frames))
		for t, f := range frames {
			res[v][t] = model.Slot{Frequency: f.Pitches[v], Intensity: f.Intensities[v]}
		}
	}
	return res
}
