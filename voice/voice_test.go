package voice

import (
	"math"
	"testing"

	"github.com/jsphweid/wav2midi/config"
	"github.com/jsphweid/wav2midi/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slots(freqs []float64, dbs []float64) []model.Slot {
	res := make([]model.Slot, len(freqs))
	for i := range freqs {
		res[i] = model.Slot{Frequency: freqs[i], Intensity: dbs[i]}
	}
	return res
}

func totalDuration(notes []model.Note) float64 {
	var total float64
	for _, n := range notes {
		total += n.Duration
	}
	return total
}

func TestKeyDiff(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(12.0, KeyDiff(880, 440))
	assert.Equal(12.0, KeyDiff(440, 880))
	assert.Equal(0.0, KeyDiff(440, 440))
	assert.InDelta(1, KeyDiff(440*math.Pow(2, 1.0/12), 440), 1e-12)
}

func TestLoudness(t *testing.T) {
	cases := []struct {
		name string
		db   float64
		freq float64
		want int
	}{
		{"full scale low", 0, 0, 127},
		{"a4 at -10 dB", -10, 440, 77},
		{"600 Hz at -5 dB", -5, 600, 82},
		{"just above floor", -31, 0, 34},
		{"exactly floor", -31.6, 0, 0},
		{"below floor", -32, 0, 0},
		{"high pitch muted", -20, 1800, 0},
		{"silence sentinel", -80, 1, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Loudness(c.db, c.freq))
		})
	}
}

func TestBuildExample(t *testing.T) {
	notes, err := Build(slots([]float64{440, 440.2, 600}, []float64{-10, -10, -5}), 1, 1)
	require.NoError(t, err)

	assert := assert.New(t)
	require.Len(t, notes, 2)
	assert.Equal(model.Note{Pitch: 440, Duration: 2, Velocity: 77}, notes[0])
	assert.Equal(model.Note{Pitch: 600, Duration: 1, Velocity: 82}, notes[1])
}

func TestBuildConstantPitchIsOneNote(t *testing.T) {
	freqs := []float64{330, 330, 330, 330, 330, 330, 330}
	dbs := []float64{-3, -50, -80, -1, -2, -3, -4}

	notes, err := Build(slots(freqs, dbs), 1, 0.25)
	require.NoError(t, err)

	assert := assert.New(t)
	require.Len(t, notes, 1)
	assert.Equal(7*0.25, notes[0].Duration)
	// velocity comes from the first frame only
	assert.Equal(Loudness(-3, 330), notes[0].Velocity)
}

func TestBuildAnchorsOnFirstFrame(t *testing.T) {
	// each step is under a semitone but the drift from 440 adds up
	freqs := []float64{440, 455, 470, 485}
	notes, err := Build(slots(freqs, []float64{-1, -1, -1, -1}), 1, 1)
	require.NoError(t, err)

	require.Len(t, notes, 2)
	assert.Equal(t, 440.0, notes[0].Pitch)
	assert.Equal(t, 2.0, notes[0].Duration)
	assert.Equal(t, 470.0, notes[1].Pitch)
	assert.Equal(t, 2.0, notes[1].Duration)
}

func TestBuildThresholdBoundary(t *testing.T) {
	octave := slots([]float64{440, 880}, []float64{-1, -1})

	notes, err := Build(octave, 12, 1)
	require.NoError(t, err)
	assert.Len(t, notes, 2, "distance equal to threshold splits")

	notes, err = Build(octave, 12+1e-9, 1)
	require.NoError(t, err)
	assert.Len(t, notes, 1, "distance just under threshold merges")
}

func TestBuildConservesDuration(t *testing.T) {
	freqs := []float64{100, 101, 300, 1, 1, 1, 700, 710, 720, 100, 1000}
	dbs := make([]float64, len(freqs))

	for _, threshold := range []float64{0.5, 1, 2, 12, 100} {
		notes, err := Build(slots(freqs, dbs), threshold, 1)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(notes), 1)
		assert.Equal(t, float64(len(freqs)), totalDuration(notes), "threshold %v", threshold)
	}
}

func TestBuildSilentVoice(t *testing.T) {
	notes, err := Build(slots([]float64{1, 1, 1}, []float64{-80, -80, -80}), 2, 0.25)
	require.NoError(t, err)

	require.Len(t, notes, 1)
	assert.Equal(t, model.Note{Pitch: 1, Duration: 0.75, Velocity: 0}, notes[0])
}

func TestBuildEmpty(t *testing.T) {
	notes, err := Build(nil, 1, 1)
	assert.NoError(t, err)
	assert.Empty(t, notes)
}

func TestBuildRejectsBadInput(t *testing.T) {
	good := slots([]float64{440}, []float64{-1})

	_, err := Build(good, 0, 1)
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))

	_, err = Build(good, 1, -1)
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))

	for _, f := range []float64{0, -440, math.NaN(), math.Inf(1)} {
		_, err = Build(slots([]float64{440, f}, []float64{-1, -1}), 1, 1)
		assert.True(t, errors.Is(err, ErrInvalidFrequency), "freq %v", f)
	}
}

func TestVoicesAlignByRank(t *testing.T) {
	frames := []model.FramePeaks{
		{Pitches: []float64{440, 220}, Intensities: []float64{-1, -2}},
		{Pitches: []float64{441, 1}, Intensities: []float64{-3, -80}},
	}

	voices := Voices(frames, 2)

	assert := assert.New(t)
	require.Len(t, voices, 2)
	assert.Equal([]model.Slot{{Frequency: 440, Intensity: -1}, {Frequency: 441, Intensity: -3}}, voices[0])
	assert.Equal([]model.Slot{{Frequency: 220, Intensity: -2}, {Frequency: 1, Intensity: -80}}, voices[1])
}

func TestVoicesWithoutFrames(t *testing.T) {
	voices := Voices(nil, 3)
	require.Len(t, voices, 3)
	for _, v := range voices {
		assert.Empty(t, v)
	}
}
