package midi

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/jsphweid/wav2midi/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func example() *model.Transcription {
	return &model.Transcription{
		Frames: 4,
		Voices: [][]model.Note{
			{
				{Pitch: 440, Duration: 0.5, Velocity: 77},
				{Pitch: 1, Duration: 0.25, Velocity: 0},
				{Pitch: 880, Duration: 0.25, Velocity: 90},
			},
			{
				{Pitch: 1, Duration: 1, Velocity: 0},
			},
		},
	}
}

func TestWriteThenReadNotes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, example(), 1500))

	s, err := ReadMidi(&buf)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Len(s.Tracks, 3)

	tracks := ReadNotes(s)
	require.Len(t, tracks, 1)
	assert.Equal(1, tracks[0].Track)
	assert.Equal([]model.PlayedNote{
		{Channel: 0, Key: 69, Velocity: 77, Start: 0, Duration: 480},
		{Channel: 0, Key: 81, Velocity: 90, Start: 720, Duration: 240},
	}, tracks[0].Notes)
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.mid")
	require.NoError(t, WriteFile(path, example(), 120))

	s, err := ReadMidiFile(path)
	require.NoError(t, err)
	assert.Len(t, ReadNotes(s), 1)
}

func TestChannelSkipsDrums(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(uint8(0), Channel(0))
	assert.Equal(uint8(8), Channel(8))
	assert.Equal(uint8(10), Channel(9))
	assert.Equal(uint8(15), Channel(14))
	assert.Equal(uint8(0), Channel(15))
}

func TestReadMidiRejectsGarbage(t *testing.T) {
	_, err := ReadMidi(bytes.NewReader([]byte("RIFF not midi at all")))
	assert.Error(t, err)
}

func TestReadMidiFileMissing(t *testing.T) {
	_, err := ReadMidiFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.Error(t, err)
}
