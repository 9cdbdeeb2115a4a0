package midi

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/jsphweid/wav2midi/constants"
	"github.com/jsphweid/wav2midi/model"
	"github.com/jsphweid/wav2midi/note"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const drumChannel = 9

// Channel spreads voices over the melodic channels.
func Channel(voice int) uint8 {
	ch := uint8(voice % 15)
	if ch >= drumChannel {
		ch++
	}
	return ch
}

func ticks(quarters float64) uint32 {
	return uint32(math.Round(quarters * constants.TicksPerQuarter))
}

// Build lays out one track per voice after a tempo track. Muted notes
// become rests.
func Build(t *model.Transcription, tempo float64) (*smf.SMF, error) {
	res := smf.New()
	res.TimeFormat = smf.MetricTicks(constants.TicksPerQuarter)

	var conductor smf.Track
	conductor.Add(0, smf.MetaTempo(tempo))
	conductor.Close(0)
	if err := res.Add(conductor); err != nil {
		return nil, errors.Wrap(err, "adding tempo track")
	}

	for v, notes := range t.Voices {
		var track smf.Track
		track.Add(0, smf.MetaTrackSequenceName(fmt.Sprintf("voice %d", v)))
		ch := Channel(v)

		var rest uint32
		for _, n := range notes {
			length := ticks(n.Duration)
			if n.Silent() {
				rest += length
				continue
			}
			key, _ := note.Key(n.Pitch)
			track.Add(rest, gomidi.NoteOn(ch, key, uint8(n.Velocity)))
			track.Add(length, gomidi.NoteOff(ch, key))
			rest = 0
		}
		track.Close(rest)
		if err := res.Add(track); err != nil {
			return nil, errors.Wrapf(err, "adding voice %d", v)
		}
	}
	return res, nil
}

func Write(w io.Writer, t *model.Transcription, tempo float64) error {
	s, err := Build(t, tempo)
	if err != nil {
		return err
	}
	_, err = s.WriteTo(w)
	return errors.Wrap(err, "writing midi")
}

func WriteFile(path string, t *model.Transcription, tempo float64) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating midi file")
	}
	defer f.Close()
	return Write(f, t, tempo)
}
