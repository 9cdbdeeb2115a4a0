package note

import (
	"fmt"
	"math"

	"github.com/jsphweid/wav2midi/constants"
	"github.com/jsphweid/wav2midi/model"
	"github.com/jsphweid/wav2midi/util"
)

var names = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Make builds a note lasting units grid steps of unit quarter lengths each.
// The silence sentinel is not special cased: it simply ends up muted.
func Make(freq float64, units int, unit float64, velocity int) model.Note {
	return model.Note{
		Pitch:    freq,
		Duration: float64(units) * unit,
		Velocity: util.Clamp(velocity, 0, constants.MaxVelocity),
	}
}

// Key returns the nearest equal tempered MIDI key and what is left over,
// in semitones.
func Key(freq float64) (uint8, float64) {
	exact := 69 + 12*math.Log2(freq/440)
	key := util.Clamp(math.Round(exact), 0, 127)
	return uint8(key), exact - key
}

func Name(key uint8) string {
	return fmt.Sprintf("%s%d", names[key%12], int(key)/12-1)
}
