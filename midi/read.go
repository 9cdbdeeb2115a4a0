package midi

import (
	"github.com/jsphweid/wav2midi/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ReadNotes pairs note on and off events per track. Tracks without notes
// are skipped.
func ReadNotes(s *smf.SMF) []model.TrackNotes {
	var res []model.TrackNotes
	for i, events := range s.Tracks {
		var absTicks uint64
		pressed := make(map[[2]uint8]model.PlayedNote)
		var notes []model.PlayedNote
		for _, event := range events {
			absTicks += uint64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
				pressed[[2]uint8{channel, key}] = model.PlayedNote{
					Channel:  channel,
					Key:      key,
					Velocity: velocity,
					Start:    absTicks,
				}
			case event.Message.GetNoteOff(&channel, &key, &velocity),
				event.Message.GetNoteOn(&channel, &key, &velocity):
				id := [2]uint8{channel, key}
				if n, ok := pressed[id]; ok {
					n.Duration = absTicks - n.Start
					notes = append(notes, n)
					delete(pressed, id)
				}
			}
		}
		if len(notes) > 0 {
			res = append(res, model.TrackNotes{Track: i, Notes: notes})
		}
	}
	return res
}
