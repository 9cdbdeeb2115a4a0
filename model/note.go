package model

// Note is a finalized symbolic event. Duration is in quarter lengths.
type Note struct {
	Pitch    float64 `json:"pitch"`
	Duration float64 `json:"duration"`
	Velocity int     `json:"velocity"`
}

func (n Note) Silent() bool {
	return n.Velocity == 0
}

type Transcription struct {
	Voices [][]Note
	Frames int
}

func (t *Transcription) NumNotes() int {
	var total int
	for _, v := range t.Voices {
		total += len(v)
	}
	return total
}

// Summary is what is kept of a transcription once it has been exported.
type Summary struct {
	Voices int
	Notes  int
	Frames int
}

func (t *Transcription) Summary() Summary {
	return Summary{Voices: len(t.Voices), Notes: t.NumNotes(), Frames: t.Frames}
}

// PlayedNote is a note read back from a MIDI track, in ticks.
type PlayedNote struct {
	Channel  uint8
	Key      uint8
	Velocity uint8
	Start    uint64
	Duration uint64
}

type TrackNotes struct {
	Track int
	Notes []PlayedNote
}
