package midi

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidi(r io.Reader) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if p := recover(); p != nil {
			s, e = nil, errors.Errorf("parsing midi: %v", p)
		}
	}()

	res, err := smf.ReadFrom(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing midi")
	}
	return res, nil
}

func ReadMidiFile(path string) (*smf.SMF, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading midi file")
	}
	s, err := ReadMidi(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("midi file %s", path))
	}
	return s, nil
}
