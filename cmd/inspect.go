package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/wav2midi/midi"
	"github.com/jsphweid/wav2midi/model"
	"github.com/jsphweid/wav2midi/note"
	"github.com/jsphweid/wav2midi/util"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/smf"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Lists the notes of a MIDI file",
	Long:  `Lists the notes of every track of a MIDI file, e.g. one written by transcribe.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := midi.ReadMidiFile(args[0])
		if err != nil {
			return err
		}
		inspect(os.Stdout, s)
		return nil
	},
}

func inspect(w io.Writer, s *smf.SMF) {
	tracks := midi.ReadNotes(s)
	fmt.Fprintf(w, "tracks: %v, with notes: %v\n", len(s.Tracks), len(tracks))
	for _, track := range tracks {
		fmt.Fprintf(w, "track %v: %v notes, %v ticks sounding\n", track.Track, len(track.Notes), soundingTicks(track.Notes))
		for _, n := range track.Notes {
			fmt.Fprintf(w, "  %-4v key %3v  ch %2v  start %6v  len %5v  vel %3v\n",
				note.Name(n.Key), n.Key, n.Channel, n.Start, n.Duration, n.Velocity)
		}
	}
}

func soundingTicks(notes []model.PlayedNote) uint64 {
	lengths := make([]uint64, len(notes))
	for i, n := range notes {
		lengths[i] = n.Duration
	}
	return util.Sum(lengths)
}
