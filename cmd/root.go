package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wav2midi",
	Short: "Turns a recording into a polyphonic MIDI file",
	Long: `Turns a recording into a polyphonic MIDI file by tracking the
loudest spectral peaks of every frame and holding them as notes.`,
	SilenceUsage: true,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
