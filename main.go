package main

import "github.com/jsphweid/wav2midi/cmd"

func main() {
	cmd.Execute()
}
