package constants

import (
	"os"
	"path/filepath"
)

func GetOutDir() string {
	path := os.Getenv("OUT_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

func GetCacheDir() string {
	path := os.Getenv("CACHE_PATH")
	if path != "" {
		return path
	}
	return filepath.Join(GetOutDir(), "cache")
}

// empty means the catalog is disabled
func GetDynamoEndpoint() string {
	return os.Getenv("DYNAMODB_ENDPOINT")
}

func GetDynamoTable() string {
	table := os.Getenv("DYNAMODB_TABLE")
	if table != "" {
		return table
	}
	return "wav2midi-transcriptions"
}

// analysis convention, matches the frequency table
const (
	SampleRate = 48000
	WindowSize = 4096
	HopSize    = 512
)

const (
	FloorDB  = -80.0
	MurmurDB = -60.0

	// 6 = 70 Hz, 172 = 2015 Hz at 48000/4096
	LowBinCutoff  = 6
	HighBinCutoff = 172

	SmoothWindow = 9
	SmoothOrder  = 3

	// no reliable neighborhood this close to the band edges
	PeakMargin = 2

	SilenceHz = 1.0
)

const (
	VelocityFloor = 32
	MaxVelocity   = 127
)

const (
	DefaultPeaks   = 12
	DefaultKeyDiff = 2.0

	// quarter lengths per frame, i.e. a 16th note
	UnitDuration = 0.25
	DefaultTempo = 1500.0

	TicksPerQuarter = 960
)
