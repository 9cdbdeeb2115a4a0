package model

type Peak struct {
	Bin       int
	Intensity float64
}

// FramePeaks holds one frame's voice slots, loudest first.
type FramePeaks struct {
	Pitches     []float64
	Intensities []float64
}

type Slot struct {
	Frequency float64
	Intensity float64
}
