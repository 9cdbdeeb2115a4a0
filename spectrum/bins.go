package spectrum

import "math"

// FrequencyTable resolves a spectrogram row to its center frequency in Hz.
type FrequencyTable interface {
	Frequency(bin int) float64
	Len() int
}

// Bins is the table of an FFT of a given size: bin i sits at i*sr/n.
type Bins []float64

func NewBins(sampleRate, windowSize int) Bins {
	res := make(Bins, windowSize/2+1)
	for i := range res {
		res[i] = float64(i) * float64(sampleRate) / float64(windowSize)
	}
	return res
}

func (b Bins) Frequency(bin int) float64 {
	return b[bin]
}

func (b Bins) Len() int {
	return len(b)
}

// SameBins reports whether two tables resolve every bin to the same
// frequency.
func SameBins(a, b FrequencyTable) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if math.Abs(a.Frequency(i)-b.Frequency(i)) > 1e-9 {
			return false
		}
	}
	return true
}
