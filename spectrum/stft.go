package spectrum

import (
	"math"
	"math/cmplx"

	"github.com/jsphweid/wav2midi/constants"
	"github.com/mjibson/go-dsp/window"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	amin = 1e-5
	// dynamic range kept below the loudest bin
	topDB = 80.0
)

// Spectrogram is time-major: Frames[t][bin].
type Spectrogram struct {
	Frames [][]float64
	Table  FrequencyTable
}

// STFT returns magnitudes of centered, zero-padded Hann frames.
func STFT(samples []float64, n, hop int) ([][]float64, error) {
	if n <= 0 || hop <= 0 {
		return nil, errors.Errorf("stft window and hop must be positive, got %d and %d", n, hop)
	}

	padded := make([]float64, len(samples)+n)
	copy(padded[n/2:], samples)

	// periodic hann
	win := window.Hann(n + 1)[:n]
	fft := fourier.NewFFT(n)

	frames := 1 + (len(padded)-n)/hop
	res := make([][]float64, frames)
	buf := make([]float64, n)
	coeffs := make([]complex128, n/2+1)
	for i := 0; i < frames; i++ {
		start := i * hop
		for k := 0; k < n; k++ {
			buf[k] = padded[start+k] * win[k]
		}
		coeffs = fft.Coefficients(coeffs, buf)
		mags := make([]float64, len(coeffs))
		for f, c := range coeffs {
			mags[f] = cmplx.Abs(c)
		}
		res[i] = mags
	}
	return res, nil
}

// AmplitudeToDB converts magnitudes to dB relative to the loudest value,
// clipped to topDB below it. A grid with no energy is all floor.
func AmplitudeToDB(mags [][]float64) [][]float64 {
	var ref float64
	for _, frame := range mags {
		for _, v := range frame {
			ref = math.Max(ref, v)
		}
	}

	res := make([][]float64, len(mags))
	for t, frame := range mags {
		out := make([]float64, len(frame))
		for f, v := range frame {
			if ref < amin {
				out[f] = constants.FloorDB
				continue
			}
			db := 20 * (math.Log10(math.Max(amin, v)) - math.Log10(ref))
			out[f] = math.Max(db, -topDB)
		}
		res[t] = out
	}
	return res
}

// Analyze runs the STFT and dB conversion with the default convention.
func Analyze(samples []float64, sampleRate int) (Spectrogram, error) {
	if sampleRate <= 0 {
		return Spectrogram{}, errors.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	mags, err := STFT(samples, constants.WindowSize, constants.HopSize)
	if err != nil {
		return Spectrogram{}, err
	}
	return Spectrogram{
		Frames: AmplitudeToDB(mags),
		Table:  NewBins(sampleRate, constants.WindowSize),
	}, nil
}
