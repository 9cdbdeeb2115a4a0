package audio

import (
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

var ErrInvalidWav = errors.New("invalid wav file")

const (
	formatPCM        = 1
	formatFloat      = 3
	formatExtensible = 0xFFFE
)

// ReadMono decodes a PCM or 32 bit float wav file and returns its first
// channel scaled to [-1, 1] along with the sample rate. Other channels are
// ignored.
func ReadMono(r io.ReadSeeker) ([]float64, int, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, 0, errors.Wrap(ErrInvalidWav, "missing RIFF/WAVE header")
	}
	sample, err := sampleReader(d.WavAudioFormat, d.BitDepth)
	if err != nil {
		return nil, 0, err
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, errors.Wrapf(ErrInvalidWav, "decoding pcm: %v", err)
	}
	channels := int(d.NumChans)
	if channels < 1 {
		return nil, 0, errors.Wrapf(ErrInvalidWav, "%d channels", channels)
	}

	n := len(buf.Data) / channels
	res := make([]float64, n)
	for i := 0; i < n; i++ {
		res[i] = sample(buf.Data[i*channels])
	}
	return res, int(d.SampleRate), nil
}

// sampleReader maps a decoded value to [-1, 1]. The decoder hands back 8 bit
// samples unsigned and float samples as their raw bits.
func sampleReader(format, bitDepth uint16) (func(int) float64, error) {
	switch format {
	case formatPCM, formatExtensible:
		if bitDepth == 0 || bitDepth > 32 {
			return nil, errors.Wrapf(ErrInvalidWav, "unsupported pcm bit depth %d", bitDepth)
		}
		scale := math.Pow(2, float64(bitDepth-1))
		if bitDepth == 8 {
			return func(v int) float64 { return float64(v-128) / scale }, nil
		}
		return func(v int) float64 { return float64(v) / scale }, nil
	case formatFloat:
		if bitDepth != 32 {
			return nil, errors.Wrapf(ErrInvalidWav, "unsupported float bit depth %d", bitDepth)
		}
		return func(v int) float64 {
			return float64(math.Float32frombits(uint32(int32(v))))
		}, nil
	}
	return nil, errors.Wrapf(ErrInvalidWav, "unsupported audio format %d", format)
}

func ReadMonoFile(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, errors.Wrap(err, "opening wav")
	}
	defer f.Close()
	return ReadMono(f)
}

// WriteMono encodes samples in [-1, 1] as a 16 bit mono wav.
func WriteMono(w io.WriteSeeker, samples []float64, sampleRate int) error {
	const bitDepth = 16
	enc := wav.NewEncoder(w, sampleRate, bitDepth, 1, 1)

	scale := math.Pow(2, bitDepth-1) - 1
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(math.Round(math.Max(-1, math.Min(1, s)) * scale))
	}
	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return errors.Wrap(err, "writing wav")
	}
	return enc.Close()
}

func WriteMonoFile(path string, samples []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating wav")
	}
	defer f.Close()
	return WriteMono(f, samples, sampleRate)
}
