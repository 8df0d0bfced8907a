// Package audio normalizes uploaded clips into the 16 kHz mono PCM16 WAV
// layout the recognition backends expect.
package audio

import (
	"bytes"
	"encoding/binary"
)

const (
	targetSampleRate = 16000
	pcmFormat        = 1
)

// Normalize rewrites a PCM16 WAV payload as 16 kHz mono. Payloads that are
// not parseable WAV, or use an unsupported encoding, are returned unchanged
// so the backend can still attempt recognition.
func Normalize(data []byte) []byte {
	format, samples, ok := decode(data)
	if !ok {
		return data
	}

	mono := downmix(samples, int(format.numChannels))
	resampled := resample(mono, int(format.sampleRate), targetSampleRate)

	return encode(resampled, targetSampleRate)
}

type wavFormat struct {
	audioFormat   uint16
	numChannels   uint16
	sampleRate    uint32
	bitsPerSample uint16
}

func decode(data []byte) (wavFormat, []int16, bool) {
	var format wavFormat

	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return format, nil, false
	}

	var pcm []byte
	haveFmt := false
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return format, nil, false
			}
			format.audioFormat = binary.LittleEndian.Uint16(data[body : body+2])
			format.numChannels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			format.sampleRate = binary.LittleEndian.Uint32(data[body+4 : body+8])
			format.bitsPerSample = binary.LittleEndian.Uint16(data[body+14 : body+16])
			haveFmt = true
		case "data":
			pcm = data[body : body+chunkSize]
		}

		// Chunks are word-aligned
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if !haveFmt || pcm == nil {
		return format, nil, false
	}
	if format.audioFormat != pcmFormat || format.bitsPerSample != 16 ||
		format.numChannels == 0 || format.sampleRate == 0 {
		return format, nil, false
	}

	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2]))
	}

	return format, samples, true
}

func downmix(samples []int16, channels int) []int16 {
	if channels <= 1 {
		return samples
	}

	frames := len(samples) / channels
	mono := make([]int16, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += int(samples[i*channels+c])
		}
		mono[i] = int16(sum / channels)
	}
	return mono
}

func resample(samples []int16, from, to int) []int16 {
	if from == to || len(samples) == 0 {
		return samples
	}

	outLen := int(int64(len(samples)) * int64(to) / int64(from))
	if outLen == 0 {
		return samples
	}

	out := make([]int16, outLen)
	for i := range out {
		pos := float64(i) * float64(from) / float64(to)
		idx := int(pos)
		if idx >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(idx)
		a := float64(samples[idx])
		b := float64(samples[idx+1])
		out[i] = int16(a + (b-a)*frac)
	}
	return out
}

func encode(samples []int16, sampleRate int) []byte {
	dataSize := len(samples) * 2
	buf := &bytes.Buffer{}

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(pcmFormat))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(buf, binary.LittleEndian, uint16(2))
	binary.Write(buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	for _, s := range samples {
		binary.Write(buf, binary.LittleEndian, uint16(s))
	}

	return buf.Bytes()
}
