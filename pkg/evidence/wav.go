// Package evidence prepares captured media for storage: webcam frames
// are normalized to JPEG, audio segments are wrapped as WAV files, and
// per-event retention caps are enforced by the backing store.
package evidence

import (
	"bytes"
	"encoding/binary"
)

// Recording format of the browser audio feeds.
const (
	DefaultChannels       = 1
	DefaultBytesPerSample = 2
	DefaultSampleRate     = 48000
)

// Wrap produces a playable WAV file from raw PCM. The sample bytes are
// carried through untouched after the 44-byte header.
func Wrap(pcm []byte, channels, bytesPerSample, sampleRate int) []byte {
	blockAlign := channels * bytesPerSample
	byteRate := sampleRate * blockAlign
	bitsPerSample := bytesPerSample * 8

	var buf bytes.Buffer
	buf.Grow(44 + len(pcm))

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16)) // PCM fmt chunk size
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // PCM format
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}

// WrapDefault wraps PCM in the platform's recording format.
func WrapDefault(pcm []byte) []byte {
	return Wrap(pcm, DefaultChannels, DefaultBytesPerSample, DefaultSampleRate)
}
