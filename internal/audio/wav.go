package audio

import (
	"bytes"
	"encoding/binary"
)

// WAV framing constants for generated speech: single channel, 16-bit
// samples at 24000 Hz, matching both TTS providers.
const (
	SampleRate    = 24000
	NumChannels   = 1
	BitsPerSample = 16
)

// WrapPCM frames raw PCM samples as a playable WAV file.
func WrapPCM(pcm []byte) []byte {
	var buf bytes.Buffer

	byteRate := SampleRate * NumChannels * BitsPerSample / 8
	blockAlign := NumChannels * BitsPerSample / 8

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM format
	binary.Write(&buf, binary.LittleEndian, uint16(NumChannels))
	binary.Write(&buf, binary.LittleEndian, uint32(SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(BitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}
