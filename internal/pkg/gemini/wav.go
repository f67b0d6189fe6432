package gemini

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// The TTS models emit raw 16-bit mono PCM at this rate unless the mime type
// says otherwise.
const defaultSampleRate = 24000

// normalizeAudio converts raw PCM speech output into a playable WAV file.
// Audio that already carries a container format passes through untouched.
func normalizeAudio(mimeType, data string) (string, string, error) {
	if !isPCM(mimeType) {
		return mimeType, data, nil
	}
	pcm, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", "", fmt.Errorf("decode pcm audio: %w", err)
	}
	wav := wavFromPCM(pcm, pcmRate(mimeType), 1, 16)
	return "audio/wav", base64.StdEncoding.EncodeToString(wav), nil
}

func isPCM(mimeType string) bool {
	return strings.HasPrefix(mimeType, "audio/L16") || strings.Contains(mimeType, "pcm")
}

// pcmRate reads the rate parameter from a mime type such as
// "audio/L16;codec=pcm;rate=24000".
func pcmRate(mimeType string) int {
	for _, param := range strings.Split(mimeType, ";") {
		v, ok := strings.CutPrefix(strings.TrimSpace(param), "rate=")
		if !ok {
			continue
		}
		if rate, err := strconv.Atoi(v); err == nil && rate > 0 {
			return rate
		}
	}
	return defaultSampleRate
}

// wavFromPCM wraps little-endian PCM samples in a RIFF/WAVE header.
func wavFromPCM(pcm []byte, sampleRate, channels, bitsPerSample int) []byte {
	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	buf := make([]byte, 0, 44+len(pcm))
	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+len(pcm)))
	buf = append(buf, "WAVE"...)
	buf = append(buf, "fmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1) // PCM format
	buf = binary.LittleEndian.AppendUint16(buf, uint16(channels))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(byteRate))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(blockAlign))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(bitsPerSample))
	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(pcm)))
	return append(buf, pcm...)
}
