package gemini

import (
	"encoding/base64"
	"encoding/binary"
	"strings"
	"testing"
)

func TestNormalizeAudioWrapsPCM(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	encoded := base64.StdEncoding.EncodeToString(pcm)

	mime, data, err := normalizeAudio("audio/L16;codec=pcm;rate=24000", encoded)
	if err != nil {
		t.Fatalf("normalizeAudio: %v", err)
	}
	if mime != "audio/wav" {
		t.Fatalf("expected audio/wav, got %q", mime)
	}

	wav, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		t.Fatalf("decode wav: %v", err)
	}
	if !strings.HasPrefix(string(wav), "RIFF") || string(wav[8:12]) != "WAVE" {
		t.Fatal("output is not a RIFF/WAVE file")
	}
	if rate := binary.LittleEndian.Uint32(wav[24:28]); rate != 24000 {
		t.Fatalf("expected 24000Hz in header, got %d", rate)
	}
	if size := binary.LittleEndian.Uint32(wav[40:44]); int(size) != len(pcm) {
		t.Fatalf("data chunk size %d, want %d", size, len(pcm))
	}
	if string(wav[44:]) != string(pcm) {
		t.Fatal("pcm samples must follow the header unchanged")
	}
}

func TestNormalizeAudioPassThrough(t *testing.T) {
	mime, data, err := normalizeAudio("audio/mpeg", "bm90LXBjbQ==")
	if err != nil {
		t.Fatalf("normalizeAudio: %v", err)
	}
	if mime != "audio/mpeg" || data != "bm90LXBjbQ==" {
		t.Fatal("containerized audio must pass through untouched")
	}
}

func TestPCMRateDefaults(t *testing.T) {
	if got := pcmRate("audio/L16;codec=pcm;rate=16000"); got != 16000 {
		t.Fatalf("expected 16000, got %d", got)
	}
	if got := pcmRate("audio/L16;codec=pcm"); got != defaultSampleRate {
		t.Fatalf("expected default rate, got %d", got)
	}
}
