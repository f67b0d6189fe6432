package generation

import "errors"

var (
	// ErrInvalidVoice is returned when the requested TTS voice is not offered
	ErrInvalidVoice = errors.New("invalid voice")

	// ErrTextTooLong is returned when TTS input exceeds the character limit
	ErrTextTooLong = errors.New("text exceeds the character limit")

	// ErrNoVideoURI is returned when a finished video operation carries no
	// download link
	ErrNoVideoURI = errors.New("video generation completed, but no download link was found")
)
