// Package media decides which audio formats the speech-to-text API accepts
// and converts the rest with ffmpeg.
package media

import "strings"

// TargetFormat is what unsupported audio is converted to.
const TargetFormat = "ogg"

// supported lists the MIME types the transcription endpoint accepts as-is.
var supported = map[string]bool{
	"audio/flac": true,
	"audio/m4a":  true,
	"audio/mp3":  true,
	"audio/mpeg": true,
	"audio/mpga": true,
	"audio/oga":  true,
	"audio/ogg":  true,
	"audio/wav":  true,
	"audio/webm": true,
	"video/mp4":  true,
	"video/webm": true,
}

// IsSupported reports whether mime can be sent for transcription without
// conversion. Parameters such as "; codecs=opus" are ignored.
func IsSupported(mime string) bool {
	return supported[baseType(mime)]
}

// Subtype returns the part after the slash, e.g. "x-m4a" for "audio/x-m4a".
// It is used both as the ffmpeg input extension and the upload file extension.
func Subtype(mime string) string {
	base := baseType(mime)
	_, sub, ok := strings.Cut(base, "/")
	if !ok {
		return ""
	}
	return sanitizeExt(sub)
}

func baseType(mime string) string {
	mime, _, _ = strings.Cut(mime, ";")
	return strings.ToLower(strings.TrimSpace(mime))
}

// sanitizeExt keeps characters that are safe in a file name.
func sanitizeExt(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '+', r == '.':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), ".")
}
