// SPDX-License-Identifier: MIT

package validate

// MediaKind selects the validation rule set for an upload.
type MediaKind string

const (
	// KindVideo is the main media file of a translation request.
	KindVideo MediaKind = "video"

	// KindAudio is the optional voice sample accompanying a request.
	KindAudio MediaKind = "audio"
)

// Violation identifies why a media file was rejected.
type Violation string

const (
	ViolationTooLarge        Violation = "too_large"
	ViolationUnsupportedType Violation = "unsupported_type"
)

// Upload size limits.
const (
	MaxVideoBytes = 500 << 20 // 500 MiB
	MaxAudioBytes = 50 << 20  // 50 MiB
)

var videoTypes = map[string]bool{
	"video/mp4":       true,
	"video/mpeg":      true,
	"video/quicktime": true,
	"video/x-msvideo": true,
	"video/webm":      true,
}

var audioTypes = map[string]bool{
	"audio/mpeg":  true,
	"audio/wav":   true,
	"audio/mp3":   true,
	"audio/x-m4a": true,
	"audio/ogg":   true,
}

// MediaFile describes a user-selected file by its declared properties only.
// Validation never inspects content.
type MediaFile struct {
	Name        string
	Size        int64
	ContentType string
}

// MediaError reports a failed media validation. The message is shown to the
// user verbatim.
type MediaError struct {
	Violation Violation
	Message   string
}

func (e *MediaError) Error() string {
	return e.Message
}

// Media checks a file against the size and type constraints for its kind.
// It returns nil when the file is acceptable. Size is checked before type so
// an oversized file of an unknown type reports too_large, matching the order
// users see the limits advertised.
func Media(f MediaFile, kind MediaKind) *MediaError {
	maxSize := int64(MaxVideoBytes)
	if kind == KindAudio {
		maxSize = MaxAudioBytes
	}
	if f.Size > maxSize {
		limit := "500MB"
		if kind == KindAudio {
			limit = "50MB"
		}
		return &MediaError{
			Violation: ViolationTooLarge,
			Message:   "File too large. Maximum size is " + limit,
		}
	}

	switch kind {
	case KindVideo:
		if !videoTypes[f.ContentType] {
			return &MediaError{
				Violation: ViolationUnsupportedType,
				Message:   "Invalid video format. Please upload MP4, MOV, AVI, or WebM",
			}
		}
	case KindAudio:
		if !audioTypes[f.ContentType] {
			return &MediaError{
				Violation: ViolationUnsupportedType,
				Message:   "Invalid audio format. Please upload MP3, WAV, or M4A",
			}
		}
	}

	return nil
}
