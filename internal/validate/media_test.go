// SPDX-License-Identifier: MIT

package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaVideoRules(t *testing.T) {
	tests := []struct {
		name string
		file MediaFile
		want Violation // empty means valid
	}{
		{
			name: "small mp4 accepted",
			file: MediaFile{Name: "clip.mp4", Size: 10 << 20, ContentType: "video/mp4"},
		},
		{
			name: "exactly at the limit accepted",
			file: MediaFile{Name: "max.webm", Size: MaxVideoBytes, ContentType: "video/webm"},
		},
		{
			name: "one byte over rejected",
			file: MediaFile{Name: "big.mp4", Size: MaxVideoBytes + 1, ContentType: "video/mp4"},
			want: ViolationTooLarge,
		},
		{
			name: "oversized unknown type reports size first",
			file: MediaFile{Name: "big.mkv", Size: MaxVideoBytes + 1, ContentType: "video/x-matroska"},
			want: ViolationTooLarge,
		},
		{
			name: "matroska rejected regardless of size",
			file: MediaFile{Name: "clip.mkv", Size: 1 << 20, ContentType: "video/x-matroska"},
			want: ViolationUnsupportedType,
		},
		{
			name: "audio type rejected as video",
			file: MediaFile{Name: "song.mp3", Size: 1 << 20, ContentType: "audio/mpeg"},
			want: ViolationUnsupportedType,
		},
		{
			name: "quicktime accepted",
			file: MediaFile{Name: "clip.mov", Size: 1 << 20, ContentType: "video/quicktime"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Media(tt.file, KindVideo)
			if tt.want == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, tt.want, err.Violation)
			assert.NotEmpty(t, err.Message)
		})
	}
}

func TestMediaAudioRules(t *testing.T) {
	ok := Media(MediaFile{Name: "voice.wav", Size: 5 << 20, ContentType: "audio/wav"}, KindAudio)
	assert.Nil(t, ok)

	tooBig := Media(MediaFile{Name: "voice.wav", Size: MaxAudioBytes + 1, ContentType: "audio/wav"}, KindAudio)
	require.NotNil(t, tooBig)
	assert.Equal(t, ViolationTooLarge, tooBig.Violation)
	assert.Equal(t, "File too large. Maximum size is 50MB", tooBig.Message)

	wrongType := Media(MediaFile{Name: "voice.flac", Size: 1 << 20, ContentType: "audio/flac"}, KindAudio)
	require.NotNil(t, wrongType)
	assert.Equal(t, ViolationUnsupportedType, wrongType.Violation)
}

func TestValidatorAccumulates(t *testing.T) {
	v := New()
	v.URL("BaseURL", "not a url", []string{"http", "https"})
	v.NotEmpty("TargetLanguage", "  ")
	v.Positive("PollIntervalMS", 0)

	require.False(t, v.IsValid())
	err := v.Err()
	require.Error(t, err)

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors(), 3)
}

func TestValidatorValid(t *testing.T) {
	v := New()
	v.URL("BaseURL", "http://localhost:8000", []string{"http", "https"})
	v.NotEmpty("TargetLanguage", "hi")
	v.Range("LogBuffer", 8, 1, 64)

	assert.True(t, v.IsValid())
	assert.NoError(t, v.Err())
}
