package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestValidateEmpty(t *testing.T) {
	err := AnalysisRequest{}.Validate()
	assert.ErrorIs(t, err, ErrEmptyRequest)

	err = AnalysisRequest{Transcript: "   "}.Validate()
	assert.ErrorIs(t, err, ErrEmptyRequest)
}

func TestRequestValidateAcceptsAnyInput(t *testing.T) {
	assert.NoError(t, AnalysisRequest{Transcript: "hello"}.Validate())
	assert.NoError(t, AnalysisRequest{Metadata: &VideoMetadata{Title: "a title"}}.Validate())
	assert.NoError(t, AnalysisRequest{VideoAssetURL: "https://cdn.example.com/v.mp4"}.Validate())
}

func TestContentTextPrefersTranscript(t *testing.T) {
	r := AnalysisRequest{
		Transcript: "the transcript",
		Metadata:   &VideoMetadata{Title: "title", Description: "desc"},
	}
	assert.Equal(t, "the transcript", r.ContentText())
}

func TestContentTextFallsBackToMetadata(t *testing.T) {
	r := AnalysisRequest{Metadata: &VideoMetadata{Title: "title", Description: "desc"}}
	assert.Equal(t, "title\ndesc", r.ContentText())

	r = AnalysisRequest{Metadata: &VideoMetadata{Description: "desc only"}}
	assert.Equal(t, "desc only", r.ContentText())
}

func TestContentTextPlaceholderWhenNothingUsable(t *testing.T) {
	r := AnalysisRequest{VideoAssetURL: "https://cdn.example.com/v.mp4"}
	assert.Equal(t, PlaceholderContent, r.ContentText())
}
