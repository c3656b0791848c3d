package analysis

import (
	"errors"
	"strings"
)

// ErrEmptyRequest: request carries no transcript, no metadata, and no asset.
// This is the only condition that fails a pipeline run outright.
var ErrEmptyRequest = errors.New("analysis request has no content")

// PlaceholderContent is analyzed when a request carries an asset reference
// but no usable text at all.
const PlaceholderContent = "No transcript or metadata available for this video."

// AnalysisRequest is the immutable input of one pipeline run.
type AnalysisRequest struct {
	Transcript     string         `json:"transcript,omitempty"`
	VideoAssetURL  string         `json:"video_asset_url,omitempty"`
	Metadata       *VideoMetadata `json:"metadata,omitempty"`
	ChannelContext map[string]any `json:"channel_context,omitempty"`
}

// Validate memastikan request punya sesuatu untuk dianalisis.
func (r AnalysisRequest) Validate() error {
	if strings.TrimSpace(r.Transcript) != "" {
		return nil
	}
	if r.Metadata != nil && (strings.TrimSpace(r.Metadata.Title) != "" || strings.TrimSpace(r.Metadata.Description) != "") {
		return nil
	}
	if strings.TrimSpace(r.VideoAssetURL) != "" {
		return nil
	}
	return ErrEmptyRequest
}

// ContentText derives the text-only content string: transcript, else
// title + description, else a placeholder notice.
func (r AnalysisRequest) ContentText() string {
	if t := strings.TrimSpace(r.Transcript); t != "" {
		return t
	}
	if r.Metadata != nil {
		parts := make([]string, 0, 2)
		if s := strings.TrimSpace(r.Metadata.Title); s != "" {
			parts = append(parts, s)
		}
		if s := strings.TrimSpace(r.Metadata.Description); s != "" {
			parts = append(parts, s)
		}
		if len(parts) > 0 {
			return strings.Join(parts, "\n")
		}
	}
	return PlaceholderContent
}
