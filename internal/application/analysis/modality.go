package analysis

import (
	"context"
	"errors"
	"strings"

	"github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/ai"
	domain "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/analysis"
	"github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/infra/ai/prompt"
)

var errNoMultiModalProvider = errors.New("no multi-modal capable provider configured")

// multiModalEligible: jalur multi-modal hanya dipakai kalau request membawa
// asset URL dan provider utama memang mendukungnya.
func (s *Service) multiModalEligible(req domain.AnalysisRequest) bool {
	if strings.TrimSpace(req.VideoAssetURL) == "" {
		return false
	}
	if len(s.Runner.Providers) == 0 {
		return false
	}
	return s.Runner.Providers[0].SupportsMultiModal()
}

// contentSummary performs the single holistic vision call. Its output is
// reused as shared context by every later stage; any failure here sends the
// whole run down the text-only path instead.
func (s *Service) contentSummary(ctx context.Context, req domain.AnalysisRequest) (string, error) {
	providers := s.Runner.MultiModalProviders()
	if len(providers) == 0 {
		return "", errNoMultiModalProvider
	}
	system, user := prompt.ContentSummaryPrompts(req.Transcript, req.Metadata)
	res, err := s.Runner.DoWith(ctx, providers, func(ctx context.Context, p ai.Provider) (string, error) {
		return p.GenerateMultiModalContent(ctx, system, user, req.VideoAssetURL)
	})
	if err != nil {
		return "", err
	}
	summary := strings.TrimSpace(res.Text)
	if summary == "" {
		return "", errors.New("provider returned an empty content summary")
	}
	return summary, nil
}
