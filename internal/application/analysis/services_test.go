package analysis

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/ai"
	domain "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/analysis"
	diag "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/diagnostics"
)

// stageProvider answers each pipeline stage with a canned response, matched
// on a distinctive fragment of the stage's system prompt.
type stageProvider struct {
	name       string
	multiModal bool
	responses  map[string]string
	mmResponse string
	mmErr      error
}

func (p *stageProvider) Name() string             { return p.name }
func (p *stageProvider) SupportsMultiModal() bool { return p.multiModal }

func (p *stageProvider) GenerateContent(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	for marker, resp := range p.responses {
		if strings.Contains(systemPrompt, marker) {
			return resp, nil
		}
	}
	return "{}", nil
}

func (p *stageProvider) GenerateMultiModalContent(ctx context.Context, systemPrompt, userPrompt, assetURL string) (string, error) {
	if p.mmErr != nil {
		return "", p.mmErr
	}
	return p.mmResponse, nil
}

func stageResponses() map[string]string {
	return map[string]string{
		"content classifier":      `{"content_type":"Gaming","target_audience":"Teens","monetization_impact":40,"language_detected":"English"}`,
		"AI-generated":            `{"ai_probability":15,"confidence":60,"patterns":[],"explanation":"human cadence"}`,
		"Score the content":       `{"ADVERTISER_FRIENDLY_PROFANITY":{"risk_score":45,"confidence":80,"violations":["damn"],"severity":"MEDIUM","explanation":"mild profanity"}}`,
		"overall risk assessment": `{"overall_risk_score":40,"flagged_section":"damn difficult","risk_factors":["profanity"],"severity_level":"MEDIUM","risky_phrases_by_category":{"ADVERTISER_FRIENDLY_PROFANITY":["damn","kid"]},"risky_spans":[{"text":"damn","start_index":14,"end_index":18,"risk_level":"MEDIUM","policy_category":"ADVERTISER_FRIENDLY_PROFANITY","explanation":"profanity"}]}`,
		"how confident":           `{"confidence_score":70,"reasoning":"clear transcript"}`,
		"advise creators":         `[{"title":"Soften the language","text":"The repeated profanity could be bleeped in post.","priority":"MEDIUM","impact_score":40}]`,
	}
}

type memAnalysisRepo struct {
	saved []*domain.Analysis
}

func (r *memAnalysisRepo) Save(ctx context.Context, a *domain.Analysis) error {
	r.saved = append(r.saved, a)
	return nil
}

func (r *memAnalysisRepo) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Analysis, error) {
	for _, a := range r.saved {
		if a.TenantID == tenant && a.ID == id {
			return a, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memAnalysisRepo) Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*domain.Analysis, error) {
	return r.saved, nil
}

func (r *memAnalysisRepo) Summary(ctx context.Context, tenant string, sinceDays int) (int, int, int, int, error) {
	var low, med, high int
	for _, a := range r.saved {
		switch a.RiskLevel {
		case domain.SeverityLow:
			low++
		case domain.SeverityMedium:
			med++
		default:
			high++
		}
	}
	return len(r.saved), low, med, high, nil
}

type memDiagRepo struct {
	saved []*diag.StageDiagnostic
}

func (r *memDiagRepo) Save(ctx context.Context, d *diag.StageDiagnostic) error {
	r.saved = append(r.saved, d)
	return nil
}

func (r *memDiagRepo) ListByAnalysis(ctx context.Context, tenant, analysisID string, limit int) ([]*diag.StageDiagnostic, error) {
	return r.saved, nil
}

func (r *memDiagRepo) stages() []string {
	out := make([]string, 0, len(r.saved))
	for _, d := range r.saved {
		out = append(out, d.Stage)
	}
	return out
}

type memReportStore struct {
	keys []string
}

func (s *memReportStore) UploadReport(ctx context.Context, key string, data []byte) (string, error) {
	s.keys = append(s.keys, key)
	return "http://reports.local/" + key, nil
}

func newTestService(p ai.Provider, repo *memAnalysisRepo, diagRepo *memDiagRepo, store *memReportStore) *Service {
	runner := &Runner{Providers: []ai.Provider{p}, Policy: fastPolicy()}
	return NewService(runner, repo, store, diagRepo, nil, Options{EnableAIOrigin: true})
}

func TestAnalyzeFullPipeline(t *testing.T) {
	provider := &stageProvider{name: "gemini", responses: stageResponses()}
	repo := &memAnalysisRepo{}
	diagRepo := &memDiagRepo{}
	store := &memReportStore{}
	svc := newTestService(provider, repo, diagRepo, store)

	a, err := svc.Analyze(context.Background(), "acme", domain.AnalysisRequest{
		Transcript: "well that was damn difficult to finish",
	})
	require.NoError(t, err)

	assert.Equal(t, 45, a.RiskScore) // category max beats assessment's own 40
	assert.Equal(t, domain.SeverityMedium, a.RiskLevel)
	assert.Equal(t, 70, a.ConfidenceScore)
	assert.Equal(t, "damn difficult", a.FlaggedSection)

	// benign "kid" filtered from phrases, genuine profanity kept
	assert.Equal(t, []string{"damn"}, a.RiskyPhrases)
	assert.Equal(t, map[string][]string{domain.CategoryProfanity: {"damn"}}, a.RiskyPhrasesByCategory)

	require.Len(t, a.RiskySpans, 1)
	assert.Equal(t, "damn", a.RiskySpans[0].Text)

	require.Len(t, a.Highlights, 1)
	assert.Equal(t, domain.CategoryProfanity, a.Highlights[0].Category)

	assert.Len(t, a.Suggestions, 5) // padded up from the model's single item
	assert.Equal(t, "Soften the language", a.Suggestions[0].Title)

	require.NotNil(t, a.AIDetection)
	assert.Equal(t, 15, a.AIDetection.Probability)

	assert.Equal(t, domain.ModeTextOnly, a.Metadata.AnalysisMode)
	assert.Equal(t, "gemini", a.Metadata.ModelUsed)
	assert.Equal(t, len("well that was damn difficult to finish"), a.Metadata.ContentLength)

	// persisted and archived
	require.Len(t, repo.saved, 1)
	assert.Equal(t, []string{"acme/" + string(a.ID) + ".json"}, store.keys)
	assert.Equal(t, "http://reports.local/acme/"+string(a.ID)+".json", a.ArtifactURL)

	// clean run: nothing to diagnose
	assert.Empty(t, diagRepo.saved)
}

func TestAnalyzeStageFailureYieldsConservativeDefault(t *testing.T) {
	responses := stageResponses()
	responses["Score the content"] = "I can't really answer that in the requested format, sorry."
	responses["fix malformed JSON"] = "still not something I can express as structured output"
	provider := &stageProvider{name: "gemini", responses: responses}
	repo := &memAnalysisRepo{}
	diagRepo := &memDiagRepo{}
	svc := newTestService(provider, repo, diagRepo, &memReportStore{})

	a, err := svc.Analyze(context.Background(), "acme", domain.AnalysisRequest{
		Transcript: "well that was damn difficult to finish",
	})
	require.NoError(t, err) // a stage failure never aborts the run

	assert.Empty(t, a.PolicyCategories)
	assert.Equal(t, 40, a.RiskScore) // assessment stage alone drives the score
	assert.Contains(t, diagRepo.stages(), "policy_categories")

	for _, d := range diagRepo.saved {
		if d.Stage == "policy_categories" {
			assert.Equal(t, diag.OutcomeFailed, d.Outcome)
			assert.NotEmpty(t, d.RawResponse)
		}
	}
}

func TestAnalyzeEmptyRequestRejected(t *testing.T) {
	svc := newTestService(&stageProvider{name: "gemini"}, &memAnalysisRepo{}, &memDiagRepo{}, &memReportStore{})

	_, err := svc.Analyze(context.Background(), "acme", domain.AnalysisRequest{})

	assert.ErrorIs(t, err, domain.ErrEmptyRequest)
}

func TestAnalyzeMultiModalSummaryFeedsPipeline(t *testing.T) {
	provider := &stageProvider{
		name:       "gemini",
		multiModal: true,
		responses:  stageResponses(),
		mmResponse: "A calm cooking tutorial with occasional mild swearing.",
	}
	repo := &memAnalysisRepo{}
	svc := newTestService(provider, repo, &memDiagRepo{}, &memReportStore{})

	a, err := svc.Analyze(context.Background(), "acme", domain.AnalysisRequest{
		Transcript:    "well that was damn difficult to finish",
		VideoAssetURL: "https://cdn.example.com/video.mp4",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ModeMultiModal, a.Metadata.AnalysisMode)
}

func TestAnalyzeMultiModalFailureRerunsTextOnly(t *testing.T) {
	provider := &stageProvider{
		name:       "gemini",
		multiModal: true,
		responses:  stageResponses(),
		mmErr:      &ai.TransientError{Cause: context.DeadlineExceeded},
	}
	diagRepo := &memDiagRepo{}
	svc := newTestService(provider, &memAnalysisRepo{}, diagRepo, &memReportStore{})

	a, err := svc.Analyze(context.Background(), "acme", domain.AnalysisRequest{
		Transcript:    "well that was damn difficult to finish",
		VideoAssetURL: "https://cdn.example.com/video.mp4",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ModeTextOnly, a.Metadata.AnalysisMode)
	assert.Equal(t, 45, a.RiskScore) // text pipeline still ran to completion
	assert.Contains(t, diagRepo.stages(), "content_summary")
}

func TestAnalyzeProviderWithoutMultiModalStaysTextOnly(t *testing.T) {
	provider := &stageProvider{name: "gemini", responses: stageResponses()}
	svc := newTestService(provider, &memAnalysisRepo{}, &memDiagRepo{}, &memReportStore{})

	a, err := svc.Analyze(context.Background(), "acme", domain.AnalysisRequest{
		Transcript:    "well that was damn difficult to finish",
		VideoAssetURL: "https://cdn.example.com/video.mp4",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ModeTextOnly, a.Metadata.AnalysisMode)
}

func TestServiceReadPaths(t *testing.T) {
	provider := &stageProvider{name: "gemini", responses: stageResponses()}
	repo := &memAnalysisRepo{}
	svc := newTestService(provider, repo, &memDiagRepo{}, &memReportStore{})

	a, err := svc.Analyze(context.Background(), "acme", domain.AnalysisRequest{Transcript: "well that was damn difficult"})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), "acme", a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = svc.Get(context.Background(), "acme", domain.AnalysisID("missing"))
	assert.ErrorIs(t, err, sql.ErrNoRows)

	total, _, med, _, err := svc.Summary(context.Background(), "acme", 7)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, med)
}

func TestAnalyzeProcessingTimeRecorded(t *testing.T) {
	provider := &stageProvider{name: "gemini", responses: stageResponses()}
	svc := newTestService(provider, &memAnalysisRepo{}, &memDiagRepo{}, &memReportStore{})

	a, err := svc.Analyze(context.Background(), "acme", domain.AnalysisRequest{Transcript: "well that was damn difficult"})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, a.Metadata.ProcessingTimeMS, int64(0))
	ts, err := time.Parse(time.RFC3339, a.Metadata.AnalysisTimestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}
