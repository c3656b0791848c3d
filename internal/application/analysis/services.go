package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/application"
	"github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/ai"
	domain "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/analysis"
	diag "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/diagnostics"
	"github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/infra/ai/prompt"
)

const rawResponseLimit = 500

// Options tunes optional pipeline behavior.
type Options struct {
	EnableAIOrigin  bool
	ExtractAttempts int
	ExtractDelay    time.Duration
}

// Service orchestrates the staged analysis pipeline: classification, optional
// AI-origin detection, policy categories, risk assessment, confidence and
// suggestions, then aggregation and persistence. A failed stage never aborts
// the run; it contributes a conservative default and a diagnostic record.
type Service struct {
	Runner  *Runner
	Repo    domain.Repository // optional
	Reports domain.ReportStore
	Diag    diag.Repository
	Clock   application.Clock
	Options Options
}

func NewService(runner *Runner, repo domain.Repository, reports domain.ReportStore, diagRepo diag.Repository, clock application.Clock, opts Options) *Service {
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &Service{
		Runner:  runner,
		Repo:    repo,
		Reports: reports,
		Diag:    diagRepo,
		Clock:   clock,
		Options: opts,
	}
}

// ---- stage output shapes ----

var classificationShape = &Shape{Kind: ShapeObject, Fields: map[string]Field{
	"content_type":        {Kind: KindString, Required: true},
	"target_audience":     {Kind: KindString},
	"monetization_impact": {Kind: KindNumber},
	"language_detected":   {Kind: KindString},
}}

var aiOriginShape = &Shape{Kind: ShapeObject, Fields: map[string]Field{
	"ai_probability": {Kind: KindNumber, Required: true},
	"confidence":     {Kind: KindNumber},
	"patterns":       {Kind: KindStringList},
	"explanation":    {Kind: KindString},
}}

var categoryShape = &Shape{Kind: ShapeObject, Fields: map[string]Field{
	"risk_score":  {Kind: KindNumber, Required: true},
	"confidence":  {Kind: KindNumber},
	"violations":  {Kind: KindStringList},
	"severity":    {Kind: KindSeverity},
	"explanation": {Kind: KindString},
}}

var categoriesShape = &Shape{Kind: ShapeMap, Elem: categoryShape}

var assessmentShape = &Shape{Kind: ShapeObject, Fields: map[string]Field{
	"overall_risk_score":        {Kind: KindNumber, Required: true},
	"flagged_section":           {Kind: KindString},
	"risk_factors":              {Kind: KindStringList},
	"severity_level":            {Kind: KindSeverity},
	"risky_phrases_by_category": {Kind: KindPhraseMap},
	"risky_spans":               {Kind: KindSpanList},
}}

var confidenceShape = &Shape{Kind: ShapeObject, Fields: map[string]Field{
	"confidence_score": {Kind: KindNumber, Required: true},
	"reasoning":        {Kind: KindString},
}}

var suggestionsShape = &Shape{Kind: ShapeArray, Elem: &Shape{Kind: ShapeObject, Fields: map[string]Field{
	"title":        {Kind: KindString, Required: true},
	"text":         {Kind: KindString},
	"priority":     {Kind: KindSeverity},
	"impact_score": {Kind: KindNumber},
}}}

// ---- pipeline run state ----

// pipelineRun menampung state satu kali eksekusi pipeline.
type pipelineRun struct {
	tenant       string
	id           domain.AnalysisID
	content      string
	mode         domain.Mode
	prior        strings.Builder
	providerUsed string
}

// appendPrior accumulates a stage result so later prompts can see earlier
// findings.
func (r *pipelineRun) appendPrior(stage string, value any) {
	b, err := json.Marshal(value)
	if err != nil {
		return
	}
	fmt.Fprintf(&r.prior, "%s: %s\n", stage, b)
}

func (r *pipelineRun) appendPriorText(label, text string) {
	fmt.Fprintf(&r.prior, "%s: %s\n", label, text)
}

func (r *pipelineRun) priorText() string { return r.prior.String() }

type stageOutputs struct {
	classification domain.ContextClassification
	aiOrigin       *domain.AIOriginAssessment
	categories     map[string]domain.PolicyCategoryScore
	assessment     domain.RiskAssessment
	confidence     domain.ConfidenceAssessment
	suggestions    []domain.Suggestion
}

// ---- public API ----

// Analyze runs the full pipeline synchronously and persists the result.
func (s *Service) Analyze(ctx context.Context, tenant string, req domain.AnalysisRequest) (*domain.Analysis, error) {
	return s.analyze(ctx, tenant, req, "")
}

// AnalyzeUntilDone runs the pipeline detached from the inbound request
// context, for the async endpoint. The stored result is marked completed.
func (s *Service) AnalyzeUntilDone(tenant string, req domain.AnalysisRequest) {
	a, err := s.analyze(context.Background(), tenant, req, "completed")
	if err != nil {
		log.Printf("async analysis failed tenant=%s err=%v", tenant, err)
		return
	}
	log.Printf("async analysis done tenant=%s id=%s score=%d", tenant, a.ID, a.RiskScore)
}

func (s *Service) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Analysis, error) {
	return s.Repo.Get(ctx, tenant, id)
}

func (s *Service) Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*domain.Analysis, error) {
	return s.Repo.Paginate(ctx, tenant, page, pageSize)
}

func (s *Service) Summary(ctx context.Context, tenant string, sinceDays int) (int, int, int, int, error) {
	return s.Repo.Summary(ctx, tenant, sinceDays)
}

func (s *Service) Diagnostics(ctx context.Context, tenant string, id domain.AnalysisID, limit int) ([]*diag.StageDiagnostic, error) {
	if s.Diag == nil {
		return nil, nil
	}
	return s.Diag.ListByAnalysis(ctx, tenant, string(id), limit)
}

// ---- pipeline ----

func (s *Service) analyze(ctx context.Context, tenant string, req domain.AnalysisRequest, queueStatus string) (*domain.Analysis, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start := s.Clock.Now()

	run := &pipelineRun{
		tenant:  tenant,
		id:      domain.AnalysisID(uuid.New().String()),
		content: req.ContentText(),
		mode:    domain.ModeTextOnly,
	}

	if req.ChannelContext != nil {
		if b, err := json.Marshal(req.ChannelContext); err == nil {
			run.appendPriorText("Channel context", string(b))
		}
	}

	if s.multiModalEligible(req) {
		summary, err := s.contentSummary(ctx, req)
		if err != nil {
			// seluruh run turun ke jalur text-only; context yang sudah
			// terkumpul dari jalur visual dibuang
			log.Printf("multi-modal summary failed, rerunning text-only tenant=%s id=%s err=%v", tenant, run.id, err)
			s.emitDiagnostic(run, "content_summary", "", 0, diag.OutcomeFailed, err.Error(), "")
		} else {
			run.mode = domain.ModeMultiModal
			run.appendPriorText("Visual content summary", summary)
		}
	}

	out := s.runStages(ctx, run)
	a := s.assemble(run, out, start, queueStatus)

	if s.Reports != nil {
		s.uploadReport(ctx, a)
	}
	if s.Repo != nil {
		if err := s.Repo.Save(ctx, a); err != nil {
			return nil, fmt.Errorf("save analysis: %w", err)
		}
	}
	return a, nil
}

func (s *Service) runStages(ctx context.Context, run *pipelineRun) stageOutputs {
	var out stageOutputs

	system, user := prompt.ContextClassificationPrompts(run.content, run.priorText())
	out.classification, _ = runStage(ctx, s, run, "context_classification", system, user, classificationShape, defaultClassification(len(run.content)))
	out.classification.ContentLength = len(run.content)

	if s.Options.EnableAIOrigin {
		system, user = prompt.AIOriginPrompts(run.content, run.priorText())
		if origin, ok := runStage(ctx, s, run, "ai_origin", system, user, aiOriginShape, domain.AIOriginAssessment{}); ok {
			out.aiOrigin = &origin
		}
	}

	system, user = prompt.PolicyCategoryPrompts(run.content, run.priorText())
	out.categories, _ = runStage(ctx, s, run, "policy_categories", system, user, categoriesShape, defaultCategories())

	system, user = prompt.RiskAssessmentPrompts(run.content, run.priorText())
	out.assessment, _ = runStage(ctx, s, run, "risk_assessment", system, user, assessmentShape, defaultAssessment())

	system, user = prompt.ConfidencePrompts(run.content, run.priorText())
	out.confidence, _ = runStage(ctx, s, run, "confidence_analysis", system, user, confidenceShape, defaultConfidence())

	system, user = prompt.SuggestionPrompts(run.content, run.priorText())
	out.suggestions, _ = runStage(ctx, s, run, "suggestions", system, user, suggestionsShape, []domain.Suggestion(nil))

	return out
}

// runStage executes one pipeline stage end to end: provider call with retry
// and fallback, extraction cascade, decode into the stage's typed result.
// On any failure it returns the conservative fallback and records a
// diagnostic; ok reports whether the model's output was actually used.
func runStage[T any](ctx context.Context, s *Service, run *pipelineRun, stage, system, user string, shape *Shape, fallback T) (T, bool) {
	res, err := s.Runner.Do(ctx, func(ctx context.Context, p ai.Provider) (string, error) {
		return p.GenerateContent(ctx, system, user)
	})
	if err != nil {
		s.emitDiagnostic(run, stage, res.Provider, res.Attempts, diag.OutcomeFailed, err.Error(), "")
		return fallback, false
	}
	run.providerUsed = res.Provider

	ext, err := s.extractor().Extract(ctx, res.Text, shape, nil)
	if err != nil {
		s.emitDiagnostic(run, stage, res.Provider, res.Attempts, diag.OutcomeFailed, err.Error(), res.Text)
		return fallback, false
	}

	var typed T
	if err := decodeInto(ext.Value, &typed); err != nil {
		s.emitDiagnostic(run, stage, res.Provider, res.Attempts, diag.OutcomeFailed, "decode: "+err.Error(), res.Text)
		return fallback, false
	}

	if res.Attempts > 1 || ext.Strategy != StrategyDirect {
		s.emitDiagnostic(run, stage, res.Provider, res.Attempts, diag.OutcomeRecovered, "strategy="+ext.Strategy, res.Text)
	}
	run.appendPrior(stage, ext.Value)
	return typed, true
}

func (s *Service) extractor() *Extractor {
	return &Extractor{
		Attempts: s.Options.ExtractAttempts,
		Delay:    s.Options.ExtractDelay,
		Repair:   s.aiRepair,
	}
}

// aiRepair asks a model (single attempt per provider, no retry loop) to fix
// malformed structured output.
func (s *Service) aiRepair(ctx context.Context, malformed, shapeHint string) (string, error) {
	system, user := prompt.RepairPrompts(malformed, shapeHint)
	res, err := s.Runner.DoOnce(ctx, func(ctx context.Context, p ai.Provider) (string, error) {
		return p.GenerateContent(ctx, system, user)
	})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// ---- aggregation ----

func (s *Service) assemble(run *pipelineRun, out stageOutputs, start time.Time, queueStatus string) *domain.Analysis {
	filtered := domain.FilterPhrasesByCategory(out.assessment.RiskyPhrasesByCategory)
	spans := domain.MergeSpans(run.content, out.assessment.RiskySpans)
	score := domain.OverallScore(out.assessment, out.categories)
	now := s.Clock.Now()

	return &domain.Analysis{
		ID:                     run.id,
		TenantID:               run.tenant,
		RiskScore:              score,
		RiskLevel:              domain.LevelForScore(score),
		ConfidenceScore:        domain.ClampScore(out.confidence.ConfidenceScore),
		FlaggedSection:         out.assessment.FlaggedSection,
		PolicyCategories:       out.categories,
		ContextAnalysis:        out.classification,
		Highlights:             domain.BuildHighlights(out.categories),
		Suggestions:            NormalizeSuggestions(out.suggestions),
		RiskySpans:             spans,
		RiskyPhrases:           domain.CollectRiskyPhrases(filtered),
		RiskyPhrasesByCategory: filtered,
		AIDetection:            out.aiOrigin,
		Metadata: domain.Metadata{
			ModelUsed:         run.providerUsed,
			AnalysisTimestamp: now.UTC().Format(time.RFC3339),
			ProcessingTimeMS:  now.Sub(start).Milliseconds(),
			ContentLength:     len(run.content),
			AnalysisMode:      run.mode,
			QueueStatus:       queueStatus,
		},
		CreatedAt: now,
	}
}

// uploadReport stores the full result JSON as an artifact. Best effort; a
// storage failure never fails the analysis.
func (s *Service) uploadReport(ctx context.Context, a *domain.Analysis) {
	b, err := json.Marshal(a)
	if err != nil {
		return
	}
	key := fmt.Sprintf("%s/%s.json", a.TenantID, a.ID)
	url, err := s.Reports.UploadReport(ctx, key, b)
	if err != nil {
		log.Printf("report upload failed tenant=%s id=%s err=%v", a.TenantID, a.ID, err)
		return
	}
	a.ArtifactURL = url
}

// emitDiagnostic persists a stage diagnostic, best effort.
func (s *Service) emitDiagnostic(run *pipelineRun, stage, provider string, attempts int, outcome, message, raw string) {
	log.Printf("stage=%s outcome=%s tenant=%s id=%s attempts=%d msg=%s", stage, outcome, run.tenant, run.id, attempts, message)
	if s.Diag == nil {
		return
	}
	d := &diag.StageDiagnostic{
		TenantID:    run.tenant,
		AnalysisID:  string(run.id),
		Stage:       stage,
		Provider:    provider,
		Attempts:    attempts,
		Outcome:     outcome,
		Message:     message,
		RawResponse: truncate(raw, rawResponseLimit),
		CreatedAt:   s.Clock.Now(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Diag.Save(ctx, d); err != nil {
		log.Printf("diagnostic save failed stage=%s id=%s err=%v", stage, run.id, err)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
