package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aicruit/recruiting-api/internal/models"
)

var (
	testTime = time.Date(2025, 5, 12, 9, 30, 0, 0, time.UTC)
	testID   = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	testJDID = uuid.MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")
)

type stubNormalizer struct {
	resume      ResumePayload
	resumeErr   error
	coverLetter string
}

func (s *stubNormalizer) NormalizeResume(file UploadedFile) (ResumePayload, error) {
	if s.resumeErr != nil {
		return ResumePayload{}, s.resumeErr
	}
	return s.resume, nil
}

func (s *stubNormalizer) NormalizeCoverLetter(file UploadedFile) string {
	return s.coverLetter
}

type stubExtractor struct {
	out *models.ExtractedInformation
	err error
}

func (s *stubExtractor) ExtractData(ctx context.Context, in ExtractionInput) (*models.ExtractedInformation, error) {
	return s.out, s.err
}

type stubMatcher struct {
	out        *MatchResult
	err        error
	called     bool
	gotSummary string
}

func (s *stubMatcher) MatchCandidate(ctx context.Context, skills []string, experienceSummary string, jds []models.JobDescription) (*MatchResult, error) {
	s.called = true
	s.gotSummary = experienceSummary
	return s.out, s.err
}

type stubRanker struct {
	out    []models.RankingInformation
	err    error
	called bool
}

func (s *stubRanker) RankCandidates(ctx context.Context, jobDescription string, candidates []RankingCandidate) ([]models.RankingInformation, error) {
	s.called = true
	return s.out, s.err
}

type stubVerifier struct {
	out     *AuthenticityResult
	err     error
	gotText string
}

func (s *stubVerifier) VerifyApplication(ctx context.Context, in AuthenticityInput) (*AuthenticityResult, error) {
	s.gotText = in.ApplicationText
	return s.out, s.err
}

type stubStoryteller struct {
	out    string
	err    error
	called bool
}

func (s *stubStoryteller) GenerateStory(ctx context.Context, in StoryInput) (string, error) {
	s.called = true
	return s.out, s.err
}

type stubEmailer struct {
	out    *models.DraftedEmail
	err    error
	called bool
}

func (s *stubEmailer) DraftInterviewEmail(ctx context.Context, in EmailInput) (*models.DraftedEmail, error) {
	s.called = true
	return s.out, s.err
}

type pipelineDeps struct {
	normalizer  *stubNormalizer
	extractor   *stubExtractor
	matcher     *stubMatcher
	ranker      *stubRanker
	verifier    *stubVerifier
	storyteller *stubStoryteller
	emailer     *stubEmailer
}

func defaultDeps() *pipelineDeps {
	return &pipelineDeps{
		normalizer: &stubNormalizer{
			resume: ResumePayload{MIMEType: "application/pdf", Data: []byte("resume")},
		},
		extractor:   &stubExtractor{out: sampleExtracted()},
		matcher:     &stubMatcher{out: &MatchResult{MatchedJobDescriptionID: testJDID.String(), MatchConfidence: 0.9, MatchReason: "Good fit"}},
		ranker:      &stubRanker{out: []models.RankingInformation{{Name: "Jane Doe", Ranking: 85, Reason: "Strong match"}}},
		verifier:    &stubVerifier{out: sampleAuthenticity()},
		storyteller: &stubStoryteller{out: "A promising path."},
		emailer:     &stubEmailer{out: &models.DraftedEmail{Subject: "Interview Invitation", Body: "Dear Jane"}},
	}
}

func newTestPipeline(d *pipelineDeps) *pipelineService {
	return &pipelineService{
		normalizer:  d.normalizer,
		extractor:   d.extractor,
		matcher:     d.matcher,
		ranker:      d.ranker,
		verifier:    d.verifier,
		storyteller: d.storyteller,
		emailer:     d.emailer,
		now:         func() time.Time { return testTime },
		newID:       func() uuid.UUID { return testID },
	}
}

func sampleExtracted() *models.ExtractedInformation {
	dates := "2020-2023"
	return &models.ExtractedInformation{
		PersonalInformation: models.PersonalInformation{
			Name:  "Jane Doe",
			Email: "jane@example.com",
			Phone: "555-0100",
		},
		WorkExperience: []models.WorkExperience{
			{Title: "Engineer", Company: "Acme", Dates: &dates, Description: "Built data pipelines"},
		},
		Education: []models.Education{
			{Degree: "BSc Computer Science", Institution: "State University"},
		},
		Skills: []string{"Go", "SQL"},
	}
}

func sampleAuthenticity() *AuthenticityResult {
	genuine := true
	conf := 0.2
	return &AuthenticityResult{
		IsPotentiallyAiGenerated: false,
		IsPotentiallyFraudulent:  false,
		EducationSeemsGenuine:    &genuine,
		ExperienceSeemsGenuine:   &genuine,
		OverallConfidenceScore:   &conf,
		Reason:                   "Looks consistent",
	}
}

func sampleInput() PipelineInput {
	return PipelineInput{
		Resume: UploadedFile{
			Name:        "jane_doe_resume.pdf",
			ContentType: "application/pdf",
			Data:        []byte("resume"),
		},
		JobDescriptions: []models.JobDescription{
			{ID: testJDID, Title: "Backend Engineer", CompanyName: "AICruit", FullText: "Build and run backend services in Go."},
		},
	}
}

func TestProcessApplicationHappyPath(t *testing.T) {
	deps := defaultDeps()
	p := newTestPipeline(deps)

	out := p.ProcessApplication(context.Background(), sampleInput())

	require.Empty(t, out.Error)
	assert.Equal(t, testID.String(), out.ID)
	assert.Equal(t, "jane_doe_resume.pdf", out.FileName)
	assert.Equal(t, testTime, out.ProcessedAt)
	assert.Equal(t, testJDID.String(), out.MatchedJobDescriptionID)
	assert.Equal(t, "Backend Engineer", out.MatchedJobDescriptionTitle)
	require.NotNil(t, out.RankingData)
	assert.Equal(t, float64(85), out.RankingData.Ranking)
	assert.Equal(t, "A promising path.", out.PotentialStory)
	require.NotNil(t, out.DraftedInterviewEmail)
	assert.Equal(t, "Interview Invitation", out.DraftedInterviewEmail.Subject)
	assert.Equal(t, "Looks consistent", out.AuthenticityData.Reason)
}

func TestProcessApplicationUnsupportedResumeFormat(t *testing.T) {
	deps := defaultDeps()
	deps.normalizer.resumeErr = errors.New("Direct processing of .doc resume files is not supported. Please convert to .docx, PDF, or TXT.")
	p := newTestPipeline(deps)

	out := p.ProcessApplication(context.Background(), sampleInput())

	assert.Equal(t, "Direct processing of .doc resume files is not supported. Please convert to .docx, PDF, or TXT.", out.Error)
	assert.Nil(t, out.ExtractedData)
	assert.Equal(t, "Authenticity check not performed or inconclusive.", out.AuthenticityData.Reason)
	assert.False(t, deps.matcher.called)
}

func TestProcessApplicationMissingCandidateName(t *testing.T) {
	deps := defaultDeps()
	deps.extractor.out.PersonalInformation.Name = ""
	p := newTestPipeline(deps)

	out := p.ProcessApplication(context.Background(), sampleInput())

	assert.Equal(t, "Failed to extract candidate name from resume.", out.Error)
	assert.Equal(t, "Authenticity check skipped due to data extraction error.", out.AuthenticityData.Reason)
	assert.NotNil(t, out.ExtractedData)
	assert.False(t, deps.matcher.called)
}

func TestProcessApplicationEmptyCatalog(t *testing.T) {
	deps := defaultDeps()
	p := newTestPipeline(deps)

	in := sampleInput()
	in.JobDescriptions = nil
	out := p.ProcessApplication(context.Background(), in)

	assert.Equal(t, "No job descriptions available in the system to match against. Please add job descriptions first.", out.Error)
	assert.Equal(t, "Authenticity check skipped due to missing job descriptions.", out.AuthenticityData.Reason)
	assert.NotNil(t, out.ExtractedData)
	assert.False(t, deps.matcher.called)
}

// The name guard fires before the catalog guard when both apply.
func TestProcessApplicationGuardOrdering(t *testing.T) {
	deps := defaultDeps()
	deps.extractor.out.PersonalInformation.Name = ""
	p := newTestPipeline(deps)

	in := sampleInput()
	in.JobDescriptions = nil
	out := p.ProcessApplication(context.Background(), in)

	assert.Equal(t, "Failed to extract candidate name from resume.", out.Error)
}

func TestProcessApplicationNormalizesExtractedData(t *testing.T) {
	deps := defaultDeps()
	deps.extractor.out.PersonalInformation.Github = nil
	deps.extractor.out.Projects = []models.Project{
		{Name: "Side Project", Description: "CLI tool", Technologies: nil},
	}
	p := newTestPipeline(deps)

	out := p.ProcessApplication(context.Background(), sampleInput())

	require.NotNil(t, out.ExtractedData)
	require.NotNil(t, out.ExtractedData.PersonalInformation.Github)
	assert.Equal(t, "", *out.ExtractedData.PersonalInformation.Github)
	require.Len(t, out.ExtractedData.Projects, 1)
	assert.NotNil(t, out.ExtractedData.Projects[0].Technologies)
	assert.Empty(t, out.ExtractedData.Projects[0].Technologies)
}

func TestProcessApplicationUnknownMatchedID(t *testing.T) {
	deps := defaultDeps()
	deps.matcher.out = &MatchResult{MatchedJobDescriptionID: uuid.NewString(), MatchConfidence: 0.8}
	p := newTestPipeline(deps)

	out := p.ProcessApplication(context.Background(), sampleInput())

	require.Empty(t, out.Error)
	assert.Empty(t, out.MatchedJobDescriptionID)
	assert.Empty(t, out.MatchedJobDescriptionTitle)
	assert.False(t, deps.ranker.called)
	assert.Nil(t, out.RankingData)
}

func TestProcessApplicationNoMatch(t *testing.T) {
	deps := defaultDeps()
	deps.matcher.out = &MatchResult{MatchReason: "No role fits"}
	p := newTestPipeline(deps)

	out := p.ProcessApplication(context.Background(), sampleInput())

	require.Empty(t, out.Error)
	assert.False(t, deps.ranker.called)
	assert.False(t, deps.storyteller.called)
	assert.False(t, deps.emailer.called)
}

func TestProcessApplicationStoryGate(t *testing.T) {
	tests := []struct {
		name    string
		ranking float64
		want    bool
	}{
		{"below threshold", 69, false},
		{"at threshold", 70, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := defaultDeps()
			deps.ranker.out = []models.RankingInformation{{Name: "Jane Doe", Ranking: tt.ranking}}
			p := newTestPipeline(deps)

			out := p.ProcessApplication(context.Background(), sampleInput())

			require.Empty(t, out.Error)
			assert.Equal(t, tt.want, deps.storyteller.called)
		})
	}
}

func TestProcessApplicationStoryFailureIsNotFatal(t *testing.T) {
	deps := defaultDeps()
	deps.storyteller.err = errors.New("story model unavailable")
	p := newTestPipeline(deps)

	out := p.ProcessApplication(context.Background(), sampleInput())

	require.Empty(t, out.Error)
	assert.Empty(t, out.PotentialStory)
	require.NotNil(t, out.DraftedInterviewEmail)
}

func TestProcessApplicationEmailGate(t *testing.T) {
	highConf := 0.7
	lowConf := 0.5

	tests := []struct {
		name       string
		ranking    float64
		email      string
		fraudFlag  bool
		confidence *float64
		want       bool
	}{
		{"drafts at threshold", 80, "jane@example.com", false, &lowConf, true},
		{"below ranking threshold", 79, "jane@example.com", false, &lowConf, false},
		{"missing email", 85, "", false, &lowConf, false},
		{"flagged with high confidence", 85, "jane@example.com", true, &highConf, false},
		{"flagged with low confidence", 85, "jane@example.com", true, &lowConf, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := defaultDeps()
			deps.ranker.out = []models.RankingInformation{{Name: "Jane Doe", Ranking: tt.ranking}}
			deps.extractor.out.PersonalInformation.Email = tt.email
			deps.verifier.out.IsPotentiallyFraudulent = tt.fraudFlag
			deps.verifier.out.OverallConfidenceScore = tt.confidence
			p := newTestPipeline(deps)

			out := p.ProcessApplication(context.Background(), sampleInput())

			require.Empty(t, out.Error)
			assert.Equal(t, tt.want, deps.emailer.called)
		})
	}
}

func TestProcessApplicationEmailFailureIsNotFatal(t *testing.T) {
	deps := defaultDeps()
	deps.emailer.err = errors.New("email model unavailable")
	p := newTestPipeline(deps)

	out := p.ProcessApplication(context.Background(), sampleInput())

	require.Empty(t, out.Error)
	assert.Nil(t, out.DraftedInterviewEmail)
}

func TestProcessApplicationAuthenticityDefaults(t *testing.T) {
	deps := defaultDeps()
	deps.verifier.out = &AuthenticityResult{
		IsPotentiallyAiGenerated: true,
	}
	p := newTestPipeline(deps)

	out := p.ProcessApplication(context.Background(), sampleInput())

	require.Empty(t, out.Error)
	assert.True(t, out.AuthenticityData.IsPotentiallyAiGenerated)
	assert.True(t, out.AuthenticityData.EducationSeemsGenuine)
	assert.True(t, out.AuthenticityData.ExperienceSeemsGenuine)
	assert.Equal(t, float64(0), out.AuthenticityData.OverallConfidenceScore)
	assert.Equal(t, "No specific reason provided by AI.", out.AuthenticityData.Reason)
}

func TestProcessApplicationAuthenticityNoData(t *testing.T) {
	deps := defaultDeps()
	deps.verifier.out = nil
	p := newTestPipeline(deps)

	out := p.ProcessApplication(context.Background(), sampleInput())

	require.Empty(t, out.Error)
	assert.Equal(t, "Authenticity check AI flow returned no conclusive data.", out.AuthenticityData.Reason)
	assert.True(t, out.AuthenticityData.EducationSeemsGenuine)
	assert.True(t, out.AuthenticityData.ExperienceSeemsGenuine)
}

func TestProcessApplicationOracleFailure(t *testing.T) {
	deps := defaultDeps()
	deps.matcher.out = nil
	deps.matcher.err = errors.New("matching model unavailable")
	p := newTestPipeline(deps)

	out := p.ProcessApplication(context.Background(), sampleInput())

	assert.Equal(t, "Processing failed: matching model unavailable", out.Error)
	assert.Equal(t, "Authenticity check skipped due to processing error.", out.AuthenticityData.Reason)
}

func TestExperienceSummary(t *testing.T) {
	data := sampleExtracted()
	got := experienceSummary(data)
	assert.Equal(t, "Engineer at Acme (2020-2023): Built data pipelines", got)

	data.WorkExperience[0].Dates = nil
	data.WorkExperience[0].Company = ""
	got = experienceSummary(data)
	assert.Equal(t, "Engineer at N/A (N/A): Built data pipelines", got)

	data.WorkExperience = nil
	assert.Equal(t, "No prior experience listed.", experienceSummary(data))
}

func TestAssembleApplicationText(t *testing.T) {
	data := sampleExtracted()
	text := assembleApplicationText(data, "I am excited to apply.", "https://linkedin.com/in/janedoe")

	assert.Contains(t, text, "Candidate: Jane Doe")
	assert.Contains(t, text, "Cover Letter Content (or placeholder):\nI am excited to apply.")
	assert.Contains(t, text, "Experience Summary (for context):\nTitle: Engineer at Acme. Description: Built data pipelines...")
	assert.Contains(t, text, "Education Summary (for context):\nDegree: BSc Computer Science from State University.")
	assert.Contains(t, text, "Skills: Go, SQL")
	assert.Contains(t, text, "Online Profile URL Provided: https://linkedin.com/in/janedoe")
	assert.Contains(t, text, "(AI will consider typical information from such a profile for authenticity check based on this URL.)")
}

func TestAssembleApplicationTextFallback(t *testing.T) {
	data := &models.ExtractedInformation{}
	text := assembleApplicationText(data, "", "")
	assert.Equal(t, "No textual content available for authenticity check other than structured data which will be passed separately.", text)
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	short := strings.Repeat("简", 400)
	assert.Equal(t, short, truncate(short, 1000))

	long := strings.Repeat("简", 1500)
	got := truncate(long, 1000)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 1000, utf8.RuneCountInString(got))

	assert.Equal(t, "abc", truncate("abcdef", 3))
}

func TestAssembleApplicationTextMultibyteCoverLetter(t *testing.T) {
	data := sampleExtracted()
	text := assembleApplicationText(data, strings.Repeat("简历内容", 400), "")
	assert.True(t, utf8.ValidString(text))
}

func TestAssembleApplicationTextTruncatesCoverLetter(t *testing.T) {
	data := sampleExtracted()
	long := make([]byte, 1500)
	for i := range long {
		long[i] = 'a'
	}
	text := assembleApplicationText(data, string(long), "")

	assert.Contains(t, text, string(long[:1000]))
	assert.NotContains(t, text, string(long[:1001]))
}
