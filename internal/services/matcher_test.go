package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"aicruit/recruiting-api/internal/models"
)

// stubGemini returns canned responses instead of calling the Gemini API.
type stubGemini struct {
	response string
	err      error
}

func (s *stubGemini) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	return s.response, s.err
}

func (s *stubGemini) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	return s.response, s.err
}

func (s *stubGemini) GenerateFromParts(ctx context.Context, parts []*genai.Part, temperature float32) (string, error) {
	return s.response, s.err
}

func (s *stubGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, s.err
}

func testCatalog() []models.JobDescription {
	return []models.JobDescription{
		{ID: testJDID, Title: "Backend Engineer", CompanyName: "AICruit", FullText: "Go services"},
	}
}

func TestMatchCandidateMatched(t *testing.T) {
	gemini := &stubGemini{
		response: `{"matchedJobDescriptionId": "` + testJDID.String() + `", "matchConfidence": 0.92, "matchReason": "Skills align"}`,
	}
	m := NewMatchingService(gemini, 1)

	result, err := m.MatchCandidate(context.Background(), []string{"Go"}, "Engineer at Acme", testCatalog())

	require.NoError(t, err)
	assert.Equal(t, testJDID.String(), result.MatchedJobDescriptionID)
	assert.Equal(t, 0.92, result.MatchConfidence)
	assert.Equal(t, "Skills align", result.MatchReason)
}

func TestMatchCandidateNoMatchForcesZeroConfidence(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"json null", `{"matchedJobDescriptionId": null, "matchConfidence": 0.4, "matchReason": "No fit"}`},
		{"string null", `{"matchedJobDescriptionId": "null", "matchConfidence": 0.4, "matchReason": "No fit"}`},
		{"empty string", `{"matchedJobDescriptionId": "", "matchConfidence": 0.4, "matchReason": "No fit"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatchingService(&stubGemini{response: tt.response}, 1)

			result, err := m.MatchCandidate(context.Background(), []string{"Go"}, "Engineer at Acme", testCatalog())

			require.NoError(t, err)
			assert.Empty(t, result.MatchedJobDescriptionID)
			assert.Equal(t, float64(0), result.MatchConfidence)
			assert.Equal(t, "No fit", result.MatchReason)
		})
	}
}

func TestMatchCandidateEmptyCatalog(t *testing.T) {
	m := NewMatchingService(&stubGemini{}, 1)

	result, err := m.MatchCandidate(context.Background(), nil, "", nil)

	require.NoError(t, err)
	assert.Empty(t, result.MatchedJobDescriptionID)
	assert.Equal(t, float64(0), result.MatchConfidence)
}

func TestVerifyApplicationEmptyResponse(t *testing.T) {
	v := NewAuthenticityService(&stubGemini{response: ""}, 1)

	result, err := v.VerifyApplication(context.Background(), AuthenticityInput{ApplicationText: "Candidate: Jane"})

	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestVerifyApplicationParsesFlags(t *testing.T) {
	v := NewAuthenticityService(&stubGemini{
		response: "```json\n{\"isPotentiallyAiGenerated\": true, \"overallConfidenceScore\": 0.8, \"reason\": \"Repetitive phrasing\"}\n```",
	}, 1)

	result, err := v.VerifyApplication(context.Background(), AuthenticityInput{ApplicationText: "Candidate: Jane"})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsPotentiallyAiGenerated)
	assert.Nil(t, result.EducationSeemsGenuine)
	require.NotNil(t, result.OverallConfidenceScore)
	assert.Equal(t, 0.8, *result.OverallConfidenceScore)
	assert.Equal(t, "Repetitive phrasing", result.Reason)
}
