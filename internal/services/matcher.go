package services

import (
	"context"
	"fmt"

	"aicruit/recruiting-api/internal/models"
)

// MatchResult reports the best-fit job description for a candidate. An empty
// MatchedJobDescriptionID means no suitable match was found, in which case the
// confidence is always 0.
type MatchResult struct {
	MatchedJobDescriptionID string
	MatchConfidence         float64
	MatchReason             string
}

type MatchingService interface {
	MatchCandidate(ctx context.Context, skills []string, experienceSummary string, jds []models.JobDescription) (*MatchResult, error)
}

type matchingService struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewMatchingService(gemini GeminiService, maxRetries int) MatchingService {
	return &matchingService{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// MatchCandidate implements MatchingService.
func (s *matchingService) MatchCandidate(ctx context.Context, skills []string, experienceSummary string, jds []models.JobDescription) (*MatchResult, error) {
	if len(jds) == 0 {
		return &MatchResult{
			MatchConfidence: 0,
			MatchReason:     "No job descriptions were available to match against.",
		}, nil
	}

	prompt := s.promptBuilder.BuildMatchingPrompt(skills, experienceSummary, jds)

	response, err := s.gemini.GenerateTextWithRetry(ctx, prompt, 0.2, s.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate match: %w", err)
	}

	var raw struct {
		MatchedJobDescriptionID *string `json:"matchedJobDescriptionId"`
		MatchConfidence         float64 `json:"matchConfidence"`
		MatchReason             string  `json:"matchReason"`
	}
	if err := ParseJSONResponse(response, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse match response: %w", err)
	}

	result := &MatchResult{
		MatchConfidence: raw.MatchConfidence,
		MatchReason:     raw.MatchReason,
	}
	if raw.MatchedJobDescriptionID != nil && *raw.MatchedJobDescriptionID != "" && *raw.MatchedJobDescriptionID != "null" {
		result.MatchedJobDescriptionID = *raw.MatchedJobDescriptionID
	} else {
		// No match always reports zero confidence
		result.MatchConfidence = 0
	}

	return result, nil
}
