package services

import (
	"context"
	"fmt"

	"aicruit/recruiting-api/internal/models"
)

type AuthenticityInput struct {
	ApplicationText string
	Education       []models.Education
	Experience      []models.WorkExperience
}

// AuthenticityResult is the raw oracle response. The genuineness flags and
// confidence are pointers because the model may omit them; the pipeline
// applies the documented defaults.
type AuthenticityResult struct {
	IsPotentiallyAiGenerated bool     `json:"isPotentiallyAiGenerated"`
	IsPotentiallyFraudulent  bool     `json:"isPotentiallyFraudulent"`
	EducationSeemsGenuine    *bool    `json:"educationSeemsGenuine"`
	ExperienceSeemsGenuine   *bool    `json:"experienceSeemsGenuine"`
	OverallConfidenceScore   *float64 `json:"overallConfidenceScore"`
	Reason                   string   `json:"reason"`
}

// AuthenticityService reviews assembled application text for AI generation
// and fraud signals. A (nil, nil) return means the check ran but produced no
// conclusive data.
type AuthenticityService interface {
	VerifyApplication(ctx context.Context, in AuthenticityInput) (*AuthenticityResult, error)
}

type authenticityService struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewAuthenticityService(gemini GeminiService, maxRetries int) AuthenticityService {
	return &authenticityService{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// VerifyApplication implements AuthenticityService.
func (s *authenticityService) VerifyApplication(ctx context.Context, in AuthenticityInput) (*AuthenticityResult, error) {
	prompt := s.promptBuilder.BuildAuthenticityPrompt(in.ApplicationText, in.Education, in.Experience)

	response, err := s.gemini.GenerateTextWithRetry(ctx, prompt, 0.2, s.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to verify authenticity: %w", err)
	}
	if response == "" {
		return nil, nil
	}

	var result AuthenticityResult
	if err := ParseJSONResponse(response, &result); err != nil {
		return nil, fmt.Errorf("failed to parse authenticity response: %w", err)
	}

	return &result, nil
}
