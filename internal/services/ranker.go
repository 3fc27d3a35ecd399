package services

import (
	"context"
	"fmt"

	"aicruit/recruiting-api/internal/models"
)

type RankingCandidate struct {
	Name       string
	Skills     string // comma-separated
	Experience string
}

type RankingService interface {
	RankCandidates(ctx context.Context, jobDescription string, candidates []RankingCandidate) ([]models.RankingInformation, error)
}

type rankingService struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewRankingService(gemini GeminiService, maxRetries int) RankingService {
	return &rankingService{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// RankCandidates implements RankingService.
func (s *rankingService) RankCandidates(ctx context.Context, jobDescription string, candidates []RankingCandidate) ([]models.RankingInformation, error) {
	prompt := s.promptBuilder.BuildRankingPrompt(jobDescription, candidates)

	response, err := s.gemini.GenerateTextWithRetry(ctx, prompt, 0.2, s.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ranking: %w", err)
	}

	var rankings []models.RankingInformation
	if err := ParseJSONResponse(response, &rankings); err != nil {
		return nil, fmt.Errorf("failed to parse ranking response: %w", err)
	}

	return rankings, nil
}
