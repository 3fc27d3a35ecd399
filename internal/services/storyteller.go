package services

import (
	"context"
	"fmt"
)

type StoryInput struct {
	CandidateName                 string
	CandidateSkills               []string
	CandidateExperienceSummary    string
	MatchedJobTitle               string
	MatchedJobKeyResponsibilities string
	CompanyName                   string
}

type StoryService interface {
	GenerateStory(ctx context.Context, in StoryInput) (string, error)
}

type storyService struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewStoryService(gemini GeminiService, maxRetries int) StoryService {
	return &storyService{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// GenerateStory implements StoryService.
func (s *storyService) GenerateStory(ctx context.Context, in StoryInput) (string, error) {
	prompt := s.promptBuilder.BuildStoryPrompt(in)

	response, err := s.gemini.GenerateTextWithRetry(ctx, prompt, 0.7, s.maxRetries)
	if err != nil {
		return "", fmt.Errorf("failed to generate candidate story: %w", err)
	}

	var result struct {
		PotentialStory string `json:"potentialStory"`
	}
	if err := ParseJSONResponse(response, &result); err != nil {
		return "", fmt.Errorf("failed to parse story response: %w", err)
	}
	if result.PotentialStory == "" {
		return "", fmt.Errorf("story response contained no potentialStory")
	}

	return result.PotentialStory, nil
}
