package services

import (
	"context"
	"fmt"

	"aicruit/recruiting-api/internal/models"
)

type EmailInput struct {
	CandidateName  string
	CandidateEmail string
	JobTitle       string
	CompanyName    string
}

type EmailService interface {
	DraftInterviewEmail(ctx context.Context, in EmailInput) (*models.DraftedEmail, error)
}

type emailService struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewEmailService(gemini GeminiService, maxRetries int) EmailService {
	return &emailService{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// DraftInterviewEmail implements EmailService.
func (s *emailService) DraftInterviewEmail(ctx context.Context, in EmailInput) (*models.DraftedEmail, error) {
	prompt := s.promptBuilder.BuildEmailPrompt(in)

	response, err := s.gemini.GenerateTextWithRetry(ctx, prompt, 0.5, s.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to draft interview email: %w", err)
	}

	var result struct {
		EmailSubject string `json:"emailSubject"`
		EmailBody    string `json:"emailBody"`
	}
	if err := ParseJSONResponse(response, &result); err != nil {
		return nil, fmt.Errorf("failed to parse email response: %w", err)
	}

	return &models.DraftedEmail{
		Subject: result.EmailSubject,
		Body:    result.EmailBody,
	}, nil
}
