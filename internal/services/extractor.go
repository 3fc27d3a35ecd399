package services

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"

	"aicruit/recruiting-api/internal/models"
)

// ResumePayload is the normalized document handed to the extraction AI:
// either the original file bytes under their declared MIME type, or extracted
// plain text re-encoded as text/plain.
type ResumePayload struct {
	MIMEType string
	Data     []byte
}

type ExtractionInput struct {
	Resume           ResumePayload
	CoverLetterText  string
	OnlineProfileURL string
	GithubURL        string
}

type ExtractionService interface {
	ExtractData(ctx context.Context, in ExtractionInput) (*models.ExtractedInformation, error)
}

type extractionService struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewExtractionService(gemini GeminiService, maxRetries int) ExtractionService {
	return &extractionService{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// ExtractData implements ExtractionService.
func (s *extractionService) ExtractData(ctx context.Context, in ExtractionInput) (*models.ExtractedInformation, error) {
	prompt := s.promptBuilder.BuildExtractionPrompt(in.CoverLetterText, in.OnlineProfileURL, in.GithubURL)

	parts := []*genai.Part{
		genai.NewPartFromBytes(in.Resume.Data, in.Resume.MIMEType),
		genai.NewPartFromText(prompt),
	}

	var response string
	var err error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		response, err = s.gemini.GenerateFromParts(ctx, parts, 0.2)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}
		if attempt < s.maxRetries {
			log.Printf("⚠️ Extraction attempt %d failed: %v. Retrying...\n", attempt, err)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to extract resume data: %w", err)
	}

	var extracted models.ExtractedInformation
	if err := ParseJSONResponse(response, &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}

	return &extracted, nil
}
