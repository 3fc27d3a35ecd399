package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"aicruit/recruiting-api/internal/models"
)

const initialAuthenticityReason = "Authenticity check not performed or inconclusive."

// PipelineInput carries one application through a full processing run. The
// job description catalog is snapshotted by the caller so a run always sees a
// consistent set.
type PipelineInput struct {
	Resume           UploadedFile
	CoverLetter      *UploadedFile
	OnlineProfileURL string
	GithubURL        string
	JobDescriptions  []models.JobDescription
}

// PipelineService runs the end-to-end application pipeline: normalize the
// uploaded files, extract structured data, match against the catalog, rank,
// optionally generate a story, verify authenticity, and optionally draft an
// interview email. ProcessApplication never returns an error; failures are
// reported through the Error field of the result so that a partially
// processed outcome is still persisted.
type PipelineService interface {
	ProcessApplication(ctx context.Context, in PipelineInput) *models.ProcessedApplication
}

type pipelineService struct {
	normalizer  FileNormalizer
	extractor   ExtractionService
	matcher     MatchingService
	ranker      RankingService
	verifier    AuthenticityService
	storyteller StoryService
	emailer     EmailService

	now   func() time.Time
	newID func() uuid.UUID
}

func NewPipelineService(
	normalizer FileNormalizer,
	extractor ExtractionService,
	matcher MatchingService,
	ranker RankingService,
	verifier AuthenticityService,
	storyteller StoryService,
	emailer EmailService,
) PipelineService {
	return &pipelineService{
		normalizer:  normalizer,
		extractor:   extractor,
		matcher:     matcher,
		ranker:      ranker,
		verifier:    verifier,
		storyteller: storyteller,
		emailer:     emailer,
		now:         time.Now,
		newID:       uuid.New,
	}
}

// ProcessApplication implements PipelineService.
func (s *pipelineService) ProcessApplication(ctx context.Context, in PipelineInput) *models.ProcessedApplication {
	out := &models.ProcessedApplication{
		ID:          s.newID().String(),
		FileName:    in.Resume.Name,
		ProcessedAt: s.now(),
		AuthenticityData: models.AuthenticityInformation{
			IsPotentiallyAiGenerated: false,
			IsPotentiallyFraudulent:  false,
			EducationSeemsGenuine:    true,
			ExperienceSeemsGenuine:   true,
			OverallConfidenceScore:   0,
			Reason:                   initialAuthenticityReason,
		},
	}

	log.Printf("🚀 Processing application %s (%s)\n", out.ID, out.FileName)

	resume, err := s.normalizer.NormalizeResume(in.Resume)
	if err != nil {
		out.Error = err.Error()
		return out
	}

	coverLetterText := ""
	if in.CoverLetter != nil {
		coverLetterText = s.normalizer.NormalizeCoverLetter(*in.CoverLetter)
	}

	extracted, err := s.extractor.ExtractData(ctx, ExtractionInput{
		Resume:           resume,
		CoverLetterText:  coverLetterText,
		OnlineProfileURL: in.OnlineProfileURL,
		GithubURL:        in.GithubURL,
	})
	if err != nil {
		return s.fail(out, err)
	}
	normalizeExtractedData(extracted)
	out.ExtractedData = extracted

	if extracted.PersonalInformation.Name == "" {
		out.Error = "Failed to extract candidate name from resume."
		out.AuthenticityData.Reason = "Authenticity check skipped due to data extraction error."
		return out
	}

	if len(in.JobDescriptions) == 0 {
		out.Error = "No job descriptions available in the system to match against. Please add job descriptions first."
		out.AuthenticityData.Reason = "Authenticity check skipped due to missing job descriptions."
		return out
	}

	matchOutput, err := s.matcher.MatchCandidate(ctx, extracted.Skills, experienceSummary(extracted), in.JobDescriptions)
	if err != nil {
		return s.fail(out, err)
	}

	var matchedJd *models.JobDescription
	if matchOutput.MatchedJobDescriptionID != "" {
		for i := range in.JobDescriptions {
			if in.JobDescriptions[i].ID.String() == matchOutput.MatchedJobDescriptionID {
				matchedJd = &in.JobDescriptions[i]
				break
			}
		}
		if matchedJd != nil {
			out.MatchedJobDescriptionID = matchedJd.ID.String()
			out.MatchedJobDescriptionTitle = matchedJd.Title
		} else {
			log.Printf("⚠️ AI matched to JD ID %s but it was not found in the provided list.\n", matchOutput.MatchedJobDescriptionID)
		}
	}
	if matchedJd == nil {
		log.Printf("⚠️ No suitable job description found for candidate %s. Reason: %s\n", extracted.PersonalInformation.Name, matchOutput.MatchReason)
	}

	var rankingData *models.RankingInformation
	if matchedJd != nil {
		rankOutput, err := s.ranker.RankCandidates(ctx, matchedJd.FullText, []RankingCandidate{
			{
				Name:       extracted.PersonalInformation.Name,
				Skills:     strings.Join(extracted.Skills, ", "),
				Experience: rankingExperience(extracted),
			},
		})
		if err != nil {
			return s.fail(out, err)
		}
		if len(rankOutput) > 0 {
			rankingData = &rankOutput[0]
		} else {
			log.Printf("⚠️ Ranking did not return expected output for %s against JD %s\n", extracted.PersonalInformation.Name, matchedJd.Title)
		}
		out.RankingData = rankingData

		if rankingData != nil && rankingData.Ranking >= 70 {
			story, storyErr := s.storyteller.GenerateStory(ctx, StoryInput{
				CandidateName:                 extracted.PersonalInformation.Name,
				CandidateSkills:               extracted.Skills,
				CandidateExperienceSummary:    experienceSummary(extracted),
				MatchedJobTitle:               matchedJd.Title,
				MatchedJobKeyResponsibilities: truncate(matchedJd.FullText, 1000),
				CompanyName:                   matchedJd.CompanyName,
			})
			if storyErr != nil {
				log.Printf("❌ Error generating candidate potential story: %v\n", storyErr)
			} else {
				out.PotentialStory = story
			}
		}
	}

	applicationText := assembleApplicationText(extracted, coverLetterText, in.OnlineProfileURL)
	out.ApplicationTextContent = applicationText

	rawAuthenticity, err := s.verifier.VerifyApplication(ctx, AuthenticityInput{
		ApplicationText: applicationText,
		Education:       extracted.Education,
		Experience:      extracted.WorkExperience,
	})
	if err != nil {
		return s.fail(out, err)
	}
	if rawAuthenticity != nil {
		out.AuthenticityData = normalizeAuthenticity(rawAuthenticity)
	} else {
		out.AuthenticityData.Reason = "Authenticity check AI flow returned no conclusive data."
	}

	shouldDraftEmail := rankingData != nil &&
		rankingData.Ranking >= 80 &&
		extracted.PersonalInformation.Email != "" &&
		matchedJd != nil &&
		!((out.AuthenticityData.IsPotentiallyAiGenerated || out.AuthenticityData.IsPotentiallyFraudulent) &&
			out.AuthenticityData.OverallConfidenceScore > 0.6)

	if shouldDraftEmail {
		email, emailErr := s.emailer.DraftInterviewEmail(ctx, EmailInput{
			CandidateName:  extracted.PersonalInformation.Name,
			CandidateEmail: extracted.PersonalInformation.Email,
			JobTitle:       matchedJd.Title,
			CompanyName:    matchedJd.CompanyName,
		})
		if emailErr != nil {
			log.Printf("❌ Error drafting interview email: %v\n", emailErr)
		} else if email != nil {
			out.DraftedInterviewEmail = email
		}
	}

	log.Printf("✅ Finished processing application %s\n", out.ID)
	return out
}

// fail records a non-fatal-guard pipeline error on the outcome. The initial
// authenticity reason is only replaced if no stage has updated it yet.
func (s *pipelineService) fail(out *models.ProcessedApplication, err error) *models.ProcessedApplication {
	log.Printf("❌ Error processing application: %v\n", err)
	if out.AuthenticityData.Reason == initialAuthenticityReason {
		out.AuthenticityData.Reason = "Authenticity check skipped due to processing error."
	}
	out.Error = fmt.Sprintf("Processing failed: %v", err)
	return out
}

// normalizeExtractedData applies the post-extraction defaults: a missing
// github handle becomes an empty string and missing project technology lists
// become empty slices.
func normalizeExtractedData(data *models.ExtractedInformation) {
	if data.PersonalInformation.Github == nil {
		empty := ""
		data.PersonalInformation.Github = &empty
	}
	for i := range data.Projects {
		if data.Projects[i].Technologies == nil {
			data.Projects[i].Technologies = []string{}
		}
	}
}

func normalizeAuthenticity(raw *AuthenticityResult) models.AuthenticityInformation {
	info := models.AuthenticityInformation{
		IsPotentiallyAiGenerated: raw.IsPotentiallyAiGenerated,
		IsPotentiallyFraudulent:  raw.IsPotentiallyFraudulent,
		EducationSeemsGenuine:    true,
		ExperienceSeemsGenuine:   true,
		Reason:                   raw.Reason,
	}
	if raw.EducationSeemsGenuine != nil {
		info.EducationSeemsGenuine = *raw.EducationSeemsGenuine
	}
	if raw.ExperienceSeemsGenuine != nil {
		info.ExperienceSeemsGenuine = *raw.ExperienceSeemsGenuine
	}
	if raw.OverallConfidenceScore != nil {
		info.OverallConfidenceScore = *raw.OverallConfidenceScore
	}
	if info.Reason == "" {
		info.Reason = "No specific reason provided by AI."
	}
	return info
}

// experienceSummary renders work experience for the matching and story
// prompts, one entry per paragraph.
func experienceSummary(data *models.ExtractedInformation) string {
	if len(data.WorkExperience) == 0 {
		return "No prior experience listed."
	}
	entries := make([]string, 0, len(data.WorkExperience))
	for _, exp := range data.WorkExperience {
		company := exp.Company
		if company == "" {
			company = "N/A"
		}
		dates := "N/A"
		if exp.Dates != nil && *exp.Dates != "" {
			dates = *exp.Dates
		}
		entries = append(entries, fmt.Sprintf("%s at %s (%s): %s", exp.Title, company, dates, exp.Description))
	}
	return strings.Join(entries, "\n\n")
}

// rankingExperience is the denser variant used by the ranking prompt, without
// the date ranges.
func rankingExperience(data *models.ExtractedInformation) string {
	entries := make([]string, 0, len(data.WorkExperience))
	for _, exp := range data.WorkExperience {
		company := exp.Company
		if company == "" {
			company = "N/A"
		}
		entries = append(entries, fmt.Sprintf("%s at %s: %s", exp.Title, company, exp.Description))
	}
	return strings.Join(entries, "\n\n")
}

// assembleApplicationText builds the free-text document handed to the
// authenticity check, combining the candidate identity, cover letter excerpt,
// experience and education summaries, skills, and online profile URL.
func assembleApplicationText(data *models.ExtractedInformation, coverLetterText, onlineProfileURL string) string {
	var b strings.Builder

	if data.PersonalInformation.Name != "" {
		fmt.Fprintf(&b, "Candidate: %s\n\n", data.PersonalInformation.Name)
	}
	if coverLetterText != "" {
		b.WriteString("Cover Letter Content (or placeholder):\n" + truncate(coverLetterText, 1000) + "\n\n")
	}
	if len(data.WorkExperience) > 0 {
		b.WriteString("Experience Summary (for context):\n")
		for _, exp := range data.WorkExperience {
			fmt.Fprintf(&b, "Title: %s at %s. Description: %s...\n", exp.Title, exp.Company, truncate(exp.Description, 150))
		}
		b.WriteString("\n")
	}
	if len(data.Education) > 0 {
		b.WriteString("Education Summary (for context):\n")
		for _, edu := range data.Education {
			fmt.Fprintf(&b, "Degree: %s from %s.\n", edu.Degree, edu.Institution)
		}
		b.WriteString("\n")
	}
	if len(data.Skills) > 0 {
		fmt.Fprintf(&b, "Skills: %s\n\n", strings.Join(data.Skills, ", "))
	}
	if onlineProfileURL != "" {
		b.WriteString("Online Profile URL Provided: " + onlineProfileURL + "\n(AI will consider typical information from such a profile for authenticity check based on this URL.)\n\n")
	}

	if b.Len() == 0 && coverLetterText == "" && onlineProfileURL == "" {
		return "No textual content available for authenticity check other than structured data which will be passed separately."
	}

	return strings.TrimSpace(b.String())
}

// truncate cuts on rune boundaries so multibyte text never yields invalid
// UTF-8 in the assembled output.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
