package services

import (
	"fmt"
	"strings"

	"aicruit/recruiting-api/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildExtractionPrompt creates the instruction text that accompanies the
// resume document part. The resume itself is attached as inline data.
func (pb *PromptBuilder) BuildExtractionPrompt(coverLetterText, onlineProfileURL, githubURL string) string {
	var sb strings.Builder

	sb.WriteString(`You are an expert resume and professional profile parser. Extract information from the attached resume (and the supplementary inputs below, when present) into a structured JSON output.

The resume is the primary source of information. Use the cover letter text, if provided, to supplement or corroborate details.
`)

	if coverLetterText != "" {
		sb.WriteString(fmt.Sprintf("\n---\nCover Letter Text:\n%s\n---\n", coverLetterText))
	}
	if onlineProfileURL != "" {
		sb.WriteString(fmt.Sprintf("\n---\nOnline Profile URL: %s\nConsider the typical content of such a profile (headline, key skills, summary) to supplement or corroborate the main output fields.\n---\n", onlineProfileURL))
	}
	if githubURL != "" {
		sb.WriteString(fmt.Sprintf("\n---\nExplicitly Provided GitHub URL: %s\nYou MUST use this value for personalInformation.github.\n---\n", githubURL))
	}

	sb.WriteString(`
Separate Work Experience from Projects:
- "workExperience": traditional paid employment or significant internships, with company name, job title and dates.
- "projects": personal, academic or open-source work. If no technologies are listed for a project, provide an empty array for "technologies" rather than null.

Personal information rules:
- If an explicitly provided GitHub URL was given above, use it for personalInformation.github. Otherwise search the documents. If no GitHub URL is found from any source, omit the "github" field entirely (do not set it to null or an empty string).
- Omit "linkedin" when no LinkedIn URL is found.
- For each company in work experience, include its primary "industry" when you can determine it, otherwise omit the field.

Return ONLY a JSON object with this shape:
{
  "personalInformation": {"name": "", "email": "", "phone": "", "linkedin": "", "github": ""},
  "workExperience": [{"title": "", "company": "", "dates": "", "description": "", "industry": ""}],
  "projects": [{"name": "", "role": "", "dates": "", "description": "", "technologies": []}],
  "education": [{"degree": "", "institution": "", "dates": ""}],
  "skills": []
}
`)

	return sb.String()
}

// BuildMatchingPrompt creates the prompt for matching a candidate against the
// job description catalog.
func (pb *PromptBuilder) BuildMatchingPrompt(skills []string, experienceSummary string, jds []models.JobDescription) string {
	var sb strings.Builder

	sb.WriteString("You are an expert recruitment assistant. Your task is to match a candidate to the most suitable job description from a provided list.\n\nCandidate Profile:\nSkills:\n")
	for _, skill := range skills {
		sb.WriteString(fmt.Sprintf("- %s\n", skill))
	}

	sb.WriteString(fmt.Sprintf("\nExperience Summary:\n%s\n\nAvailable Job Descriptions:\n", experienceSummary))
	for _, jd := range jds {
		sb.WriteString(fmt.Sprintf("---\nJob ID: %s\nJob Title: %s\nDescription:\n%s\n---\n", jd.ID.String(), jd.Title, jd.FullText))
	}

	sb.WriteString(`
Analyze the candidate's skills and experience against each job description and determine which one is the best fit.
If a suitable match is found, provide its ID, a confidence score (0.0 to 1.0) and a brief reason.
If no job description is a reasonably good fit (e.g., confidence below 0.6), return null for the ID, 0 for confidence, and explain why no suitable match was found.
Consider keywords, required experience levels, and overall role alignment.

Return ONLY a JSON object:
{"matchedJobDescriptionId": "<id or null>", "matchConfidence": <0-1>, "matchReason": ""}
`)

	return sb.String()
}

// BuildRankingPrompt creates the prompt for ranking candidates against a
// single job description.
func (pb *PromptBuilder) BuildRankingPrompt(jobDescription string, candidates []RankingCandidate) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`You are an expert talent acquisition specialist. Given a job description and a list of candidates with their skills and experience, rank the candidates based on how well they match the job description. Provide a ranking from 0 to 100 and a brief explanation for each candidate's ranking.

Job Description: %s

Candidates:
`, jobDescription))

	for _, c := range candidates {
		sb.WriteString(fmt.Sprintf("Name: %s\nSkills: %s\nExperience: %s\n---\n", c.Name, c.Skills, c.Experience))
	}

	sb.WriteString(`
Return ONLY a JSON array of objects, where each object has the candidate's name, a numerical ranking (0-100), and a reason:
[{"name": "", "ranking": <0-100>, "reason": ""}]
`)

	return sb.String()
}

// BuildAuthenticityPrompt creates the prompt for the authenticity review of an
// application.
func (pb *PromptBuilder) BuildAuthenticityPrompt(applicationText string, education []models.Education, experience []models.WorkExperience) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`You are an expert in identifying potentially problematic job applications. Analyze the provided application data for signs of AI-generated content, the genuineness of listed educational institutions and companies, and general signs of fraudulent or fabricated content.

Application Text (for overall analysis and AI generation detection):
%s
`, applicationText))

	if len(education) > 0 {
		sb.WriteString("\nExtracted Education History:\n")
		for _, edu := range education {
			sb.WriteString(fmt.Sprintf("- Institution: %s, Degree: %s, Dates: %s\n", edu.Institution, edu.Degree, orNotSpecified(edu.Dates)))
		}
		sb.WriteString("For EACH institution above, judge whether the name refers to a real educational institution. Set educationSeemsGenuine to false if ANY institution seems fabricated or implausible, and include a per-institution verification note in the reason.\n")
	} else {
		sb.WriteString("\n(No education data provided for verification.)\n")
	}

	if len(experience) > 0 {
		sb.WriteString("\nExtracted Work Experience (for company verification - use general knowledge):\n")
		for _, exp := range experience {
			sb.WriteString(fmt.Sprintf("- Company: %s, Title: %s, Dates: %s\n", orNotSpecifiedString(exp.Company), exp.Title, orNotSpecified(exp.Dates)))
		}
		sb.WriteString("Assess if company names sound like real, known entities or fabricated. Set experienceSeemsGenuine accordingly.\n")
	} else {
		sb.WriteString("\n(No experience data provided for company verification.)\n")
	}

	sb.WriteString(`
Return ONLY a JSON object:
{
  "isPotentiallyAiGenerated": <bool>,
  "isPotentiallyFraudulent": <bool>,
  "educationSeemsGenuine": <bool>,
  "experienceSeemsGenuine": <bool>,
  "overallConfidenceScore": <0-1, confidence in the most significant negative finding; very low if all flags are false>,
  "reason": "<detailed explanation, including per-institution verification notes and comments on company genuineness when flagged; if all checks pass, state it appears genuine>"
}
A score above 0.6 indicates a strong concern.
`)

	return sb.String()
}

// BuildStoryPrompt creates the prompt for the candidate "potential story"
// blurb.
func (pb *PromptBuilder) BuildStoryPrompt(in StoryInput) string {
	return fmt.Sprintf(`You are an expert talent storyteller and recruitment strategist for %s.
Craft a brief, optimistic, and engaging "potential story" (2-4 sentences) for a candidate based on their profile and a matched job, helping recruiters envision the candidate's potential impact and growth.

Candidate Name: %s
Candidate Key Skills: %s
Candidate Experience Summary: %s

Matched Job Title: %s
Matched Job Key Responsibilities: %s

Focus on 1-2 key strengths that align with the job, suggest how the candidate might contribute or grow at %s, keep a positive and forward-looking tone, and avoid definitive claims (use "could", "potential", "may", "suggests").

Return ONLY a JSON object: {"potentialStory": ""}
`,
		in.CompanyName, in.CandidateName, strings.Join(in.CandidateSkills, ", "), in.CandidateExperienceSummary,
		in.MatchedJobTitle, in.MatchedJobKeyResponsibilities, in.CompanyName)
}

// BuildEmailPrompt creates the prompt for drafting an interview invitation
// email.
func (pb *PromptBuilder) BuildEmailPrompt(in EmailInput) string {
	return fmt.Sprintf(`You are an expert HR assistant tasked with drafting an interview invitation email.

Company Name: %s
Candidate Name: %s
Candidate Email: %s
Job Title: %s

Draft a professional, friendly interview invitation email. The subject must be formatted as 'Interview Invitation: [Job Title] at [Company Name]'. The body should address the candidate by name, mention the role, and include placeholders like [Interviewer Name], [Date/Time Options], and [Video Call Link/Location].

Return ONLY a JSON object: {"emailSubject": "", "emailBody": ""}
`,
		in.CompanyName, in.CandidateName, in.CandidateEmail, in.JobTitle)
}

func orNotSpecified(s *string) string {
	if s == nil || *s == "" {
		return "Not Specified"
	}
	return *s
}

func orNotSpecifiedString(s string) string {
	if s == "" {
		return "Not Specified"
	}
	return s
}
