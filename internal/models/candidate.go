package models

import "time"

// PersonalInformation is the identity block produced by the extraction AI.
// Linkedin and Github are omitted entirely when the AI could not find them;
// after pipeline normalization Github is always a non-nil string (possibly
// empty), while Linkedin keeps its absent state.
type PersonalInformation struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Linkedin *string `json:"linkedin,omitempty"`
	Github   *string `json:"github,omitempty"`
}

type WorkExperience struct {
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Dates       *string `json:"dates,omitempty"`
	Description string  `json:"description"`
	Industry    *string `json:"industry,omitempty"`
}

// Project entries always carry a technologies list after normalization,
// defaulting to an empty slice when the AI returned null or nothing.
type Project struct {
	Name         string   `json:"name"`
	Role         *string  `json:"role,omitempty"`
	Dates        *string  `json:"dates,omitempty"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

type Education struct {
	Degree      string  `json:"degree"`
	Institution string  `json:"institution"`
	Dates       *string `json:"dates,omitempty"`
}

type ExtractedInformation struct {
	PersonalInformation PersonalInformation `json:"personalInformation"`
	WorkExperience      []WorkExperience    `json:"workExperience"`
	Projects            []Project           `json:"projects"`
	Education           []Education         `json:"education"`
	Skills              []string            `json:"skills"`
}

type RankingInformation struct {
	Name    string  `json:"name"`
	Ranking float64 `json:"ranking"` // 0-100
	Reason  string  `json:"reason"`
}

type AuthenticityInformation struct {
	IsPotentiallyAiGenerated bool    `json:"isPotentiallyAiGenerated"`
	IsPotentiallyFraudulent  bool    `json:"isPotentiallyFraudulent"`
	EducationSeemsGenuine    bool    `json:"educationSeemsGenuine"`
	ExperienceSeemsGenuine   bool    `json:"experienceSeemsGenuine"`
	OverallConfidenceScore   float64 `json:"overallConfidenceScore"` // 0-1
	Reason                   string  `json:"reason"`
}

type DraftedEmail struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ProcessedApplication is the consolidated result of one pipeline run. It is
// built up stage by stage inside the pipeline and never mutated after being
// returned. Callers must treat a non-empty Error as the sole failure signal;
// absent optional fields only mean a stage was skipped or degraded.
type ProcessedApplication struct {
	ID                         string                  `json:"id"`
	FileName                   string                  `json:"fileName,omitempty"`
	MatchedJobDescriptionID    string                  `json:"matchedJobDescriptionId,omitempty"`
	MatchedJobDescriptionTitle string                  `json:"matchedJobDescriptionTitle,omitempty"`
	ExtractedData              *ExtractedInformation   `json:"extractedData,omitempty"`
	RankingData                *RankingInformation     `json:"rankingData,omitempty"`
	AuthenticityData           AuthenticityInformation `json:"authenticityData"`
	ApplicationTextContent     string                  `json:"applicationTextContent,omitempty"`
	DraftedInterviewEmail      *DraftedEmail           `json:"draftedInterviewEmail,omitempty"`
	PotentialStory             string                  `json:"potentialStory,omitempty"`
	ProcessedAt                time.Time               `json:"processedAt"`
	Error                      string                  `json:"error,omitempty"`
}
