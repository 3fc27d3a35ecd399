package models

type ApplicationResponse struct {
	ID           string                `json:"id"`
	Status       string                `json:"status"`
	Result       *ProcessedApplication `json:"result,omitempty"`
	ErrorMessage *string               `json:"error_message,omitempty"`
}

type JobDescriptionRequest struct {
	Title       string `json:"title" validate:"required"`
	CompanyName string `json:"company_name" validate:"required"`
	FullText    string `json:"full_text" validate:"required"`
}

type JobDescriptionSearchResult struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Score float32 `json:"score"`
}

type DashboardStats struct {
	TotalApplications     int64   `json:"total_applications"`
	ProcessedApplications int64   `json:"processed_applications"`
	FailedApplications    int64   `json:"failed_applications"`
	TotalJobDescriptions  int64   `json:"total_job_descriptions"`
	MatchedCandidates     int64   `json:"matched_candidates"`
	AverageRanking        float64 `json:"average_ranking"`
	FlaggedCandidates     int64   `json:"flagged_candidates"`
}
