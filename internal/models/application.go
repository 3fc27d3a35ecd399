package models

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	StatusQueued     ApplicationStatus = "queued"
	StatusProcessing ApplicationStatus = "processing"
	StatusCompleted  ApplicationStatus = "completed"
	StatusFailed     ApplicationStatus = "failed"
)

// Application is one uploaded resume submission queued for pipeline
// processing. Result holds the full pipeline outcome once processed.
type Application struct {
	ID                  uuid.UUID             `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ResumeFileName      string                `gorm:"type:text;not null" json:"resume_file_name"`
	ResumeFilePath      string                `gorm:"type:text;not null" json:"-"`
	ResumeContentType   string                `gorm:"type:text;not null" json:"resume_content_type"`
	CoverLetterFileName *string               `gorm:"type:text" json:"cover_letter_file_name,omitempty"`
	CoverLetterFilePath *string               `gorm:"type:text" json:"-"`
	CoverLetterType     *string               `gorm:"type:text" json:"cover_letter_content_type,omitempty"`
	OnlineProfileURL    string                `gorm:"type:text" json:"online_profile_url,omitempty"`
	GithubURL           string                `gorm:"type:text" json:"github_url,omitempty"`
	Status              ApplicationStatus     `gorm:"not null;default:'queued'" json:"status"`
	Result              *ProcessedApplication `gorm:"type:jsonb;serializer:json" json:"result,omitempty"`
	ErrorMessage        *string               `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt           time.Time             `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time             `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Application) TableName() string {
	return "applications"
}
