package models

import (
	"time"

	"github.com/google/uuid"
)

type JobDescription struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	CompanyName string    `gorm:"type:text;not null" json:"company_name"`
	FullText    string    `gorm:"type:text;not null" json:"full_text"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (JobDescription) TableName() string {
	return "job_descriptions"
}
