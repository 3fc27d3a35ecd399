package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aicruit/recruiting-api/internal/models"
)

type JobDescriptionRepository interface {
	Create(jd *models.JobDescription) error
	FindByID(id uuid.UUID) (*models.JobDescription, error)
	FindAll() ([]models.JobDescription, error)
	Delete(id uuid.UUID) error
	Count() (int64, error)
}

type jobDescriptionRepository struct {
	db *gorm.DB
}

func NewJobDescriptionRepository(db *gorm.DB) JobDescriptionRepository {
	return &jobDescriptionRepository{db: db}
}

// Create implements JobDescriptionRepository.
func (r *jobDescriptionRepository) Create(jd *models.JobDescription) error {
	if err := r.db.Create(jd).Error; err != nil {
		return fmt.Errorf("failed to create job description: %w", err)
	}
	return nil
}

// FindByID implements JobDescriptionRepository.
func (r *jobDescriptionRepository) FindByID(id uuid.UUID) (*models.JobDescription, error) {
	var jd models.JobDescription
	if err := r.db.Where("id = ?", id).First(&jd).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("job description not found")
		}
		return nil, fmt.Errorf("failed to find job description: %w", err)
	}
	return &jd, nil
}

// FindAll implements JobDescriptionRepository.
func (r *jobDescriptionRepository) FindAll() ([]models.JobDescription, error) {
	var jds []models.JobDescription
	if err := r.db.Order("created_at ASC").Find(&jds).Error; err != nil {
		return nil, fmt.Errorf("failed to list job descriptions: %w", err)
	}
	return jds, nil
}

// Delete implements JobDescriptionRepository.
func (r *jobDescriptionRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.JobDescription{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete job description: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("job description not found")
	}
	return nil
}

// Count implements JobDescriptionRepository.
func (r *jobDescriptionRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.JobDescription{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count job descriptions: %w", err)
	}
	return count, nil
}
