package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aicruit/recruiting-api/internal/models"
)

type ApplicationRepository interface {
	Create(app *models.Application) error
	FindByID(id uuid.UUID) (*models.Application, error)
	FindProcessed(limit int) ([]models.Application, error)
	FindPendingJobs(limit int) ([]models.Application, error)
	ClaimForProcessing(id uuid.UUID) (bool, error)
	UpdateStatus(id uuid.UUID, status models.ApplicationStatus) error
	SaveResult(id uuid.UUID, result *models.ProcessedApplication) error
	UpdateError(id uuid.UUID, errorMsg string) error
	CountByStatus(status models.ApplicationStatus) (int64, error)
	Count() (int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(app *models.Application) error {
	if err := r.db.Create(app).Error; err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *applicationRepository) FindByID(id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := r.db.Where("id = ?", id).First(&app).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("application not found")
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &app, nil
}

func (r *applicationRepository) FindProcessed(limit int) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.
		Where("status = ?", models.StatusCompleted).
		Order("updated_at DESC").
		Limit(limit).
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find processed applications: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) FindPendingJobs(limit int) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending applications: %w", err)
	}
	return apps, nil
}

// ClaimForProcessing atomically moves a queued application to processing.
// A false return means another worker already holds the application (or it
// finished), so the caller must not run it again.
func (r *applicationRepository) ClaimForProcessing(id uuid.UUID) (bool, error) {
	result := r.db.Model(&models.Application{}).
		Where("id = ? AND status = ?", id, models.StatusQueued).
		Updates(map[string]interface{}{
			"status":     models.StatusProcessing,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to claim application: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *applicationRepository) UpdateStatus(id uuid.UUID, status models.ApplicationStatus) error {
	result := r.db.Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("application not found")
	}
	return nil
}

// SaveResult persists a finished pipeline outcome. The outcome's own Error
// field decides the final status: the pipeline reports failures through the
// result record, not through a separate error return.
func (r *applicationRepository) SaveResult(id uuid.UUID, result *models.ProcessedApplication) error {
	status := models.StatusCompleted
	updates := map[string]interface{}{
		"result":     result,
		"status":     status,
		"updated_at": time.Now(),
	}
	if result.Error != "" {
		updates["status"] = models.StatusFailed
		updates["error_message"] = result.Error
	}

	res := r.db.Model(&models.Application{}).
		Where("id = ?", id).
		Updates(updates)

	if res.Error != nil {
		return fmt.Errorf("failed to save result: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("application not found")
	}
	return nil
}

func (r *applicationRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("application not found")
	}
	return nil
}

func (r *applicationRepository) CountByStatus(status models.ApplicationStatus) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Application{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return count, nil
}

func (r *applicationRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Application{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return count, nil
}
