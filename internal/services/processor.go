package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"aicruit/recruiting-api/internal/models"
	"aicruit/recruiting-api/internal/repositories"
)

// ApplicationProcessor loads a queued application, runs the pipeline against
// the current job description catalog, and persists the outcome. Pipeline
// failures are recorded on the application row; an error return means the
// surrounding bookkeeping failed, not the pipeline itself.
type ApplicationProcessor interface {
	Process(ctx context.Context, appID uuid.UUID) error
}

type applicationProcessor struct {
	appRepo  repositories.ApplicationRepository
	jdRepo   repositories.JobDescriptionRepository
	storage  StorageService
	pipeline PipelineService
}

func NewApplicationProcessor(
	appRepo repositories.ApplicationRepository,
	jdRepo repositories.JobDescriptionRepository,
	storage StorageService,
	pipeline PipelineService,
) ApplicationProcessor {
	return &applicationProcessor{
		appRepo:  appRepo,
		jdRepo:   jdRepo,
		storage:  storage,
		pipeline: pipeline,
	}
}

// Process implements ApplicationProcessor. The queued row is claimed with a
// conditional status update before anything runs, so an application that was
// enqueued twice (direct enqueue plus the poller) is only processed once.
func (p *applicationProcessor) Process(ctx context.Context, appID uuid.UUID) error {
	claimed, err := p.appRepo.ClaimForProcessing(appID)
	if err != nil {
		return fmt.Errorf("failed to claim application %s: %w", appID, err)
	}
	if !claimed {
		log.Printf("⚠️  Application %s already claimed or finished, skipping\n", appID)
		return nil
	}

	app, err := p.appRepo.FindByID(appID)
	if err != nil {
		return fmt.Errorf("failed to load application %s: %w", appID, err)
	}

	in, err := p.buildPipelineInput(app)
	if err != nil {
		if updateErr := p.appRepo.UpdateError(appID, err.Error()); updateErr != nil {
			return fmt.Errorf("failed to record error for application %s: %w", appID, updateErr)
		}
		return err
	}

	result := p.pipeline.ProcessApplication(ctx, *in)

	if err := p.appRepo.SaveResult(appID, result); err != nil {
		return fmt.Errorf("failed to save result for application %s: %w", appID, err)
	}

	return nil
}

func (p *applicationProcessor) buildPipelineInput(app *models.Application) (*PipelineInput, error) {
	resumeData, err := p.storage.ReadFile(app.ResumeFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}

	in := &PipelineInput{
		Resume: UploadedFile{
			Name:        app.ResumeFileName,
			ContentType: app.ResumeContentType,
			Data:        resumeData,
		},
		OnlineProfileURL: app.OnlineProfileURL,
		GithubURL:        app.GithubURL,
	}

	if app.CoverLetterFilePath != nil {
		coverLetterData, err := p.storage.ReadFile(*app.CoverLetterFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read cover letter file: %w", err)
		}
		name := ""
		if app.CoverLetterFileName != nil {
			name = *app.CoverLetterFileName
		}
		contentType := ""
		if app.CoverLetterType != nil {
			contentType = *app.CoverLetterType
		}
		in.CoverLetter = &UploadedFile{
			Name:        name,
			ContentType: contentType,
			Data:        coverLetterData,
		}
	}

	// Snapshot the catalog so the whole run sees a consistent set.
	jds, err := p.jdRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load job descriptions: %w", err)
	}
	in.JobDescriptions = jds

	return in, nil
}
