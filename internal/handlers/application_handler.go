package handlers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"aicruit/recruiting-api/internal/models"
	"aicruit/recruiting-api/internal/repositories"
	"aicruit/recruiting-api/internal/services"
)

type ApplicationHandler struct {
	appRepo        repositories.ApplicationRepository
	storageService services.StorageService
	worker         services.Worker
	maxFileSize    int64
}

func NewApplicationHandler(
	appRepo repositories.ApplicationRepository,
	storageService services.StorageService,
	worker services.Worker,
	maxFileSize int64,
) *ApplicationHandler {
	return &ApplicationHandler{
		appRepo:        appRepo,
		storageService: storageService,
		worker:         worker,
		maxFileSize:    maxFileSize,
	}
}

// HandleSubmit handles POST /applications. The resume is required; cover
// letter, online profile URL, and github URL are optional. Processing is
// asynchronous: the response carries the application ID to poll for results.
func (h *ApplicationHandler) HandleSubmit(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	files := form.File

	resumeFiles, exists := files["resume"]
	if !exists || len(resumeFiles) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume file is required",
		})
	}
	resumeFile := resumeFiles[0]

	if resumeFile.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	resumeStoredName, _, err := h.storageService.SaveFile(resumeFile, "resume")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save resume file: %v", err),
		})
	}

	app := &models.Application{
		ID:                uuid.New(),
		ResumeFileName:    resumeFile.Filename,
		ResumeFilePath:    resumeStoredName,
		ResumeContentType: resumeFile.Header.Get("Content-Type"),
		OnlineProfileURL:  c.FormValue("online_profile_url"),
		GithubURL:         c.FormValue("github_url"),
		Status:            models.StatusQueued,
	}

	if clFiles, ok := files["cover_letter"]; ok && len(clFiles) > 0 {
		clFile := clFiles[0]

		if clFile.Size > h.maxFileSize {
			h.cleanupFile(resumeStoredName)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Cover letter file too large. Max size: %d bytes", h.maxFileSize),
			})
		}

		clStoredName, _, err := h.storageService.SaveFile(clFile, "cover_letter")
		if err != nil {
			h.cleanupFile(resumeStoredName)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to save cover letter file: %v", err),
			})
		}

		clName := clFile.Filename
		clType := clFile.Header.Get("Content-Type")
		app.CoverLetterFileName = &clName
		app.CoverLetterFilePath = &clStoredName
		app.CoverLetterType = &clType
	}

	if err := h.appRepo.Create(app); err != nil {
		// Cleanup uploaded files if database insert fails
		h.cleanupFile(resumeStoredName)
		if app.CoverLetterFilePath != nil {
			h.cleanupFile(*app.CoverLetterFilePath)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create application record",
		})
	}

	// Enqueue for processing
	h.worker.EnqueueJob(app.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.ApplicationResponse{
		ID:     app.ID.String(),
		Status: string(models.StatusQueued),
	})
}

// cleanupFile removes an upload left behind by a failed submission. Failures
// leave orphaned files on disk, so they are logged for diagnosis.
func (h *ApplicationHandler) cleanupFile(storedName string) {
	if err := h.storageService.DeleteFile(storedName); err != nil {
		log.Printf("⚠️  Failed to clean up uploaded file %s: %v\n", storedName, err)
	}
}

// HandleGetApplication handles GET /applications/:id
func (h *ApplicationHandler) HandleGetApplication(c *fiber.Ctx) error {
	idParam := c.Params("id")
	appID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid application ID format",
		})
	}

	app, err := h.appRepo.FindByID(appID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Application not found",
		})
	}

	response := models.ApplicationResponse{
		ID:     app.ID.String(),
		Status: string(app.Status),
	}

	if app.Status == models.StatusCompleted || app.Status == models.StatusFailed {
		response.Result = app.Result
	}

	if app.Status == models.StatusFailed {
		response.ErrorMessage = app.ErrorMessage
	}

	return c.JSON(response)
}

// HandleListCandidates handles GET /candidates, returning the outcomes of
// completed runs for the recruiter dashboard.
func (h *ApplicationHandler) HandleListCandidates(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)

	apps, err := h.appRepo.FindProcessed(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch candidates",
		})
	}

	candidates := make([]*models.ProcessedApplication, 0, len(apps))
	for _, app := range apps {
		if app.Result != nil {
			candidates = append(candidates, app.Result)
		}
	}

	return c.JSON(fiber.Map{
		"candidates": candidates,
	})
}
