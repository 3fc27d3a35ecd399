package handlers

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"aicruit/recruiting-api/internal/models"
	"aicruit/recruiting-api/internal/repositories"
	"aicruit/recruiting-api/internal/services"
)

type JobDescriptionHandler struct {
	jdRepo    repositories.JobDescriptionRepository
	pdfParser services.PDFParserService
	jobIndex  services.JobIndexService
}

func NewJobDescriptionHandler(
	jdRepo repositories.JobDescriptionRepository,
	pdfParser services.PDFParserService,
	jobIndex services.JobIndexService,
) *JobDescriptionHandler {
	return &JobDescriptionHandler{
		jdRepo:    jdRepo,
		pdfParser: pdfParser,
		jobIndex:  jobIndex,
	}
}

// HandleCreate handles POST /job-descriptions
func (h *JobDescriptionHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.JobDescriptionRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title is required",
		})
	}
	if req.CompanyName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "company_name is required",
		})
	}
	if req.FullText == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "full_text is required",
		})
	}

	jd := &models.JobDescription{
		ID:          uuid.New(),
		Title:       req.Title,
		CompanyName: req.CompanyName,
		FullText:    req.FullText,
	}

	if err := h.jdRepo.Create(jd); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create job description",
		})
	}

	h.indexAsync(jd)

	return c.Status(fiber.StatusCreated).JSON(jd)
}

// HandleUpload handles POST /job-descriptions/upload with a PDF file. The
// text is extracted server-side and stored like a pasted job description.
func (h *JobDescriptionHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file is required",
		})
	}

	title := c.FormValue("title")
	companyName := c.FormValue("company_name")
	if title == "" || companyName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title and company_name are required",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to open uploaded file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read uploaded file",
		})
	}

	text, err := h.pdfParser.ExtractText(data)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to extract text from PDF: %v", err),
		})
	}

	jd := &models.JobDescription{
		ID:          uuid.New(),
		Title:       title,
		CompanyName: companyName,
		FullText:    text,
	}

	if err := h.jdRepo.Create(jd); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create job description",
		})
	}

	h.indexAsync(jd)

	return c.Status(fiber.StatusCreated).JSON(jd)
}

// HandleList handles GET /job-descriptions
func (h *JobDescriptionHandler) HandleList(c *fiber.Ctx) error {
	jds, err := h.jdRepo.FindAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch job descriptions",
		})
	}

	return c.JSON(fiber.Map{
		"job_descriptions": jds,
	})
}

// HandleGet handles GET /job-descriptions/:id
func (h *JobDescriptionHandler) HandleGet(c *fiber.Ctx) error {
	jdID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job description ID format",
		})
	}

	jd, err := h.jdRepo.FindByID(jdID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job description not found",
		})
	}

	return c.JSON(jd)
}

// HandleDelete handles DELETE /job-descriptions/:id
func (h *JobDescriptionHandler) HandleDelete(c *fiber.Ctx) error {
	jdID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job description ID format",
		})
	}

	if err := h.jdRepo.Delete(jdID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job description not found",
		})
	}

	if h.jobIndex != nil {
		if err := h.jobIndex.RemoveJobDescription(c.Context(), jdID.String()); err != nil {
			log.Printf("⚠️  Failed to remove job description %s from index: %v\n", jdID, err)
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSearch handles POST /job-descriptions/search with a free-text query
// against the vector index.
func (h *JobDescriptionHandler) HandleSearch(c *fiber.Ctx) error {
	if h.jobIndex == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Search is not available",
		})
	}

	var req struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query is required",
		})
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}

	results, err := h.jobIndex.Search(c.Context(), req.Query, req.Limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Search failed",
		})
	}

	return c.JSON(fiber.Map{
		"results": results,
	})
}

// indexAsync pushes a job description into the vector index without blocking
// the request. The relational store is the source of truth, so index
// failures are only logged.
func (h *JobDescriptionHandler) indexAsync(jd *models.JobDescription) {
	if h.jobIndex == nil {
		return
	}
	go func(jd models.JobDescription) {
		if err := h.jobIndex.IndexJobDescription(context.Background(), &jd); err != nil {
			log.Printf("⚠️  Failed to index job description %s: %v\n", jd.ID, err)
		}
	}(*jd)
}
