package handlers

import (
	"github.com/gofiber/fiber/v2"

	"aicruit/recruiting-api/internal/models"
	"aicruit/recruiting-api/internal/repositories"
)

type DashboardHandler struct {
	appRepo repositories.ApplicationRepository
	jdRepo  repositories.JobDescriptionRepository
}

func NewDashboardHandler(
	appRepo repositories.ApplicationRepository,
	jdRepo repositories.JobDescriptionRepository,
) *DashboardHandler {
	return &DashboardHandler{
		appRepo: appRepo,
		jdRepo:  jdRepo,
	}
}

// HandleStats handles GET /dashboard/stats. Match, ranking, and flag
// aggregates are computed from the most recent completed outcomes.
func (h *DashboardHandler) HandleStats(c *fiber.Ctx) error {
	stats := models.DashboardStats{}

	total, err := h.appRepo.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute stats",
		})
	}
	stats.TotalApplications = total

	completed, err := h.appRepo.CountByStatus(models.StatusCompleted)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute stats",
		})
	}
	stats.ProcessedApplications = completed

	failed, err := h.appRepo.CountByStatus(models.StatusFailed)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute stats",
		})
	}
	stats.FailedApplications = failed

	jdCount, err := h.jdRepo.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute stats",
		})
	}
	stats.TotalJobDescriptions = jdCount

	apps, err := h.appRepo.FindProcessed(500)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute stats",
		})
	}

	var rankingSum float64
	var rankingCount int64
	for _, app := range apps {
		result := app.Result
		if result == nil {
			continue
		}
		if result.MatchedJobDescriptionID != "" {
			stats.MatchedCandidates++
		}
		if result.RankingData != nil {
			rankingSum += result.RankingData.Ranking
			rankingCount++
		}
		if result.AuthenticityData.IsPotentiallyAiGenerated || result.AuthenticityData.IsPotentiallyFraudulent {
			stats.FlaggedCandidates++
		}
	}
	if rankingCount > 0 {
		stats.AverageRanking = rankingSum / float64(rankingCount)
	}

	return c.JSON(stats)
}
