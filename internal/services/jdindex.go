package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"aicruit/recruiting-api/internal/models"
)

// JobIndexService maintains a vector index of job descriptions so recruiters
// can search the catalog semantically. Indexing failures are surfaced to the
// caller but are expected to be treated as non-fatal; the relational store
// stays the source of truth.
type JobIndexService interface {
	InitCollection() error
	IndexJobDescription(ctx context.Context, jd *models.JobDescription) error
	RemoveJobDescription(ctx context.Context, jdID string) error
	Search(ctx context.Context, query string, limit int) ([]models.JobDescriptionSearchResult, error)
}

type jobIndexService struct {
	client         *qdrant.Client
	gemini         GeminiService
	collectionName string
	vectorSize     uint64
}

func NewJobIndexService(urlStr, apiKey, collectionName string, gemini GeminiService) (JobIndexService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port, not the REST one
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &jobIndexService{
		client:         client,
		gemini:         gemini,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
	}, nil
}

// InitCollection implements JobIndexService.
func (s *jobIndexService) InitCollection() error {
	ctx := context.Background()

	exists, err := s.client.CollectionExists(ctx, s.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Collection already exists")
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})

	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", s.collectionName)
	return nil
}

// IndexJobDescription implements JobIndexService.
func (s *jobIndexService) IndexJobDescription(ctx context.Context, jd *models.JobDescription) error {
	embedding, err := s.gemini.GenerateEmbedding(ctx, jd.Title+"\n\n"+jd.FullText)
	if err != nil {
		return fmt.Errorf("failed to embed job description: %w", err)
	}

	pointID := uuid.New()

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(uint64(pointID.ID())),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"jd_id":        jd.ID.String(),
			"title":        jd.Title,
			"company_name": jd.CompanyName,
		}),
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// RemoveJobDescription implements JobIndexService.
func (s *jobIndexService) RemoveJobDescription(ctx context.Context, jdID string) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("jd_id", jdID),
		},
	}

	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})

	if err != nil {
		return fmt.Errorf("failed to delete job description from index: %w", err)
	}

	return nil
}

// Search implements JobIndexService.
func (s *jobIndexService) Search(ctx context.Context, query string, limit int) ([]models.JobDescriptionSearchResult, error) {
	embedding, err := s.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	searchResult, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var results []models.JobDescriptionSearchResult
	for _, point := range searchResult {
		payload := point.Payload

		result := models.JobDescriptionSearchResult{
			Score: point.Score,
		}

		if id, ok := payload["jd_id"]; ok {
			if val, ok := id.GetKind().(*qdrant.Value_StringValue); ok {
				result.ID = val.StringValue
			}
		}

		if title, ok := payload["title"]; ok {
			if val, ok := title.GetKind().(*qdrant.Value_StringValue); ok {
				result.Title = val.StringValue
			}
		}

		results = append(results, result)
	}

	return results, nil
}
