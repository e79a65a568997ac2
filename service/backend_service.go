package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/profile-readme/readme-gen/config"
	"github.com/profile-readme/readme-gen/model"
	log "github.com/sirupsen/logrus"
)

const (
	technologiesResource = "technologies?select=*"
	learningResource     = "learn?select=*"
	projectsResource     = "projects?select=*"
)

type BackendService interface {
	FetchTechnologies(ctx context.Context) ([]model.Technology, error)
	FetchLearningItems(ctx context.Context) ([]model.LearningItem, error)
	FetchProjects(ctx context.Context) ([]model.Project, error)
}

type backendService struct {
	httpClient *http.Client
	validate   *validator.Validate
	baseURL    string
	apiKey     string
}

// wireRecord is a backend record that can be converted to the domain model once validated
type wireRecord[M any] interface {
	ToModel() M
}

// NewBackendService uses the given http client, or a new one with the configured timeout if nil
func NewBackendService(cfg config.Config, httpClient *http.Client) BackendService {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: time.Duration(cfg.Backend.TimeoutSeconds) * time.Second,
		}
	}

	return backendService{
		httpClient: httpClient,
		validate:   validator.New(),
		baseURL:    cfg.Backend.BaseURL,
		apiKey:     cfg.Backend.APIKey,
	}
}

func (s backendService) FetchTechnologies(ctx context.Context) ([]model.Technology, error) {
	return fetchCollection[model.TechnologyRecord, model.Technology](ctx, s, technologiesResource)
}

func (s backendService) FetchLearningItems(ctx context.Context) ([]model.LearningItem, error) {
	return fetchCollection[model.LearningItemRecord, model.LearningItem](ctx, s, learningResource)
}

func (s backendService) FetchProjects(ctx context.Context) ([]model.Project, error) {
	return fetchCollection[model.ProjectRecord, model.Project](ctx, s, projectsResource)
}

// fetchCollection get a JSON array from the backend and convert every record
// order of the response is kept, any invalid record fails the whole collection
func fetchCollection[R wireRecord[M], M any](ctx context.Context, s backendService, resource string) ([]M, error) {
	if s.baseURL == "" || s.apiKey == "" {
		return nil, fmt.Errorf("%w: BASE_URL and API_KEY are required", model.ErrConfig)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+resource, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to build request for %s: %v", model.ErrConfig, resource, err)
	}

	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")

	log.WithField("resource", resource).Debug("fetch collection from backend")

	res, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrFetch, resource, err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: backend refused %s", model.ErrUnauthorized, resource)
	default:
		return nil, fmt.Errorf("%w: %s returned %d", model.ErrUnexpectedStatus, resource, res.StatusCode)
	}

	var records []R
	if err := json.NewDecoder(res.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: unable to decode %s: %v", model.ErrInvalidData, resource, err)
	}

	// a null body decodes without error but is not a collection
	if records == nil {
		return nil, fmt.Errorf("%w: %s returned null", model.ErrInvalidData, resource)
	}

	items := make([]M, 0, len(records))
	for i, r := range records {
		if err := s.validate.Struct(r); err != nil {
			return nil, fmt.Errorf("%w: %s record %d: %v", model.ErrInvalidData, resource, i, err)
		}

		items = append(items, r.ToModel())
	}

	log.WithFields(log.Fields{
		"resource": resource,
		"count":    len(items),
	}).Info("collection fetched from backend")

	return items, nil
}
