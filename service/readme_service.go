package service

import (
	"context"
	"fmt"
	"time"

	"github.com/profile-readme/readme-gen/config"
	"github.com/profile-readme/readme-gen/model"
	"github.com/profile-readme/readme-gen/renderer"
	log "github.com/sirupsen/logrus"
)

// ReadmeWriter persists the rendered document
type ReadmeWriter interface {
	Write(content string) error
}

type ReadmeService interface {
	Build(ctx context.Context) (string, error)
	Generate(ctx context.Context, writer ReadmeWriter) error
}

type readmeService struct {
	backendService BackendService
	githubService  GithubService
	config         config.Config
	location       *time.Location
	now            func() time.Time
}

func NewReadmeService(cfg config.Config, backend BackendService, github GithubService) (ReadmeService, error) {
	location := time.UTC

	if cfg.Footer.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Footer.Timezone)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown timezone %q: %v", model.ErrConfig, cfg.Footer.Timezone, err)
		}

		location = loc
	}

	return readmeService{
		backendService: backend,
		githubService:  github,
		config:         cfg,
		location:       location,
		now:            time.Now,
	}, nil
}

// Build fetches every collection in order and renders the document
// technologies, then learning items, then projects and their stats
func (s readmeService) Build(ctx context.Context) (string, error) {
	technologies, err := s.backendService.FetchTechnologies(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch technologies: %w", err)
	}

	learning, err := s.backendService.FetchLearningItems(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch learning items: %w", err)
	}

	projects, err := s.backendService.FetchProjects(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch projects: %w", err)
	}

	rows, err := s.githubService.FetchProjectsStats(ctx, projects)
	if err != nil {
		return "", fmt.Errorf("fetch projects stats: %w", err)
	}

	page := model.Page{
		Greeting:     s.config.Profile.Greeting,
		Intro:        s.config.Profile.Intro,
		Technologies: technologies,
		Learning:     learning,
		Projects:     rows,
		Footer: model.Footer{
			StatsURL:          s.config.Footer.StatsURL,
			TrackingWidgetURL: s.config.Footer.TrackingWidgetURL,
			ClosingText:       s.config.Footer.ClosingText,
			ClosingURL:        s.config.Footer.ClosingURL,
		},
		GeneratedAt: renderer.FormatTimestamp(s.now().In(s.location)),
	}

	return renderer.Render(page)
}

// Generate builds the document and hands it to the writer
// the writer is never called if any fetch or the render fails
func (s readmeService) Generate(ctx context.Context, writer ReadmeWriter) error {
	content, err := s.Build(ctx)
	if err != nil {
		return err
	}

	log.Debug("readme rendered, will write it")

	return writer.Write(content)
}
