package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/profile-readme/readme-gen/config"
	"github.com/profile-readme/readme-gen/model"
	"github.com/remeh/sizedwaitgroup"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type GithubService interface {
	FetchRepoStats(ctx context.Context, project model.Project) (model.RepoStats, error)
	FetchProjectsStats(ctx context.Context, projects []model.Project) ([]model.ProjectStats, error)

	HandleRequestErrors(err error) error
}

// repositoryCounts is the part of GET /repos/{owner}/{repo} used for the projects table
// forks is read first, forks_count is the same value under its newer name
type repositoryCounts struct {
	StargazersCount *int `json:"stargazers_count"`
	Forks           *int `json:"forks"`
	ForksCount      *int `json:"forks_count"`
}

type githubService struct {
	githubClient      *github.Client
	githubRateLimiter *rate.Limiter
	config            config.Config
}

// NewGithubClient setup the github client used for repositories stats
// requests are anonymous unless a token is configured
func NewGithubClient(cfg config.GithubConfig, httpClient *http.Client) (*github.Client, error) {
	githubClient := github.NewClient(httpClient)

	if cfg.Token != "" {
		log.Debug("will setup github client with authorization token")
		githubClient = githubClient.WithAuthToken(cfg.Token)
	}

	if cfg.UserAgent != "" {
		githubClient.UserAgent = cfg.UserAgent
	}

	if cfg.BaseURL != "" {
		baseURL := cfg.BaseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}

		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid github base url: %v", model.ErrConfig, err)
		}

		githubClient.BaseURL = u
	}

	return githubClient, nil
}

// NewGithubRateLimiter allows limit requests per hour, all available immediately
// default limit matches the github quota for anonymous requests
func NewGithubRateLimiter(limit int) *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Hour/time.Duration(limit)), limit)
}

// LoadGithubRateLimiter setup the local rate limiter with rate limits infos from github
// requests already consumed elsewhere are removed from the limiter, so it matches the real quota
// if github cannot tell, the limiter falls back to fallbackLimit requests per hour
func LoadGithubRateLimiter(ctx context.Context, githubClient *github.Client, fallbackLimit int) *rate.Limiter {
	log.Debug("loading current rate limit from github")

	rateLimits, _, err := githubClient.RateLimit.Get(ctx)
	if err != nil || rateLimits == nil || rateLimits.Core == nil || rateLimits.Core.Limit < 1 {
		log.WithError(err).WithField("fallbackLimit", fallbackLimit).Warning("unable to load current github rate limits, using configured limit")
		return NewGithubRateLimiter(fallbackLimit)
	}

	log.WithFields(log.Fields{
		"totalAvailable":    rateLimits.Core.Limit,
		"remainingRequests": rateLimits.Core.Remaining,
	}).Debug("will setup local rate limiter with rate limits infos from github")

	rateLimiter := NewGithubRateLimiter(rateLimits.Core.Limit)

	consumed := rateLimits.Core.Limit - rateLimits.Core.Remaining
	if consumed > rateLimits.Core.Limit {
		consumed = rateLimits.Core.Limit
	}

	if consumed > 0 {
		rateLimiter.AllowN(time.Now(), consumed)
	}

	return rateLimiter
}

func NewGithubService(config config.Config, githubClient *github.Client, rateLimiter *rate.Limiter) GithubService {
	return githubService{
		githubClient:      githubClient,
		githubRateLimiter: rateLimiter,
		config:            config,
	}
}

// FetchRepoStats get stars and forks count for a single project
// note: the rate limiter is not checked here, FetchProjectsStats reserves the whole batch
func (s githubService) FetchRepoStats(ctx context.Context, project model.Project) (model.RepoStats, error) {
	log.WithFields(log.Fields{
		"owner":      project.Username,
		"repository": project.Name,
	}).Debug("fetch repository stats from github")

	req, err := s.githubClient.NewRequest(http.MethodGet, fmt.Sprintf("repos/%s/%s", url.PathEscape(project.Username), url.PathEscape(project.Name)), nil)
	if err != nil {
		return model.RepoStats{}, fmt.Errorf("%w: unable to build request for %s: %v", model.ErrConfig, project.FullName(), err)
	}

	var repo repositoryCounts
	if _, err := s.githubClient.Do(ctx, req, &repo); err != nil {
		return model.RepoStats{}, fmt.Errorf("%s: %w", project.FullName(), s.HandleRequestErrors(err))
	}

	forks := repo.Forks
	if forks == nil {
		forks = repo.ForksCount
	}

	if repo.StargazersCount == nil || forks == nil {
		return model.RepoStats{}, fmt.Errorf("%w: %s has no stars or forks count", model.ErrInvalidData, project.FullName())
	}

	if *repo.StargazersCount < 0 || *forks < 0 {
		return model.RepoStats{}, fmt.Errorf("%w: %s has a negative count", model.ErrInvalidData, project.FullName())
	}

	return model.RepoStats{
		StargazerCount: uint(*repo.StargazersCount),
		ForkCount:      uint(*forks),
	}, nil
}

// FetchProjectsStats get the stats of every project, rows keep the projects order
// at most MaxParallelTasksAllowed lookups run at the same time, 1 means one after the other
// the first failure cancels the lookups not started yet and is returned
func (s githubService) FetchProjectsStats(ctx context.Context, projects []model.Project) ([]model.ProjectStats, error) {
	rows := make([]model.ProjectStats, len(projects))

	if len(projects) == 0 {
		return rows, nil
	}

	// reserve all the requests at once to avoid rendering stats for only a part of projects
	if !s.githubRateLimiter.AllowN(time.Now(), len(projects)) {
		log.WithField("projectsToLoad", len(projects)).Warning("not enought requests in rate limiter to load stats for all projects")
		return nil, fmt.Errorf("%w: %d lookups needed", model.ErrRateLimit, len(projects))
	}

	parent := ctx
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	parallel := s.config.Tasks.MaxParallelTasksAllowed
	if parallel < 1 {
		parallel = 1
	}

	swg := sizedwaitgroup.New(parallel)
	errs := make([]error, len(projects))

	for i, p := range projects {
		swg.Add()

		if ctx.Err() != nil {
			swg.Done()
			break
		}

		go func(i int, p model.Project) {
			defer swg.Done()

			stats, err := s.FetchRepoStats(ctx, p)
			if err != nil {
				errs[i] = err
				cancel()
				return
			}

			rows[i] = model.ProjectStats{Project: p, RepoStats: stats}
		}(i, p)
	}

	log.Debug("waiting for all repository stats lookups to be finished")
	swg.Wait()

	if err := parent.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrFetch, err)
	}

	// the first failing project in list order wins, lookups it cancelled are ignored
	var cancelled error
	for _, err := range errs {
		if err == nil {
			continue
		}

		if !errors.Is(err, context.Canceled) {
			return nil, err
		}

		if cancelled == nil {
			cancelled = err
		}
	}

	if cancelled != nil {
		return nil, cancelled
	}

	log.WithField("numberOfProjects", len(rows)).Info("repository stats fetched from github")

	return rows, nil
}

// HandleRequestErrors manage errors including github rate limit errors at the same location
// If error is a rate limit error, this function will update the local rate limiter to consume all available requests
// this can help us to keep the local rate limiter up to date
func (s githubService) HandleRequestErrors(err error) error {
	var rateLimitErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError

	if errors.As(err, &rateLimitErr) || errors.As(err, &abuseErr) {
		if !s.githubRateLimiter.AllowN(time.Now(), s.githubRateLimiter.Burst()) {
			log.Debug("local rate limiter already exhausted")
		}

		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
		return model.ErrRateLimit
	}

	var responseErr *github.ErrorResponse
	if errors.As(err, &responseErr) && responseErr.Response != nil {
		if responseErr.Response.StatusCode == http.StatusUnauthorized {
			return model.ErrUnauthorized
		}

		return fmt.Errorf("%w: github returned %d", model.ErrUnexpectedStatus, responseErr.Response.StatusCode)
	}

	if !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("error catched when fetching data from github")
	}

	return fmt.Errorf("%w: %w", model.ErrFetch, err)
}
