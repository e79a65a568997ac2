package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // Footer.Timezone without a system zoneinfo

	"github.com/gin-gonic/gin"
	"github.com/profile-readme/readme-gen/config"
	"github.com/profile-readme/readme-gen/controller"
	"github.com/profile-readme/readme-gen/logger"
	"github.com/profile-readme/readme-gen/service"
	"github.com/profile-readme/readme-gen/storage"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
)

func main() {
	output := flag.StringP("output", "o", "", "path of the generated readme (default from config, README.md)")
	serve := flag.Bool("serve", false, "serve a preview of the readme on GET /readme instead of writing it")
	dotenv := flag.String("dotenv", ".env", "env file loaded before reading the environment, for local runs")
	flag.Parse()

	if err := run(*output, *serve, *dotenv); err != nil {
		log.WithError(err).Error("readme generation failed")
		os.Exit(1)
	}
}

func run(output string, serve bool, dotenv string) error {
	// for local testing, values already in the environment win
	if err := config.LoadDotenv(dotenv); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// configure logger
	logger.Setup(cfg.Logs)

	if output != "" {
		cfg.Output.Path = output
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// setup github client
	// we do here and pass the client to Github service to easily improve tests with mock client
	githubClient, err := service.NewGithubClient(cfg.Github, nil)
	if err != nil {
		return err
	}

	// setup rate limiter from the quota github reports, the configured limit is only a fallback
	rateLimiter := service.LoadGithubRateLimiter(context.Background(), githubClient, cfg.Github.RateLimit)

	// setup services
	backendService := service.NewBackendService(*cfg, nil)
	githubService := service.NewGithubService(*cfg, githubClient, rateLimiter)

	readmeService, err := service.NewReadmeService(*cfg, backendService, githubService)
	if err != nil {
		return err
	}

	if serve {
		return servePreview(*cfg, readmeService)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.WithField("output", cfg.Output.Path).Info("generating readme")

	writer := storage.NewWriter(afero.NewOsFs(), cfg.Output.Path)
	return readmeService.Generate(ctx, writer)
}

func servePreview(cfg config.Config, readmeService service.ReadmeService) error {
	apiController := controller.NewAPIController(cfg, readmeService)

	gin.SetMode(gin.ReleaseMode)
	router := controller.NewRouter(apiController)

	server := &http.Server{
		Addr:    ":" + cfg.API.ListenPort,
		Handler: router,
	}

	serverErr := make(chan error, 1)

	go func() {
		log.Info("preview server listening on port " + cfg.API.ListenPort)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// kill default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}

	log.Info("SIGINT, SIGTERM received, will shut down server ...")

	// the server has 15 seconds to finish the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("preview server stopped gracefully !")
	return nil
}
