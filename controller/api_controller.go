package controller

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/profile-readme/readme-gen/config"
	"github.com/profile-readme/readme-gen/model"
	"github.com/profile-readme/readme-gen/service"
	log "github.com/sirupsen/logrus"
)

type APIController interface {
	GetReadme(ctx *gin.Context)
}

type apiController struct {
	readmeService service.ReadmeService
	config        config.Config
}

func NewAPIController(config config.Config, service service.ReadmeService) APIController {
	return apiController{
		readmeService: service,
		config:        config,
	}
}

// GetReadme runs a full render pass and returns the markdown without writing the output file
func (s apiController) GetReadme(c *gin.Context) {
	content, err := s.readmeService.Build(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("unable to render readme preview")
		c.JSON(http.StatusInternalServerError, model.NewAPIError(err))
		return
	}

	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(content))
}

// NewRouter registers the preview routes
func NewRouter(controller APIController) *gin.Engine {
	router := gin.New()

	router.Use(
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Content-Type, Content-Length, Accept-Encoding, Host, accept, Origin, Cache-Control, X-Requested-With"},
			MaxAge:       12 * time.Hour,
		}),
	)

	api := router.Group("")
	{
		api.GET("/readme", controller.GetReadme)
	}

	return router
}
