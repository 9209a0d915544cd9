package sandbox

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/keep-export/internal/database"
	"github.com/mrlokans/keep-export/internal/database/notes"
	"github.com/mrlokans/keep-export/internal/notesapi"
)

// RouterConfig holds the dependencies of the sandbox router.
type RouterConfig struct {
	DB      *database.Database
	Token   string
	Version string
}

// NewRouter exposes the notes API endpoints behind bearer authentication
// plus an unauthenticated health check.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	healthController := NewHealthController(cfg.DB, cfg.Token, cfg.Version)
	router.GET("/health", healthController.Status)

	notesController := NewNotesController(notes.NewRepository(cfg.DB.DB))

	api := router.Group("/", BearerAuth(cfg.Token))
	api.GET(notesapi.AuthPath, notesController.Auth)
	api.GET(notesapi.NotesPath, notesController.List)
	api.POST(notesapi.NotesPath, notesController.Create)

	return router
}
