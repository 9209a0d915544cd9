package sandbox

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/keep-export/internal/database"
	"github.com/mrlokans/keep-export/internal/database/notes"
)

// HealthResponse reports whether the sandbox can accept notes.
type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Notes   int64             `json:"notes"`
	Checks  map[string]string `json:"checks"`
}

// HealthController serves GET /health. It needs no token so scripts can
// wait for the sandbox before exporting.
type HealthController struct {
	repo            *notes.Repository
	tokenConfigured bool
	version         string
}

func NewHealthController(db *database.Database, token, version string) *HealthController {
	h := &HealthController{tokenConfigured: token != "", version: version}
	if db != nil {
		h.repo = notes.NewRepository(db.DB)
	}
	return h
}

func (h *HealthController) Status(c *gin.Context) {
	health := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  make(map[string]string),
	}

	if h.repo == nil {
		health.Checks["storage"] = "not configured"
		health.Status = "unhealthy"
	} else if count, err := h.repo.CountNotes(); err != nil {
		health.Checks["storage"] = "error: " + err.Error()
		health.Status = "unhealthy"
	} else {
		health.Notes = count
		health.Checks["storage"] = "ok (" + strconv.FormatInt(count, 10) + " notes)"
	}

	if h.tokenConfigured {
		health.Checks["auth"] = "bearer token"
	} else {
		// Every API request would be rejected.
		health.Checks["auth"] = "no token configured"
		health.Status = "unhealthy"
	}

	statusCode := http.StatusOK
	if health.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}
	c.IndentedJSON(statusCode, health)
}
