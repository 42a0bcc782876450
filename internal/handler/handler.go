package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/clinic-assistant/internal/backup"
	"github.com/jwalitptl/clinic-assistant/internal/repository"
	"github.com/jwalitptl/clinic-assistant/internal/store"
	"github.com/jwalitptl/clinic-assistant/pkg/httputil"
)

// Handler serves the operational endpoints: health, readiness, metrics,
// backup, and the dashboard statistics snapshot.
type Handler struct {
	pinger repository.Pinger
	store  *store.Store
	backup backup.Client
}

func NewHandler(pinger repository.Pinger, st *store.Store, backupClient backup.Client) *Handler {
	return &Handler{pinger: pinger, store: st, backup: backupClient}
}

// Backup triggers the external backup collaborator and waits for it.
func (h *Handler) Backup(c *gin.Context) {
	if err := h.backup.BackupData(c.Request.Context()); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"backup": "completed"})
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports ready only when the database answers.
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if err := h.pinger.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now(),
	})
}

func (h *Handler) MetricsHandler(c *gin.Context) {
	promhttp.Handler().ServeHTTP(c.Writer, c.Request)
}

// Stats returns the dashboard counters from the cached snapshots.
func (h *Handler) Stats(c *gin.Context) {
	if err := h.store.Refresh(c.Request.Context()); err != nil {
		// Serve the stale snapshot rather than failing the dashboard.
		c.Header("X-Stale-Data", "true")
	}

	lowStock := 0
	for _, item := range h.store.Inventory() {
		if item.IsLowStock() {
			lowStock++
		}
	}

	counts := h.store.Counts()
	c.JSON(http.StatusOK, NewSuccessResponse(gin.H{
		"patients":     counts[store.KindPatient],
		"appointments": counts[store.KindAppointment],
		"deadlines":    counts[store.KindDeadline],
		"inventory":    counts[store.KindInventory],
		"low_stock":    lowStock,
	}))
}
