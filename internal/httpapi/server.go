// Package httpapi exposes the agenda service over a small REST surface.
// Everything here is transport glue: routing, parameter parsing, the error
// envelope and CORS. The semantics live in pkg/core.
package httpapi

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/cicraftwork/agenda-fen/pkg/agenda"
	"github.com/cicraftwork/agenda-fen/pkg/core"
)

// Config wires the router.
type Config struct {
	Service *core.Service
	Logger  *slog.Logger

	// Doctor runs the environment diagnostics for /api/health. Nil
	// disables the endpoint's checks and reports healthy.
	Doctor func() agenda.DoctorReport
}

// NewRouter builds the gin engine with all agenda routes registered.
func NewRouter(cfg Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(cfg.Logger), CORS())

	api := router.Group("/api")

	// Read side.
	api.GET("/agenda", getAgenda(cfg.Service))
	api.GET("/semanas/:numero", getWeek(cfg.Service))
	api.GET("/contenidos/:id", getContent(cfg.Service))
	api.GET("/estadisticas", getStatistics(cfg.Service))
	api.GET("/reporte", getReport(cfg.Service))
	api.GET("/buscar", search(cfg.Service))
	api.GET("/historial", getHistory(cfg.Service))
	api.GET("/export/csv", exportCSV(cfg.Service))
	api.GET("/health", health(cfg.Doctor))

	// Write side.
	api.POST("/agenda", replaceAgenda(cfg.Service))
	api.POST("/semanas/:numero/contenidos", createContent(cfg.Service))
	api.PUT("/contenidos/:id", updateContent(cfg.Service))
	api.DELETE("/contenidos/:id", deleteContent(cfg.Service))
	api.POST("/contenidos/estado", bulkStatusChange(cfg.Service))
	api.POST("/backup", triggerBackup(cfg.Service))

	return router
}
