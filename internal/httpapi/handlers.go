package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cicraftwork/agenda-fen/pkg/agenda"
	"github.com/cicraftwork/agenda-fen/pkg/core"
)

// writeError maps the core error kinds onto the status codes and the
// {"error": true, "mensaje": ...} envelope the frontend expects.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrConflict):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": true, "mensaje": err.Error()})
}

func requester(c *gin.Context) core.Requester {
	return core.Requester{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

func getAgenda(svc *core.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, rev, err := svc.GetDocument(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("ETag", string(rev))
		c.JSON(http.StatusOK, doc)
	}
}

func getWeek(svc *core.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		number, err := strconv.Atoi(c.Param("numero"))
		if err != nil {
			writeError(c, errors.Join(core.ErrInvalidArgument, errors.New("numero de semana invalido")))
			return
		}
		week, err := svc.GetWeek(c.Request.Context(), number)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, week)
	}
}

func getContent(svc *core.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		match, err := svc.GetContent(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, match)
	}
}

func getStatistics(svc *core.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.Statistics(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func getReport(svc *core.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := svc.Report(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func search(svc *core.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		criteria := core.Criteria{
			Text:   c.Query("texto"),
			Status: c.Query("estado"),
			Pillar: c.Query("pilar"),
		}
		if raw := c.Query("semana"); raw != "" {
			number, err := strconv.Atoi(raw)
			if err != nil {
				writeError(c, errors.Join(core.ErrInvalidArgument, errors.New("semana invalida")))
				return
			}
			criteria.Week = &number
		}
		// Excluded items are kept unless the caller opts out.
		if c.Query("incluir_excluidos") == "false" {
			criteria.OmitExcluded = true
		}

		result, err := svc.Search(c.Request.Context(), criteria)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func getHistory(svc *core.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := svc.History(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"total": len(records), "historial": records})
	}
}

func exportCSV(svc *core.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, _, err := svc.GetDocument(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="agenda.csv"`)
		c.Status(http.StatusOK)
		if err := core.ExportCSV(c.Writer, doc); err != nil && writeErrorOnce(c) {
			writeError(c, err)
		}
	}
}

// writeErrorOnce reports whether the response is still unwritten, so a
// late export failure does not corrupt already-streamed CSV.
func writeErrorOnce(c *gin.Context) bool {
	return !c.Writer.Written()
}

func health(doctor func() agenda.DoctorReport) gin.HandlerFunc {
	return func(c *gin.Context) {
		if doctor == nil {
			c.JSON(http.StatusOK, gin.H{"saludable": true})
			return
		}
		report := doctor()
		status := http.StatusOK
		if !report.Healthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, report)
	}
}

func replaceAgenda(svc *core.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var doc core.Document
		if err := c.ShouldBindJSON(&doc); err != nil {
			writeError(c, errors.Join(core.ErrInvalidArgument, err))
			return
		}

		expected := core.Revision(c.GetHeader("If-Match"))
		rev, err := svc.ReplaceDocument(c.Request.Context(), doc, expected, requester(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("ETag", string(rev))
		c.JSON(http.StatusOK, gin.H{"mensaje": "Agenda actualizada"})
	}
}

func createContent(svc *core.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		number, err := strconv.Atoi(c.Param("numero"))
		if err != nil {
			writeError(c, errors.Join(core.ErrInvalidArgument, errors.New("numero de semana invalido")))
			return
		}

		var draft core.ContentDraft
		if err := c.ShouldBindJSON(&draft); err != nil {
			writeError(c, errors.Join(core.ErrInvalidArgument, err))
			return
		}

		item, err := svc.CreateContent(c.Request.Context(), number, draft, requester(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func updateContent(svc *core.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Unknown fields are rejected: the update type is an explicit
		// contract, not a pass-through bag.
		decoder := json.NewDecoder(c.Request.Body)
		decoder.DisallowUnknownFields()

		var delta core.ContentUpdate
		if err := decoder.Decode(&delta); err != nil {
			writeError(c, errors.Join(core.ErrInvalidArgument, err))
			return
		}

		item, err := svc.UpdateContent(c.Request.Context(), c.Param("id"), delta, requester(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func deleteContent(svc *core.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := svc.DeleteContent(c.Request.Context(), c.Param("id"), requester(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"mensaje": "Contenido eliminado", "contenido": item})
	}
}

type bulkRequest struct {
	Status string   `json:"estado"`
	IDs    []string `json:"ids"`
}

func bulkStatusChange(svc *core.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bulkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, errors.Join(core.ErrInvalidArgument, err))
			return
		}

		affected, err := svc.BulkStatusChange(c.Request.Context(), req.Status, req.IDs, requester(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"afectados": affected, "estado": req.Status})
	}
}

func triggerBackup(svc *core.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		name, err := svc.Backup(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"mensaje": "Backup creado", "archivo": name})
	}
}
