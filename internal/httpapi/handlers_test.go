package httpapi

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicraftwork/agenda-fen/pkg/agenda"
	"github.com/cicraftwork/agenda-fen/pkg/core"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const seedDocument = `{
  "titulo": "Agenda Sustentabilidad",
  "periodo": "2025-1",
  "semanas": [
    {
      "numero": 1,
      "fechas": "3-7 marzo",
      "tema": "Introducción",
      "contenidos": [
        {"id": "1-100-101", "titulo": "Charla inaugural", "tipo": "actividad", "estado": "completado", "pilares": ["cultura"], "recursos": "", "comentarios": "", "adjunto": ""},
        {"id": "1-100-102", "titulo": "Lectura base", "tipo": "material", "estado": "pendiente", "pilares": ["academia"], "recursos": "", "comentarios": "", "adjunto": ""}
      ]
    },
    {
      "numero": 2,
      "fechas": "10-14 marzo",
      "tema": "Gobernanza",
      "contenidos": [
        {"id": "2-100-103", "titulo": "Descartado", "tipo": "material", "estado": "no-incluir", "pilares": [], "recursos": "", "comentarios": "", "adjunto": ""}
      ]
    }
  ]
}`

func newTestRouter(t *testing.T) (*gin.Engine, agenda.Config) {
	t.Helper()

	cfg := agenda.DefaultConfig(t.TempDir())
	require.NoError(t, os.WriteFile(cfg.DataFile, []byte(seedDocument), 0644))

	service, err := agenda.Open(cfg)
	require.NoError(t, err)

	router := NewRouter(Config{
		Service: service,
		Doctor:  func() agenda.DoctorReport { return agenda.Doctor(cfg) },
	})
	return router, cfg
}

func doRequest(router *gin.Engine, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetAgenda(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/agenda", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("ETag"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var doc core.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "Agenda Sustentabilidad", doc.Title)
	assert.Len(t, doc.Weeks, 2)
}

func TestGetWeek(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/semanas/2", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var week core.Week
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &week))
	assert.Equal(t, "Gobernanza", week.Topic)

	t.Run("not found", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/semanas/99", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assertErrorEnvelope(t, w)
	})

	t.Run("invalid number", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/semanas/abc", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assertErrorEnvelope(t, w)
	})
}

func TestContentLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	// Create.
	body := []byte(`{"titulo": "Taller nuevo", "tipo": "actividad", "estado": "pendiente", "pilares": ["campus"]}`)
	w := doRequest(router, http.MethodPost, "/api/semanas/1/contenidos", body, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var created core.ContentItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Taller nuevo", created.Title)
	assert.NotEmpty(t, created.Created)

	// Read it back with its week context.
	w = doRequest(router, http.MethodGet, "/api/contenidos/"+created.ID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var match core.Match
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &match))
	assert.Equal(t, 1, match.WeekNumber)

	// Partial update: only the status changes.
	w = doRequest(router, http.MethodPut, "/api/contenidos/"+created.ID, []byte(`{"estado": "completado"}`), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var updated core.ContentItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, core.StatusCompleted, updated.Status)
	assert.Equal(t, "Taller nuevo", updated.Title)

	// Delete.
	w = doRequest(router, http.MethodDelete, "/api/contenidos/"+created.ID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/contenidos/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateContent_MissingWeek(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/semanas/99/contenidos", []byte(`{"titulo": "x"}`), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assertErrorEnvelope(t, w)
}

func TestUpdateContent_UnknownField(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPut, "/api/contenidos/1-100-101", []byte(`{"campo_raro": 1}`), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorEnvelope(t, w)
}

func TestBulkStatusChange(t *testing.T) {
	router, _ := newTestRouter(t)

	body := []byte(`{"estado": "pausado", "ids": ["1-100-101", "1-100-102"]}`)
	w := doRequest(router, http.MethodPost, "/api/contenidos/estado", body, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Affected int    `json:"afectados"`
		Status   string `json:"estado"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Affected)
	assert.Equal(t, "pausado", resp.Status)

	t.Run("missing status", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/contenidos/estado", []byte(`{"ids": ["1-100-101"]}`), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no matches", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/contenidos/estado", []byte(`{"estado": "pausado", "ids": ["nope"]}`), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestReplaceAgenda_RevisionHandling(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/agenda", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	var doc core.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	doc.Title = "Agenda revisada"
	body, err := json.Marshal(doc)
	require.NoError(t, err)

	// First replace with the current revision succeeds.
	w = doRequest(router, http.MethodPost, "/api/agenda", body, map[string]string{"If-Match": etag})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, etag, w.Header().Get("ETag"))

	// Replaying the stale revision conflicts.
	w = doRequest(router, http.MethodPost, "/api/agenda", body, map[string]string{"If-Match": etag})
	assert.Equal(t, http.StatusConflict, w.Code)
	assertErrorEnvelope(t, w)

	// Without If-Match the replace is unconditional.
	w = doRequest(router, http.MethodPost, "/api/agenda", body, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStatistics(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/estadisticas", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats core.Statistics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalWeeks)
	assert.Equal(t, 3, stats.TotalContents)
	assert.Equal(t, 2, stats.ValidContents)
	assert.Equal(t, 50.0, stats.CompletedPercentage)
}

func TestSearch(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/buscar?texto=charla", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result core.FilterResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "1-100-101", result.Items[0].ID)

	t.Run("omit excluded", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/buscar?incluir_excluidos=false", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var result core.FilterResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, 2, result.Total)
		assert.False(t, result.Criteria.IncludeExcluded)
	})

	t.Run("invalid week", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/buscar?semana=abc", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHistoryEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	// A mutation leaves a trace.
	w := doRequest(router, http.MethodPost, "/api/semanas/1/contenidos", []byte(`{"titulo": "x"}`), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, http.MethodGet, "/api/historial", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total   int                  `json:"total"`
		Records []core.HistoryRecord `json:"historial"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, core.ActionContentCreated, resp.Records[0].Action)
}

func TestBackupEndpoint(t *testing.T) {
	router, cfg := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/backup", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		File string `json:"archivo"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.File)

	_, err := os.Stat(filepath.Join(cfg.BackupDir, resp.File))
	assert.NoError(t, err)
}

func TestExportCSV(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/export/csv", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "agenda.csv")

	rows, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 4) // header + 3 items
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var report agenda.DoctorReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.True(t, report.Healthy)
	assert.NotEmpty(t, report.Checks)
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodOptions, "/api/agenda", nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func assertErrorEnvelope(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	var envelope struct {
		Error   bool   `json:"error"`
		Message string `json:"mensaje"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Error)
	assert.NotEmpty(t, envelope.Message)
}
