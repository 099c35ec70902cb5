package api

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"easyapp_server/internal/ai"
	"easyapp_server/internal/appeasy"
	"easyapp_server/internal/build"
	"easyapp_server/internal/materialize"
	"easyapp_server/internal/metrics"
	"easyapp_server/internal/packager"
	"easyapp_server/internal/store"
	"easyapp_server/internal/types"
	"easyapp_server/internal/utils"
)

const DefaultMaxUploadBytes int64 = 32 << 20

// APIHandler holds dependencies for API endpoints.
type APIHandler struct {
	sessions       *store.Sessions
	builder        *build.Service
	maxUploadBytes int64
}

// NewAPIHandler initializes a new API handler with its dependencies.
func NewAPIHandler(sessions *store.Sessions, builder *build.Service, maxUploadBytes int64) *APIHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &APIHandler{
		sessions:       sessions,
		builder:        builder,
		maxUploadBytes: maxUploadBytes,
	}
}

// --- Structs for API Requests/Responses ---

type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
}

type FileView struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// StateResponse is the JSON rendering of a session's result state.
type StateResponse struct {
	Status       store.Status `json:"status"`
	Message      string       `json:"message,omitempty"`
	AppName      string       `json:"appName,omitempty"`
	AdIdentifier string       `json:"adIdentifier,omitempty"`
	Selected     string       `json:"selected,omitempty"`
	ArchiveName  string       `json:"archiveName,omitempty"`
	Files        []FileView   `json:"files,omitempty"`
	StartedAt    *time.Time   `json:"startedAt,omitempty"`
	CompletedAt  *time.Time   `json:"completedAt,omitempty"`
}

type SelectRequest struct {
	Path string `json:"path" binding:"required"`
}

type ValidationResponse struct {
	Valid  bool            `json:"valid"`
	Issues []appeasy.Issue `json:"issues"`
}

func newStateResponse(state store.State) StateResponse {
	resp := StateResponse{Status: state.Status()}
	switch s := state.(type) {
	case store.Loading:
		resp.StartedAt = &s.StartedAt
	case store.Failed:
		resp.Message = s.Message
	case store.Ready:
		resp.AppName = s.AppName
		resp.AdIdentifier = s.AdIdentifier
		resp.Selected = s.Selected
		resp.ArchiveName = packager.ArchiveFileName(s.AppName)
		resp.CompletedAt = &s.CompletedAt
		for _, entry := range s.Files.Entries() {
			resp.Files = append(resp.Files, FileView{
				Path:    entry.Path,
				Name:    utils.DisplayName(entry.Path),
				Type:    utils.DetermineFileType(entry.Path),
				Content: entry.Content,
			})
		}
	}
	return resp
}

// --- API Handlers ---

// POST /sessions
func (h *APIHandler) CreateSession(c *gin.Context) {
	id, _ := h.sessions.Create()
	newRequestLogger(c.Request.Context()).Infof("create_session", "session_id=%s", id)
	c.JSON(http.StatusCreated, CreateSessionResponse{SessionID: id})
}

// GET /sessions/:id
func (h *APIHandler) GetSession(c *gin.Context) {
	st, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newStateResponse(st.State()))
}

// DELETE /sessions/:id
func (h *APIHandler) DeleteSession(c *gin.Context) {
	if !h.sessions.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /sessions/:id/build
func (h *APIHandler) Build(c *gin.Context) {
	st, ok := h.session(c)
	if !ok {
		return
	}
	logger := newRequestLogger(c.Request.Context())

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Upload exceeds the size limit"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form: " + err.Error()})
		return
	}

	input := inputFromForm(form)
	logger.Infof("build", "session_id=%s app_name=%q references=%d", c.Param("id"), input.AppName, len(input.References))

	_, err = h.builder.Run(c.Request.Context(), st, input)
	if err != nil {
		status := buildErrorStatus(err)
		logger.Errorf("build", "session_id=%s status=%d error=%v", c.Param("id"), status, err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, newStateResponse(st.State()))
}

// PUT /sessions/:id/selection
func (h *APIHandler) Select(c *gin.Context) {
	st, ok := h.session(c)
	if !ok {
		return
	}
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if err := st.Select(req.Path); err != nil {
		switch {
		case errors.Is(err, store.ErrNotReady):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, newStateResponse(st.State()))
}

// GET /sessions/:id/files/*path
func (h *APIHandler) GetFile(c *gin.Context) {
	ready, ok := h.ready(c)
	if !ok {
		return
	}
	path := strings.TrimPrefix(c.Param("path"), "/")
	content, found := ready.Files.Get(path)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown project file: " + path})
		return
	}
	c.Data(http.StatusOK, utils.ContentType(path), []byte(content))
}

// GET /sessions/:id/archive
func (h *APIHandler) DownloadArchive(c *gin.Context) {
	ready, ok := h.ready(c)
	if !ok {
		return
	}
	logger := newRequestLogger(c.Request.Context())

	// Build the whole archive first so a packaging failure never sends a partial body.
	var buf bytes.Buffer
	if err := packager.WriteArchive(&buf, ready.Files); err != nil {
		metrics.IncArchive("failed")
		logger.Errorf("archive", "session_id=%s error=%v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create the archive"})
		return
	}
	metrics.IncArchive("ok")

	name := packager.ArchiveFileName(ready.AppName)
	logger.Infof("archive", "session_id=%s file=%s bytes=%d", c.Param("id"), name, buf.Len())
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

// GET /sessions/:id/validation
func (h *APIHandler) ValidateAppTree(c *gin.Context) {
	ready, ok := h.ready(c)
	if !ok {
		return
	}
	report, err := appeasy.Check(ready.Files.AppTree, ready.AdIdentifier)
	if err != nil {
		report = appeasy.Report{Issues: []appeasy.Issue{{
			Severity: appeasy.SeverityError,
			Field:    types.PathAppTree,
			Message:  err.Error(),
		}}}
	}
	c.JSON(http.StatusOK, ValidationResponse{Valid: report.Valid(), Issues: report.Issues})
}

// --- helpers ---

func (h *APIHandler) session(c *gin.Context) (*store.Store, bool) {
	st, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	return st, true
}

func (h *APIHandler) ready(c *gin.Context) (store.Ready, bool) {
	st, ok := h.session(c)
	if !ok {
		return store.Ready{}, false
	}
	ready, err := st.Ready()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "No generated files are available yet"})
		return store.Ready{}, false
	}
	return ready, true
}

func inputFromForm(form *multipart.Form) build.Input {
	value := func(key string) string {
		if values := form.Value[key]; len(values) > 0 {
			return values[0]
		}
		return ""
	}
	input := build.Input{
		AppName:            value("appName"),
		FeatureDescription: value("featureDescription"),
		AdIdentifier:       value("adIdentifier"),
	}
	if icons := form.File["icon"]; len(icons) > 0 {
		icon := materialize.FromMultipart(icons[0])
		input.Icon = &icon
	}
	for _, fh := range form.File["references"] {
		input.References = append(input.References, materialize.FromMultipart(fh))
	}
	return input
}

func buildErrorStatus(err error) int {
	var validation *build.ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrBuildInProgress):
		return http.StatusConflict
	case errors.Is(err, ai.ErrConfiguration):
		return http.StatusInternalServerError
	case errors.Is(err, materialize.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ai.ErrModelCall), errors.Is(err, ai.ErrInvalidResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
