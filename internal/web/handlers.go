package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"quickcore/internal/extractor"
	"quickcore/internal/helpers"
	"quickcore/internal/models"
	"quickcore/internal/services"
	"quickcore/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	errNoFile       = errors.New("please choose a PDF file")
	errFileTooLarge = errors.New("the file is too large")
)

// pageData feeds index.html
type pageData struct {
	State         string
	FileName      string
	LoaderMessage string
	Error         string
	Plan          *models.StudyPlanData
	Notice        string
	MaxUploadMB   int64
}

// studyPlanResponse is the JSON API's success body
type studyPlanResponse struct {
	Plan     *models.StudyPlanData `json:"plan"`
	FileName string                `json:"fileName"`
}

// Handler serves the upload page and the JSON API
type Handler struct {
	baseCtx        context.Context
	newMachine     MachineFactory
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewHandler creates a new Handler. Page uploads run on baseCtx so they outlive the request.
func NewHandler(baseCtx context.Context, newMachine MachineFactory, maxUploadBytes int64, logger *zap.Logger) *Handler {
	return &Handler{
		baseCtx:        baseCtx,
		newMachine:     newMachine,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Index renders the screen for the session's current state
func (h *Handler) Index(c *gin.Context) {
	h.renderPage(c, http.StatusOK, "")
}

// Upload starts an attempt for the posted file and redirects back to the page
func (h *Handler) Upload(c *gin.Context) {
	machine := machineFrom(c)

	doc, err := h.readUpload(c)
	if err != nil {
		h.renderPage(c, uploadErrorStatus(err), err.Error())
		return
	}

	attempt, err := machine.Begin(doc)
	if err != nil {
		h.renderPage(c, http.StatusConflict, "Please wait for the current document to finish.")
		return
	}

	go attempt.Run(h.baseCtx)

	c.Redirect(http.StatusSeeOther, "/")
}

// Reset clears the session and redirects back to the upload prompt
func (h *Handler) Reset(c *gin.Context) {
	if err := machineFrom(c).Reset(); err != nil {
		h.renderPage(c, http.StatusConflict, "Please wait for the current document to finish.")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// ExportMarkdown downloads the session's current plan as markdown
func (h *Handler) ExportMarkdown(c *gin.Context) {
	snap := machineFrom(c).Snapshot()
	if snap.State() != session.StateResult {
		c.String(http.StatusNotFound, "No study plan to export.")
		return
	}

	fileName := helpers.Slugify(snap.FileName) + "-study-plan.md"
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(services.RenderMarkdown(snap.Plan, snap.FileName)))
}

// CreateStudyPlan runs one attempt synchronously for the JSON API
func (h *Handler) CreateStudyPlan(c *gin.Context) {
	doc, err := h.readUpload(c)
	if err != nil {
		c.JSON(uploadErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	machine := h.newMachine()
	machine.SetObserver(observeAttempts("api", h.logger))

	snap, err := machine.Submit(c.Request.Context(), doc)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": session.UnknownErrorMessage})
		return
	}

	if snap.State() != session.StateResult {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": snap.Error})
		return
	}

	c.JSON(http.StatusOK, studyPlanResponse{Plan: snap.Plan, FileName: snap.FileName})
}

// Health reports liveness
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) renderPage(c *gin.Context, status int, notice string) {
	snap := machineFrom(c).Snapshot()
	c.HTML(status, "index.html", pageData{
		State:         snap.State().String(),
		FileName:      snap.FileName,
		LoaderMessage: snap.LoaderMessage(),
		Error:         snap.Error,
		Plan:          snap.Plan,
		Notice:        notice,
		MaxUploadMB:   h.maxUploadBytes >> 20,
	})
}

// readUpload reads the multipart "file" field into a Document.
func (h *Handler) readUpload(c *gin.Context) (extractor.Document, error) {
	if h.maxUploadBytes > 0 {
		if c.Request.ContentLength > h.maxUploadBytes {
			return extractor.Document{}, errFileTooLarge
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return extractor.Document{}, errFileTooLarge
		}
		return extractor.Document{}, errNoFile
	}

	file, err := fileHeader.Open()
	if err != nil {
		return extractor.Document{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return extractor.Document{}, fmt.Errorf("failed to read upload: %w", err)
	}

	return extractor.Document{Name: filepath.Base(fileHeader.Filename), Content: content}, nil
}

func uploadErrorStatus(err error) int {
	switch {
	case errors.Is(err, errFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errNoFile):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
