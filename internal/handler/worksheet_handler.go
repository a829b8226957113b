package handler

import (
	"net/http"
	"strconv"

	"github.com/dalbom/arithmetic/internal/arithmetic"
	"github.com/dalbom/arithmetic/internal/middleware"
	"github.com/dalbom/arithmetic/internal/model"
	"github.com/dalbom/arithmetic/internal/response"
	"github.com/dalbom/arithmetic/internal/service"
	"github.com/dalbom/arithmetic/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WorksheetHandler handles worksheet generation, downloads and history.
type WorksheetHandler struct {
	worksheetService *service.WorksheetService
	historyService   *service.HistoryService
	log              zerolog.Logger
}

// NewWorksheetHandler creates a new WorksheetHandler.
func NewWorksheetHandler(worksheetService *service.WorksheetService, historyService *service.HistoryService, log zerolog.Logger) *WorksheetHandler {
	return &WorksheetHandler{
		worksheetService: worksheetService,
		historyService:   historyService,
		log:              log.With().Str("component", "worksheet_handler").Logger(),
	}
}

// Generate godoc
// POST /api/v1/worksheets
// Generates a worksheet, renders it and records it in the caller's history.
func (h *WorksheetHandler) Generate(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.GenerateWorksheetRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.worksheetService.Generate(c.Request.Context(), claims, req.ToSpec(), service.GenerateOptions{
		UseLaTeX: req.UseLaTeX,
		Lang:     req.Lang,
	})
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, res)
}

// Preview godoc
// POST /api/v1/worksheets/preview
// Returns one example problem per problem type.
func (h *WorksheetHandler) Preview(c *gin.Context) {
	var req model.PreviewRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	specs := make([]arithmetic.ProblemSpec, len(req.Problems))
	for i, p := range req.Problems {
		specs[i] = p.ToSpec()
	}

	problems, err := h.worksheetService.Preview(specs)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"problems": problems})
}

// DownloadPDF godoc
// GET /api/v1/worksheets/:id/pdf?kind=worksheet|answer_key
func (h *WorksheetHandler) DownloadPDF(c *gin.Context) {
	h.download(c, model.FormatPDF, "application/pdf")
}

// DownloadTeX godoc
// GET /api/v1/worksheets/:id/tex?kind=worksheet|answer_key
func (h *WorksheetHandler) DownloadTeX(c *gin.Context) {
	h.download(c, model.FormatTeX, "application/x-tex; charset=utf-8")
}

func (h *WorksheetHandler) download(c *gin.Context, format model.DocumentFormat, contentType string) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	kind := model.DocumentKind(c.DefaultQuery("kind", string(model.DocumentWorksheet)))
	if kind != model.DocumentWorksheet && kind != model.DocumentAnswerKey {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"kind": "kind must be one of worksheet, answer_key",
		})
		return
	}

	data, err := h.worksheetService.Document(c.Request.Context(), claims, id, kind, format)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	filename := string(kind) + "-" + id.String()[:8] + "." + string(format)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// ListHistory godoc
// GET /api/v1/worksheets?page=1&per_page=20
// Lists the caller's generated worksheets, newest first.
func (h *WorksheetHandler) ListHistory(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	records, pagination, err := h.historyService.List(c.Request.Context(), claims.UserID, page, perPage)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	items := make([]gin.H, len(records))
	for i, r := range records {
		items[i] = gin.H{"record": r, "title": r.DisplayTitle()}
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"worksheets": items}, pagination)
}

// DeleteHistory godoc
// DELETE /api/v1/worksheets/:id
func (h *WorksheetHandler) DeleteHistory(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.historyService.Delete(c.Request.Context(), claims.UserID, id); err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "worksheet deleted"})
}
