package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/liquidonate/weekly-lights/dto"
	"github.com/liquidonate/weekly-lights/service"
	"github.com/liquidonate/weekly-lights/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	ingestService *service.IngestService
	exportService *service.ExportService
	reports       *store.ReportStore
	maxFileSize   int64
}

func NewReportHandler(
	ingestService *service.IngestService,
	exportService *service.ExportService,
	reports *store.ReportStore,
	maxFileSize int64,
) *ReportHandler {
	return &ReportHandler{
		ingestService: ingestService,
		exportService: exportService,
		reports:       reports,
		maxFileSize:   maxFileSize,
	}
}

// RegisterRoutes mounts the dashboard API under the given group.
func (h *ReportHandler) RegisterRoutes(api *gin.RouterGroup) {
	reports := api.Group("/reports")
	{
		reports.POST("/upload", h.Upload)
		reports.GET("", h.ListReports)
		reports.DELETE("/:id", h.DeleteReport)
		reports.GET("/:id/document", h.GetDocument)
	}

	api.GET("/uploads", h.ListUploads)
	api.GET("/metrics", h.GetMetrics)
	api.GET("/revenue-trend", h.GetRevenueTrend)
	api.GET("/departments", h.ListDepartments)
	api.GET("/departments/:name", h.GetDepartment)
	api.GET("/export", h.Export)
}

// Upload handles POST /reports/upload with one or more files under "files[]".
func (h *ReportHandler) Upload(c *gin.Context) {
	logger := zerolog.Ctx(c.Request.Context())

	form, err := c.MultipartForm()
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "UPLOAD_FAILED", "Failed to parse multipart form", err)
		return
	}

	request := &dto.UploadRequest{Files: form.File["files[]"]}
	if err := request.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, "UPLOAD_FAILED", err.Error(), nil)
		return
	}

	files := make([]dto.UploadFile, 0, len(request.Files))
	for _, fh := range request.Files {
		file, err := h.readUpload(fh)
		if err != nil {
			h.sendError(c, http.StatusBadRequest, "UPLOAD_FAILED", "Failed to read uploaded file", err)
			return
		}
		files = append(files, file)
	}

	logger.Info().Int("files", len(files)).Msg("processing upload")

	statuses := h.ingestService.Ingest(c.Request.Context(), files)
	c.JSON(http.StatusOK, dto.UploadResponse{
		Files:       statuses,
		ProcessedAt: time.Now().Format(time.RFC3339),
	})
}

// readUpload reads at most one byte past the size limit so oversize files
// can still be reported as such by the ingest pipeline.
func (h *ReportHandler) readUpload(fh *multipart.FileHeader) (dto.UploadFile, error) {
	f, err := fh.Open()
	if err != nil {
		return dto.UploadFile{}, fmt.Errorf("failed to open file %s: %w", fh.Filename, err)
	}
	defer f.Close()

	var r io.Reader = f
	if h.maxFileSize > 0 {
		r = io.LimitReader(f, h.maxFileSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return dto.UploadFile{}, fmt.Errorf("failed to read file %s: %w", fh.Filename, err)
	}

	return dto.UploadFile{
		Name:         fh.Filename,
		ContentType:  fh.Header.Get("Content-Type"),
		Data:         data,
		DeclaredSize: fh.Size,
	}, nil
}

func (h *ReportHandler) ListReports(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"reports": h.reports.List()})
}

func (h *ReportHandler) DeleteReport(c *gin.Context) {
	id := c.Param("id")
	if err := h.ingestService.Remove(c.Request.Context(), id); err != nil {
		h.sendServiceError(c, "DELETE_FAILED", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReportHandler) GetDocument(c *gin.Context) {
	data, name, err := h.ingestService.Document(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.sendServiceError(c, "DOCUMENT_UNAVAILABLE", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *ReportHandler) ListUploads(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"files": h.ingestService.Uploads()})
}

func (h *ReportHandler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.reports.AggregatedMetrics())
}

func (h *ReportHandler) GetRevenueTrend(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.reports.RevenueTrend()})
}

func (h *ReportHandler) ListDepartments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"departments": dto.Departments})
}

// GetDepartment returns the department timeline. Data is null when no
// uploaded report mentions the department.
func (h *ReportHandler) GetDepartment(c *gin.Context) {
	name := c.Param("name")
	if _, ok := store.NormalizeDepartment(name); !ok {
		h.sendError(c, http.StatusNotFound, "UNKNOWN_DEPARTMENT", fmt.Sprintf("unknown department %q", name), nil)
		return
	}
	c.JSON(http.StatusOK, dto.DepartmentResponse{
		Department: name,
		Data:       h.reports.DepartmentView(name),
	})
}

func (h *ReportHandler) Export(c *gin.Context) {
	f, err := h.exportService.BuildWorkbook()
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to build workbook", err)
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to write workbook", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="weekly-lights.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ReportHandler) sendServiceError(c *gin.Context, code string, err error) {
	if errors.Is(err, dto.ErrNotFound) {
		h.sendError(c, http.StatusNotFound, code, err.Error(), nil)
		return
	}
	h.sendError(c, http.StatusInternalServerError, code, "Internal error", err)
}

// sendError sends a structured error response
func (h *ReportHandler) sendError(c *gin.Context, statusCode int, code string, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg(message)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   code,
		Message: errorMsg,
		Code:    statusCode,
	})
}
