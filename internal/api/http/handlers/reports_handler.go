package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/api/dto"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/auth"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/service"
	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/validation"
)

// ReportsHandler manages report endpoints.
type ReportsHandler struct {
	service   *service.ReportService
	validator *validation.Validator
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService, validator *validation.Validator) *ReportsHandler {
	return &ReportsHandler{service: reportService, validator: validator}
}

// CreateReport POST /api/reports.
func (h *ReportsHandler) CreateReport(c *fiber.Ctx) error {
	var req dto.CreateReportRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	report, err := h.service.Submit(c.UserContext(), auth.ActorFromContext(c), service.SubmitReportInput{
		FileID:     req.FileID,
		Location:   req.Location,
		Detections: req.Detections.Domain(),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateReportResponse{
		ReportID: report.ID,
		Report:   dto.NewReportResponse(report),
	})
}

// ListReports GET /api/reports.
func (h *ReportsHandler) ListReports(c *fiber.Ctx) error {
	var query dto.ReportListQuery
	if err := parseQuery(c, h.validator, &query); err != nil {
		return err
	}
	filter := service.ReportListFilter{Search: query.Search}
	if query.Status != "" {
		status := domain.ReportStatus(query.Status)
		filter.Status = &status
	}
	if query.OwnerID != "" {
		ownerID := query.OwnerID
		filter.OwnerID = &ownerID
	}

	reports, err := h.service.List(c.UserContext(), auth.ActorFromContext(c), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		items = append(items, dto.NewReportResponse(&reports[i]))
	}
	return c.JSON(items)
}

// GetReport GET /api/reports/:id.
func (h *ReportsHandler) GetReport(c *fiber.Ctx) error {
	report, err := h.service.Get(c.UserContext(), auth.ActorFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReportResponse(report))
}

// ReportHistory GET /api/reports/:id/history.
func (h *ReportsHandler) ReportHistory(c *fiber.Ctx) error {
	changes, err := h.service.History(c.UserContext(), auth.ActorFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.StatusChangeResponse, 0, len(changes))
	for _, change := range changes {
		items = append(items, dto.NewStatusChangeResponse(change))
	}
	return c.JSON(items)
}

// UpdateReport PATCH /api/reports/:id.
func (h *ReportsHandler) UpdateReport(c *fiber.Ctx) error {
	var req dto.UpdateReportRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}
	report, err := h.service.UpdateStatus(c.UserContext(), auth.ActorFromContext(c), c.Params("id"), req.Status, req.AdminNotes)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReportResponse(report))
}
