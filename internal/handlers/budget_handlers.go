package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zemouh/finagent/internal/middleware"
	"github.com/zemouh/finagent/internal/models"
	"github.com/zemouh/finagent/internal/repository"
	"github.com/zemouh/finagent/internal/services"
)

// BudgetHandler handles evaluation, history and export endpoints
type BudgetHandler struct {
	budgetSvc *services.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetSvc *services.BudgetService) *BudgetHandler {
	return &BudgetHandler{
		budgetSvc: budgetSvc,
	}
}

// Evaluate handles POST /evaluate
// @Summary Evaluate a budget
// @Description Classify an (income, fixed expenses, saving goal) triple and store the result
// @Tags budget
// @Accept json
// @Produce json
// @Success 200 {object} models.EvaluateResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /evaluate [post]
func (h *BudgetHandler) Evaluate(c *gin.Context) {
	var req models.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	userID, _ := middleware.GetUserID(c)

	resp, err := h.budgetSvc.Evaluate(c.Request.Context(), userID,
		req.Income.Decimal, req.FixedExpenses.Decimal, req.SavingGoal.Decimal, req.WithAdvice)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListRecords handles GET /records
func (h *BudgetHandler) ListRecords(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req models.ListRecordsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	var (
		records []*models.FinancialRecord
		err     error
	)
	if req.StartDate != "" || req.EndDate != "" {
		start, end, perr := parseDateRange(req.StartDate, req.EndDate)
		if perr != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "bad_request",
				Message: perr.Error(),
			})
			return
		}
		records, err = h.budgetSvc.HistoryRange(c.Request.Context(), userID, start, end)
	} else {
		records, err = h.budgetSvc.History(c.Request.Context(), userID, req.Limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	resp := models.HistoryResponse{Records: make([]models.FinancialRecord, 0, len(records))}
	for _, rec := range records {
		resp.Records = append(resp.Records, *rec)
	}
	resp.Count = len(resp.Records)

	c.JSON(http.StatusOK, resp)
}

// GetRecord handles GET /records/:id
func (h *BudgetHandler) GetRecord(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "invalid record ID",
		})
		return
	}

	rec, advice, err := h.budgetSvc.Record(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: "record not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": rec, "advice": advice})
}

// DeleteRecord handles DELETE /records/:id
func (h *BudgetHandler) DeleteRecord(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "invalid record ID",
		})
		return
	}

	if err := h.budgetSvc.DeleteRecord(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: "record not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteAllRecords handles DELETE /records
func (h *BudgetHandler) DeleteAllRecords(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	deleted, err := h.budgetSvc.DeleteAll(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// Statistics handles GET /statistics
func (h *BudgetHandler) Statistics(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	stats, err := h.budgetSvc.Statistics(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportCSV handles GET /export/csv
// @Summary Export evaluation history as CSV
// @Tags budget
// @Produce text/csv
// @Router /export/csv [get]
func (h *BudgetHandler) ExportCSV(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	filename := fmt.Sprintf("financial_report_%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.budgetSvc.ExportCSV(c.Request.Context(), userID, c.Writer); err != nil {
		// headers may already be out; nothing more to do than log via gin
		_ = c.Error(err)
	}
}

func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, errors.New("start_date and end_date must both be provided")
	}
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date: %w", err)
	}
	// end date is inclusive in the query string, exclusive in the store
	return start, end.AddDate(0, 0, 1), nil
}
