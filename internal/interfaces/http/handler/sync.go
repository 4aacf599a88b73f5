package handler

import (
	"errors"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"github.com/erp/fulfillment-sync/internal/infrastructure/scheduler"
	"github.com/erp/fulfillment-sync/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// JobHistory exposes the bulk import history
type JobHistory interface {
	History(limit int) []scheduler.ImportJob
	Job(id uuid.UUID) (scheduler.ImportJob, error)
}

// SyncHandler exposes the synchronization audit log and import history
type SyncHandler struct {
	BaseHandler
	records fulfillment.SyncRecordRepository
	jobs    JobHistory
}

// NewSyncHandler creates a new SyncHandler. records may be nil when the audit
// log is disabled.
func NewSyncHandler(records fulfillment.SyncRecordRepository, jobs JobHistory) *SyncHandler {
	return &SyncHandler{
		records: records,
		jobs:    jobs,
	}
}

// SyncRecordListResponse is the audit log listing
type SyncRecordListResponse struct {
	Records []dto.SyncRecordResponse `json:"records"`
	Count   int                      `json:"count"`
}

// ImportJobListResponse is the import history listing
type ImportJobListResponse struct {
	Jobs  []scheduler.ImportJob `json:"jobs"`
	Count int                   `json:"count"`
}

// ListSyncRecords godoc
//
//	@Summary	List recent synchronization decisions
//	@Tags		sync
//	@Produce	json
//	@Param		operation		query	string	false	"Operation"
//	@Param		outcome			query	string	false	"Outcome"
//	@Param		seller_order_id	query	string	false	"Provider order id"
//	@Param		since			query	string	false	"RFC 3339 lower bound"
//	@Param		limit			query	int		false	"Maximum records (1-500)"
//	@Success	200	{object}	dto.Response{data=SyncRecordListResponse}
//	@Failure	400	{object}	dto.Response
//	@Failure	503	{object}	dto.Response
//	@Router		/sync-records [get]
func (h *SyncHandler) ListSyncRecords(c *gin.Context) {
	if h.records == nil {
		h.ErrorWithCode(c, dto.ErrCodeUnavailable, "Sync audit log is disabled")
		return
	}

	var query dto.SyncRecordQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	records, err := h.records.FindRecent(c.Request.Context(), query.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, SyncRecordListResponse{
		Records: dto.ToSyncRecordResponses(records),
		Count:   len(records),
	})
}

// ListImportJobs godoc
//
//	@Summary	List recent bulk import runs, newest first
//	@Tags		sync
//	@Produce	json
//	@Param		limit	query	int	false	"Maximum jobs (1-500)"
//	@Success	200	{object}	dto.Response{data=ImportJobListResponse}
//	@Router		/sync/jobs [get]
func (h *SyncHandler) ListImportJobs(c *gin.Context) {
	var query dto.JobListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	jobs := h.jobs.History(query.Limit)
	h.Success(c, ImportJobListResponse{Jobs: jobs, Count: len(jobs)})
}

// GetImportJob godoc
//
//	@Summary	Get one bulk import run
//	@Tags		sync
//	@Produce	json
//	@Param		id	path	string	true	"Job id"
//	@Success	200	{object}	dto.Response{data=scheduler.ImportJob}
//	@Failure	400	{object}	dto.Response
//	@Failure	404	{object}	dto.Response
//	@Router		/sync/jobs/{id} [get]
func (h *SyncHandler) GetImportJob(c *gin.Context) {
	var req dto.JobIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	job, err := h.jobs.Job(uuid.MustParse(req.ID))
	if err != nil {
		if errors.Is(err, scheduler.ErrJobNotFound) {
			h.NotFound(c, "Import job not found")
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, job)
}
