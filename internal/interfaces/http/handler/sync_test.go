package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"github.com/erp/fulfillment-sync/internal/infrastructure/scheduler"
	"github.com/erp/fulfillment-sync/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupSyncRouter(records fulfillment.SyncRecordRepository) (*gin.Engine, *MockImportScheduler) {
	jobs := new(MockImportScheduler)
	h := NewSyncHandler(records, jobs)

	router := gin.New()
	router.GET("/sync-records", h.ListSyncRecords)
	router.GET("/sync/jobs", h.ListImportJobs)
	router.GET("/sync/jobs/:id", h.GetImportJob)
	return router, jobs
}

// ---------------------------------------------------------------------------
// ListSyncRecords Tests
// ---------------------------------------------------------------------------

func TestSyncHandler_ListSyncRecords(t *testing.T) {
	repo := new(MockSyncRecordRepository)
	router, _ := setupSyncRouter(repo)

	since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	record := fulfillment.NewSyncRecord(fulfillment.SyncOperationImportOrder, fulfillment.SyncOutcomeNotFound)
	record.SellerOrderID = "BB-404"

	repo.On("FindRecent", mock.Anything, mock.MatchedBy(func(f fulfillment.SyncRecordFilter) bool {
		return f.Operation == fulfillment.SyncOperationImportOrder &&
			f.Outcome == fulfillment.SyncOutcomeNotFound &&
			f.SellerOrderID == "BB-404" &&
			f.Since != nil && f.Since.Equal(since) &&
			f.Limit == 20
	})).Return([]fulfillment.SyncRecord{*record}, nil)

	w := serve(router, http.MethodGet,
		"/sync-records?operation=IMPORT_ORDER&outcome=NOT_FOUND&seller_order_id=BB-404&since=2024-05-01T00:00:00Z&limit=20", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data SyncRecordListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Count)
	require.Len(t, resp.Data.Records, 1)
	assert.Equal(t, record.ID.String(), resp.Data.Records[0].ID)
	assert.Equal(t, "IMPORT_ORDER", resp.Data.Records[0].Operation)
	assert.Equal(t, "BB-404", resp.Data.Records[0].SellerOrderID)
	repo.AssertExpectations(t)
}

func TestSyncHandler_ListSyncRecords_InvalidQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"unknown operation", "operation=DELETE_ORDER"},
		{"unknown outcome", "outcome=MAYBE"},
		{"limit too large", "limit=501"},
		{"limit not a number", "limit=ten"},
		{"since not rfc3339", "since=yesterday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockSyncRecordRepository)
			router, _ := setupSyncRouter(repo)

			w := serve(router, http.MethodGet, "/sync-records?"+tt.query, "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			repo.AssertNotCalled(t, "FindRecent", mock.Anything, mock.Anything)
		})
	}
}

func TestSyncHandler_ListSyncRecords_AuditLogDisabled(t *testing.T) {
	router, _ := setupSyncRouter(nil)

	w := serve(router, http.MethodGet, "/sync-records", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, dto.ErrCodeUnavailable, decodeError(t, w).Code)
}

func TestSyncHandler_ListSyncRecords_RepositoryFailure(t *testing.T) {
	repo := new(MockSyncRecordRepository)
	router, _ := setupSyncRouter(repo)
	repo.On("FindRecent", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	w := serve(router, http.MethodGet, "/sync-records", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

// ---------------------------------------------------------------------------
// Import job Tests
// ---------------------------------------------------------------------------

func TestSyncHandler_ListImportJobs(t *testing.T) {
	router, jobs := setupSyncRouter(nil)
	history := []scheduler.ImportJob{
		{ID: uuid.New(), Trigger: scheduler.TriggerManual, Status: scheduler.ImportJobStatusRunning},
		{ID: uuid.New(), Trigger: scheduler.TriggerScheduled, Status: scheduler.ImportJobStatusSuccess},
	}
	jobs.On("History", 5).Return(history)

	w := serve(router, http.MethodGet, "/sync/jobs?limit=5", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data ImportJobListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Count)
	assert.Equal(t, history[0].ID, resp.Data.Jobs[0].ID)
	jobs.AssertExpectations(t)
}

func TestSyncHandler_ListImportJobs_DefaultLimit(t *testing.T) {
	router, jobs := setupSyncRouter(nil)
	jobs.On("History", 0).Return([]scheduler.ImportJob{})

	w := serve(router, http.MethodGet, "/sync/jobs", "")

	assert.Equal(t, http.StatusOK, w.Code)
	jobs.AssertExpectations(t)
}

func TestSyncHandler_GetImportJob(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		path       string
		setup      func(jobs *MockImportScheduler)
		wantStatus int
	}{
		{
			name: "found",
			path: "/sync/jobs/" + id.String(),
			setup: func(jobs *MockImportScheduler) {
				jobs.On("Job", id).Return(scheduler.ImportJob{ID: id, Status: scheduler.ImportJobStatusSuccess}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "unknown job",
			path: "/sync/jobs/" + id.String(),
			setup: func(jobs *MockImportScheduler) {
				jobs.On("Job", id).Return(scheduler.ImportJob{}, scheduler.ErrJobNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid id",
			path:       "/sync/jobs/not-a-uuid",
			setup:      func(*MockImportScheduler) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, jobs := setupSyncRouter(nil)
			tt.setup(jobs)

			w := serve(router, http.MethodGet, tt.path, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			jobs.AssertExpectations(t)
		})
	}
}
