package applications

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendfast/appform/services/draft"
	"github.com/lendfast/appform/storage"
	"github.com/lendfast/appform/types"
	"github.com/lendfast/appform/utils/test"
)

const testGUID = "7f9bbf6a-94b8-4d8a-9d56-0f6f2c9e2f11"

func newMockDB(t *testing.T) sqlmock.Sqlmock {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	storage.DB = db
	t.Cleanup(func() { db.Close() })
	return mock
}

func newTestController(t *testing.T) (*Controller, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	load := func(ctx context.Context, id string) (*types.ApplicationRecord, error) {
		return storage.GetApplication(ctx, id)
	}
	flush := func(ctx context.Context, id string, app *types.Application) error {
		_, err := storage.UpdateApplication(ctx, id, app)
		return err
	}

	ctrl := &Controller{
		drafts: draft.NewStoreWith(client, time.Hour, time.Hour, load, flush),
	}
	return ctrl, client
}

func newTestRouter(ctrl *Controller) *gin.Engine {
	router := gin.New()
	router.POST("crm/create-application", ctrl.CreateApplication)
	router.GET("applications/:id", ctrl.GetApplication)
	router.POST("applications/:id/autosave", ctrl.Autosave)
	router.POST("applications/:id/submit", ctrl.SubmitApplication)
	return router
}

func applicationRow(t *testing.T, app *types.Application) *sqlmock.Rows {
	data, err := json.Marshal(app)
	require.NoError(t, err)
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "data", "created_at", "updated_at"}).
		AddRow(testGUID, data, now, now)
}

func TestCreateApplication(t *testing.T) {
	mock := newMockDB(t)
	ctrl, _ := newTestController(t)
	router := newTestRouter(ctrl)

	app := &types.Application{
		Applicants: []types.Applicant{{FirstName: "Jane", LastName: "Doe"}},
	}
	mock.ExpectQuery(`INSERT INTO applications`).
		WillReturnRows(applicationRow(t, app))

	payload := map[string]interface{}{
		"opportunityGuid": testGUID,
		"applicants":      app.Applicants,
	}
	res, err := test.PerformRequest(t, "POST", "/crm/create-application", payload, nil, router)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Code)

	var response struct {
		Message string `json:"message"`
		Data    struct {
			Link string `json:"link"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))
	assert.Equal(t, "Application created", response.Message)
	assert.Equal(t, fmt.Sprintf("%s/form/%s", serverConf.ClientURL, testGUID), response.Data.Link)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateApplicationRejectsBadGUID(t *testing.T) {
	ctrl, _ := newTestController(t)
	router := newTestRouter(ctrl)

	res, err := test.PerformRequest(t, "POST", "/crm/create-application",
		map[string]interface{}{"opportunityGuid": "not-a-guid"}, nil, router)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "not a valid UUID")
}

func TestCreateApplicationRequiresGUID(t *testing.T) {
	ctrl, _ := newTestController(t)
	router := newTestRouter(ctrl)

	res, err := test.PerformRequest(t, "POST", "/crm/create-application",
		map[string]interface{}{}, nil, router)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "Failed to validate payload")
}

func TestGetApplicationMergesDraft(t *testing.T) {
	mock := newMockDB(t)
	ctrl, client := newTestController(t)
	router := newTestRouter(ctrl)

	persisted := &types.Application{LoanAmount: "100000"}
	mock.ExpectQuery(`SELECT id, data, created_at, updated_at FROM applications`).
		WillReturnRows(applicationRow(t, persisted))

	section, err := json.Marshal(draft.LoanSection{LoanAmount: "250000", LoanTerm: "12 months"})
	require.NoError(t, err)
	require.NoError(t, client.HSet(context.Background(), "draft_"+testGUID, draft.SectionLoan, section).Err())

	res, err := test.PerformRequest(t, "GET", "/applications/"+testGUID, nil, nil, router)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Code)

	var response struct {
		Data types.ApplicationRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))
	assert.Equal(t, testGUID, response.Data.ID)
	assert.Equal(t, "250000", response.Data.LoanAmount)
	assert.Equal(t, "12 months", response.Data.LoanTerm)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetApplicationNotFound(t *testing.T) {
	mock := newMockDB(t)
	ctrl, _ := newTestController(t)
	router := newTestRouter(ctrl)

	mock.ExpectQuery(`SELECT id, data, created_at, updated_at FROM applications`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "data", "created_at", "updated_at"}))

	res, err := test.PerformRequest(t, "GET", "/applications/"+testGUID, nil, nil, router)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Contains(t, res.Body.String(), "Application not found")
}

func TestAutosave(t *testing.T) {
	ctrl, client := newTestController(t)
	router := newTestRouter(ctrl)

	payload := map[string]interface{}{
		"loan": map[string]string{"loanAmount": "250000"},
	}
	res, err := test.PerformRequest(t, "POST", "/applications/"+testGUID+"/autosave", payload, nil, router)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Code)

	stored, err := client.HGet(context.Background(), "draft_"+testGUID, draft.SectionLoan).Result()
	require.NoError(t, err)
	assert.Contains(t, stored, "250000")
}

func TestAutosaveRejectsUnknownSection(t *testing.T) {
	ctrl, _ := newTestController(t)
	router := newTestRouter(ctrl)

	payload := map[string]interface{}{
		"metadata": map[string]string{"foo": "bar"},
	}
	res, err := test.PerformRequest(t, "POST", "/applications/"+testGUID+"/autosave", payload, nil, router)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "Failed to save section metadata")
}

func TestAutosaveRejectsEmptyPayload(t *testing.T) {
	ctrl, _ := newTestController(t)
	router := newTestRouter(ctrl)

	res, err := test.PerformRequest(t, "POST", "/applications/"+testGUID+"/autosave",
		map[string]interface{}{}, nil, router)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "No sections in payload")
}

func TestSubmitApplicationRejectsIncomplete(t *testing.T) {
	ctrl, _ := newTestController(t)
	router := newTestRouter(ctrl)

	// No applicants at all, so validation fails before any step runs.
	res, err := test.PerformRequest(t, "POST", "/applications/"+testGUID+"/submit",
		map[string]interface{}{"loanAmount": "250000"}, nil, router)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}
