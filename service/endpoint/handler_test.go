package endpoint

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/hourly"
	"github.com/viant/hourly/model"
	"github.com/viant/hourly/model/types"
)

func newTestHandler(t *testing.T) *Handler {
	cfg := hourly.DefaultConfig()
	cfg.Export.URL = "mem://localhost/hourly/" + t.Name() + "/exports"
	srv, err := hourly.NewFromConfig(cfg)
	require.NoError(t, err)
	return NewHandler(srv, nil)
}

func do(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, path, reader)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func TestHandler_Workflow(t *testing.T) {
	handler := newTestHandler(t)

	response := do(t, handler, http.MethodPost, "/developers", `{"name":"A","hoursAvailable":"10"}`)
	require.Equal(t, http.StatusCreated, response.Code, response.Body.String())
	response = do(t, handler, http.MethodPost, "/demands", `{"name":"X","hours":"6","order":"1"}`)
	require.Equal(t, http.StatusCreated, response.Code, response.Body.String())
	response = do(t, handler, http.MethodPost, "/demands", `{"name":"Y","hours":5,"order":2}`)
	require.Equal(t, http.StatusCreated, response.Code, response.Body.String())

	var demands []model.Demand
	response = do(t, handler, http.MethodGet, "/demands", "")
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &demands))
	assert.Equal(t, []model.Demand{{ID: 1, Name: "X", Hours: 6, Order: 1}, {ID: 2, Name: "Y", Hours: 5, Order: 2}}, demands)

	demands = nil
	response = do(t, handler, http.MethodGet, "/demands?name=y", "")
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &demands))
	assert.Equal(t, []model.Demand{{ID: 2, Name: "Y", Hours: 5, Order: 2}}, demands)

	var developers []model.Developer
	response = do(t, handler, http.MethodGet, "/developers", "")
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &developers))
	assert.Equal(t, []model.Developer{{ID: 1, Name: "A", HoursAvailable: 10}}, developers)

	var allocation AllocationResponse
	response = do(t, handler, http.MethodPost, "/allocate", "")
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &allocation))
	require.Len(t, allocation.Result, 1)
	assert.Equal(t, "X", allocation.Result[0].AllocatedDemands[0].Name)
	assert.EqualValues(t, 4, allocation.Result[0].RemainingHours)
	assert.Equal(t, "Y", allocation.Unallocated[0].Name)
	assert.True(t, strings.HasPrefix(allocation.CsvPath, ExportPath))

	response = do(t, handler, http.MethodGet, allocation.CsvPath, "")
	require.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "text/csv", response.Header().Get("Content-Type"))
	assert.Equal(t, "developer,demand,hours,order,remainingHours\nA,X,6,1,4\n", response.Body.String())

	response = do(t, handler, http.MethodPatch, "/demands/2", `{"order":0}`)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())
	response = do(t, handler, http.MethodPost, "/reorder-allocate", "")
	require.Equal(t, http.StatusOK, response.Code)
	allocation = AllocationResponse{}
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &allocation))
	assert.Equal(t, model.ModeReorder, allocation.Mode)
	assert.Equal(t, "Y", allocation.Result[0].AllocatedDemands[0].Name)
	require.NotNil(t, allocation.Report)

	response = do(t, handler, http.MethodDelete, "/reset", "")
	assert.Equal(t, http.StatusNoContent, response.Code)
	response = do(t, handler, http.MethodGet, "/demands", "")
	assert.JSONEq(t, `[]`, response.Body.String())
	response = do(t, handler, http.MethodGet, allocation.CsvPath, "")
	assert.Equal(t, http.StatusNotFound, response.Code)
}

func TestHandler_Errors(t *testing.T) {
	handler := newTestHandler(t)
	var testCases = []struct {
		description string
		method      string
		path        string
		body        string
		status      int
		rule        string
	}{
		{description: "zero hours", method: http.MethodPost, path: "/demands", body: `{"name":"X","hours":0,"order":1}`, status: http.StatusBadRequest, rule: "hours must be > 0"},
		{description: "missing name", method: http.MethodPost, path: "/demands", body: `{"hours":2,"order":1}`, status: http.StatusBadRequest, rule: "name is required"},
		{description: "fractional order", method: http.MethodPost, path: "/demands", body: `{"name":"X","hours":2,"order":1.5}`, status: http.StatusBadRequest, rule: "order must be an integer"},
		{description: "order above int range", method: http.MethodPost, path: "/demands", body: `{"name":"Big","hours":1,"order":1e19}`, status: http.StatusBadRequest, rule: "order must be an integer within range"},
		{description: "order below int range", method: http.MethodPatch, path: "/demands/1", body: `{"order":-1e19}`, status: http.StatusBadRequest, rule: "order must be an integer within range"},
		{description: "infinite order", method: http.MethodPatch, path: "/demands/1", body: `{"order":"Inf"}`, status: http.StatusBadRequest, rule: "order must be an integer within range"},
		{description: "negative capacity", method: http.MethodPost, path: "/developers", body: `{"name":"A","hoursAvailable":-2}`, status: http.StatusBadRequest, rule: "hoursAvailable must be >= 0"},
		{description: "malformed number", method: http.MethodPost, path: "/developers", body: `{"name":"A","hoursAvailable":"ten"}`, status: http.StatusBadRequest},
		{description: "malformed json", method: http.MethodPost, path: "/demands", body: `{`, status: http.StatusBadRequest},
		{description: "unknown demand", method: http.MethodPatch, path: "/demands/42", body: `{"order":1}`, status: http.StatusNotFound},
		{description: "non numeric id", method: http.MethodPatch, path: "/demands/abc", body: `{"order":1}`, status: http.StatusBadRequest},
		{description: "unknown export", method: http.MethodGet, path: "/exports/missing.csv", status: http.StatusNotFound},
		{description: "method not allowed", method: http.MethodGet, path: "/allocate", status: http.StatusMethodNotAllowed},
	}
	for _, testCase := range testCases {
		response := do(t, handler, testCase.method, testCase.path, testCase.body)
		assert.Equal(t, testCase.status, response.Code, testCase.description)
		if testCase.rule == "" {
			continue
		}
		var payload errorResponse
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &payload), testCase.description)
		assert.Equal(t, testCase.rule, payload.Rule, testCase.description)
	}
}

func TestServer(t *testing.T) {
	server := NewServer("127.0.0.1:0", newTestHandler(t), nil)
	require.NoError(t, server.Start(context.Background()))
	defer server.Shutdown(context.Background())
	assert.Error(t, server.Start(context.Background()))

	response, err := http.Get("http://" + server.Addr() + "/health")
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, http.StatusOK, response.StatusCode)
}

func TestOrderValue(t *testing.T) {
	var testCases = []struct {
		description string
		value       number
		expect      int
		hasError    bool
	}{
		{description: "zero", value: 0, expect: 0},
		{description: "negative", value: -3, expect: -3},
		{description: "large in range", value: 9e18, expect: 9000000000000000000},
		{description: "fraction", value: 2.5, hasError: true},
		{description: "above range", value: 1e19, hasError: true},
		{description: "below range", value: -1e19, hasError: true},
	}
	for _, testCase := range testCases {
		actual, err := orderValue(7, testCase.value)
		if testCase.hasError {
			assert.ErrorIs(t, err, types.ErrInvalidInput, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}
