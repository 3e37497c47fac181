package serving_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zefrenchwan/lineage.git/kinship"
	"github.com/zefrenchwan/lineage.git/people"
	"github.com/zefrenchwan/lineage.git/serving"
	"github.com/zefrenchwan/lineage.git/storage"
)

// memoryLoader serves profiles from memory
type memoryLoader map[int]people.Record

func (m memoryLoader) LoadProfiles(ctx context.Context, ids []int) ([]people.Record, error) {
	result := make([]people.Record, 0, len(ids))
	for _, id := range ids {
		if record, found := m[id]; found {
			result = append(result, record)
		}
	}

	return result, nil
}

// failingLoader always fails
type failingLoader struct{}

func (failingLoader) LoadProfiles(ctx context.Context, ids []int) ([]people.Record, error) {
	return nil, errors.New("database down")
}

func serve(parameters serving.ServiceParameters, method, url, body string) *httptest.ResponseRecorder {
	if parameters.Ctx == nil {
		parameters.Ctx = context.Background()
	}

	mux := serving.InitService(parameters)
	request := httptest.NewRequest(method, url, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, request)
	return recorder
}

func TestStatus(t *testing.T) {
	for _, url := range []string{"/status/", "/status"} {
		recorder := serve(serving.ServiceParameters{}, http.MethodGet, url, "")
		require.Equal(t, http.StatusOK, recorder.Code)

		var status serving.CheckStatusResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &status))
		assert.True(t, status.Active)
		assert.False(t, status.Profiles)
	}

	recorder := serve(serving.ServiceParameters{}, http.MethodPost, "/status/", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

const relationshipsRequest = `{
	"requestId": "r1",
	"rootPersonId": 10,
	"familyMap": [
		[10, {"Father": 3, "Gender": "Male"}],
		[3, {"Father": 1, "Gender": "Male"}],
		[4, {"Father": 1, "Gender": "Female"}],
		[1, {"Gender": "Male"}],
		[20, {"Gender": "Female"}]
	]
}`

func TestComputeRelationships(t *testing.T) {
	recorder := serve(serving.ServiceParameters{}, http.MethodPost, "/relationships/compute/", relationshipsRequest)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response kinship.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "r1", response.RequestId)
	assert.Equal(t, kinship.RESPONSE_COMPLETED, response.Type)
	require.Len(t, response.Results, 4)
	assert.Equal(t, "father", response.Results[0].Relationship.Full)
	assert.Equal(t, "aunt", response.Results[1].Relationship.Full)
	assert.Equal(t, "grandfather", response.Results[2].Relationship.Full)
	assert.False(t, response.Results[3].Found())
}

func TestComputeRelationshipsWithDispatcher(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := kinship.NewDispatcher(nil)
	go dispatcher.Run(ctx, 2)

	parameters := serving.ServiceParameters{Dispatcher: dispatcher, Ctx: ctx}
	recorder := serve(parameters, http.MethodPost, "/relationships/compute", relationshipsRequest)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response kinship.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, kinship.RESPONSE_COMPLETED, response.Type)
	assert.Len(t, response.Results, 4)
}

func TestComputeRelationshipsErrors(t *testing.T) {
	recorder := serve(serving.ServiceParameters{}, http.MethodPost, "/relationships/compute/", "{")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = serve(serving.ServiceParameters{}, http.MethodPost, "/relationships/compute/", `{"familyMap": []}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// unknown root is a failed computation, not a failed request
	recorder = serve(serving.ServiceParameters{}, http.MethodPost, "/relationships/compute/", `{"rootPersonId": 99, "familyMap": []}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	var response kinship.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.True(t, response.IsError())
}

func testLoader() memoryLoader {
	return memoryLoader{
		10: {Id: 10, Name: "Doe-10", Father: 20, Mother: 30},
		20: {Id: 20, Gender: "Male", Father: 40},
		30: {Id: 30, Gender: "Female", Father: 40},
		40: {Id: 40, Gender: "Male"},
	}
}

func TestAncestors(t *testing.T) {
	parameters := serving.ServiceParameters{Loader: testLoader()}
	recorder := serve(parameters, http.MethodGet, "/ancestors/10/generations/3/", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var index storage.AncestorIndexDTO
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &index))
	assert.Equal(t, 10, index.RootId)
	assert.Equal(t, 3, index.Generations)
	assert.Len(t, index.Positions, 5)
	assert.Len(t, index.People, 4)
	assert.Equal(t, []uint64{4, 6}, index.Collapsed[40])
}

func TestAncestorsErrors(t *testing.T) {
	recorder := serve(serving.ServiceParameters{}, http.MethodGet, "/ancestors/10/generations/3/", "")
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	parameters := serving.ServiceParameters{Loader: testLoader(), MaxGenerations: 5}
	for url, code := range map[string]int{
		"/ancestors/99/generations/3/":  http.StatusNotFound,
		"/ancestors/abc/generations/3/": http.StatusBadRequest,
		"/ancestors/10/generations/0/":  http.StatusBadRequest,
		"/ancestors/10/generations/6/":  http.StatusBadRequest,
		"/ancestors/10/generations/5":   http.StatusOK,
	} {
		recorder := serve(parameters, http.MethodGet, url, "")
		assert.Equal(t, code, recorder.Code, url)
	}

	failing := serving.ServiceParameters{Loader: failingLoader{}}
	recorder = serve(failing, http.MethodGet, "/ancestors/10/generations/3/", "")
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestMetrics(t *testing.T) {
	serve(serving.ServiceParameters{}, http.MethodPost, "/relationships/compute/", relationshipsRequest)
	recorder := serve(serving.ServiceParameters{}, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "lineage_relationship_requests_total")
}

func TestServiceErrors(t *testing.T) {
	err := serving.NewServiceNotFoundError("missing")
	assert.Equal(t, http.StatusNotFound, err.HttpCode())
	assert.Equal(t, "missing", err.Error())
	assert.Nil(t, serving.BuildApiErrorFromStorageError(nil))

	apiErr := serving.BuildApiErrorFromStorageError(errors.New("boom"))
	var httpErr serving.ServiceHttpError
	require.ErrorAs(t, apiErr, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.HttpCode())
}
