package serving

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/zefrenchwan/lineage.git/kinship"
)

// computeRelationshipsHandler reads a relationship request and returns its response envelope.
// A failed computation is a response of type error, not an http error.
func computeRelationshipsHandler(wrapper ServiceParameters, w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()

	var input kinship.Request
	if body, err := io.ReadAll(r.Body); err != nil {
		return NewServiceInternalServerError(err.Error())
	} else if errM := json.Unmarshal(body, &input); errM != nil {
		return NewServiceHttpClientError("invalid json: " + errM.Error())
	} else if input.RootPersonId == 0 {
		return NewServiceHttpClientError("expecting root person id")
	}

	var response kinship.Response
	if wrapper.Dispatcher == nil {
		response = kinship.Handle(input)
	} else if value, err := wrapper.Dispatcher.Submit(wrapper.Ctx, input); err != nil {
		return NewServiceUnavailableError(err.Error())
	} else {
		response = value
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
	return nil
}
