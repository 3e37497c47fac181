package serving

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/zefrenchwan/lineage.git/ahnentafel"
	"github.com/zefrenchwan/lineage.git/people"
	"github.com/zefrenchwan/lineage.git/storage"
)

// DEFAULT_MAX_GENERATIONS bounds ancestors requests when parameters do not
const DEFAULT_MAX_GENERATIONS = 12

// loadAncestorsHandler loads ancestors of a person, generation by generation, and returns the index.
// Each request owns its graph: nothing is shared but the profile loader.
func loadAncestorsHandler(wrapper ServiceParameters, w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()

	if wrapper.Loader == nil {
		return NewServiceUnavailableError("no profile source")
	}

	maxGenerations := wrapper.MaxGenerations
	if maxGenerations <= 0 {
		maxGenerations = DEFAULT_MAX_GENERATIONS
	}

	var personId, depth int
	if value, err := strconv.Atoi(r.PathValue("personId")); err != nil || value <= 0 {
		return NewServiceHttpClientError("expecting a valid person id")
	} else {
		personId = value
	}

	if value, err := strconv.Atoi(r.PathValue("depth")); err != nil || value <= 0 {
		return NewServiceHttpClientError("expecting a valid depth")
	} else if value > maxGenerations {
		return NewServiceHttpClientError(fmt.Sprintf("depth should be at most %d", maxGenerations))
	} else {
		depth = value
	}

	index, graph, errLoad := ahnentafel.Load(wrapper.Ctx, wrapper.Loader, personId, depth, maxGenerations, wrapper.Logger)
	if errors.Is(errLoad, ahnentafel.ErrUnknownPerson) {
		return NewServiceNotFoundError(errLoad.Error())
	} else if errors.Is(errLoad, ahnentafel.ErrDepthTooLarge) {
		return NewServiceHttpClientError(errLoad.Error())
	} else if errors.Is(errLoad, people.ErrMissingId) {
		return NewServiceUnprocessableEntityError(errLoad.Error())
	} else if errLoad != nil {
		return BuildApiErrorFromStorageError(errLoad)
	}

	wrapper.Logger.Debugw("ancestors loaded", "root", personId, "generations", index.Depth(), "people", graph.Count())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(storage.SerializeIndex(index, graph))
	return nil
}
