package serving

import (
	"context"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zefrenchwan/lineage.git/kinship"
	"github.com/zefrenchwan/lineage.git/people"
	"go.uber.org/zap"
)

// InitService returns a new valid servemux to launch
func InitService(parameters ServiceParameters) *http.ServeMux {
	mux := http.NewServeMux()
	if parameters.Logger == nil {
		parameters.Logger = zap.NewNop().Sugar()
	}

	// ADMIN PART
	AddGetServiceHandlerToMux(mux, "/status/", checkStatusHandler, parameters)
	mux.Handle("/metrics", promhttp.Handler())
	// RELATIONSHIPS
	AddPostServiceHandlerToMux(mux, "/relationships/compute/", computeRelationshipsHandler, parameters)
	// ANCESTORS
	AddGetServiceHandlerToMux(mux, "/ancestors/{personId}/generations/{depth}/", loadAncestorsHandler, parameters)
	// mux is complete, all handlers are set
	return mux
}

// AddGetServiceHandlerToMux adds an handler to to the current mux for a GET
func AddGetServiceHandlerToMux(mux *http.ServeMux, urlPattern string, handler ServiceHandler, parameters ServiceParameters) {
	AddServiceHandlerToMux(mux, "GET", urlPattern, handler, parameters)
}

// AddPostServiceHandlerToMux adds an handler to to the current mux for a POST
func AddPostServiceHandlerToMux(mux *http.ServeMux, urlPattern string, handler ServiceHandler, parameters ServiceParameters) {
	AddServiceHandlerToMux(mux, "POST", urlPattern, handler, parameters)
}

// AddServiceHandlerToMux adds an handler to current mux
func AddServiceHandlerToMux(mux *http.ServeMux, method string, urlPattern string, handler ServiceHandler, parameters ServiceParameters) {
	handlerFunction := func(w http.ResponseWriter, r *http.Request) {
		if !strings.EqualFold(r.Method, method) {
			http.Error(w, "Expecting "+method, http.StatusBadRequest)
			return
		}

		current := parameters
		current.Ctx = r.Context()
		errHandler := handler(current, w, r)
		if errHandler != nil {
			switch customError, ok := errHandler.(ServiceHttpError); ok {
			case true:
				parameters.Logger.Errorw("request failed", "url", r.URL.Path, "code", customError.HttpCode(), "error", customError.Error())
				http.Error(w, customError.Error(), customError.HttpCode())
			default:
				parameters.Logger.Errorw("request failed", "url", r.URL.Path, "error", errHandler.Error())
				http.Error(w, "Internal error: "+errHandler.Error(), http.StatusInternalServerError)
			}
		}
	}

	// register url matching
	mux.HandleFunc(urlPattern, handlerFunction)
	// deal with /value/ <=> /value
	size := len(urlPattern)
	if strings.HasSuffix(urlPattern, "/") {
		mux.HandleFunc(urlPattern[0:size-1], handlerFunction)
	} else {
		mux.HandleFunc(urlPattern+"/", handlerFunction)
	}
}

// ServiceParameters contains all parameters to use for a service
type ServiceParameters struct {
	// Loader fetches profiles, nil if no profile source is configured
	Loader people.Loader
	// Dispatcher computes relationships on workers
	Dispatcher *kinship.Dispatcher
	// MaxGenerations is the deepest ancestor generation a request may ask for
	MaxGenerations int
	Ctx            context.Context
	Logger         *zap.SugaredLogger
}

// ServiceHandler adds more parameters than usual handler function
type ServiceHandler func(wrapper ServiceParameters, w http.ResponseWriter, r *http.Request) error
