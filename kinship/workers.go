package kinship

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zefrenchwan/lineage.git/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// RESPONSE_COMPLETED is the type of a successful response
	RESPONSE_COMPLETED = "completed"
	// RESPONSE_ERROR is the type of a failed computation, not of a missing relationship
	RESPONSE_ERROR = "error"
)

// Request asks for the relationships of a family to a root.
// Callers use RequestId to ignore stale responses.
type Request struct {
	RequestId    string        `json:"requestId,omitempty"`
	FamilyMap    FamilyEntries `json:"familyMap"`
	RootPersonId int           `json:"rootPersonId"`
}

// NewRequest builds a request with a generated id
func NewRequest(rootId int, entries FamilyEntries) Request {
	return Request{
		RequestId:    uuid.NewString(),
		FamilyMap:    entries,
		RootPersonId: rootId,
	}
}

// Response is either completed with results, or an error with a message
type Response struct {
	RequestId string   `json:"requestId,omitempty"`
	Type      string   `json:"type"`
	Results   []Result `json:"results,omitempty"`
	Message   string   `json:"message,omitempty"`
}

// IsError returns true if computation failed
func (r Response) IsError() bool {
	return r.Type == RESPONSE_ERROR
}

// compute is the computation Handle runs, replaced in tests
var compute = Compute

// Handle computes a request. It never panics: a crash becomes an error response
func Handle(request Request) (response Response) {
	start := time.Now()
	response.RequestId = request.RequestId
	defer func() {
		if recovered := recover(); recovered != nil {
			response = Response{
				RequestId: request.RequestId,
				Type:      RESPONSE_ERROR,
				Message:   fmt.Sprintf("relationship computation crashed: %v", recovered),
			}
		}

		metrics.RelationshipRequests.WithLabelValues(response.Type).Inc()
		metrics.RelationshipDuration.Observe(time.Since(start).Seconds())
	}()

	results, err := compute(request.RootPersonId, request.FamilyMap)
	if err != nil {
		response.Type = RESPONSE_ERROR
		response.Message = err.Error()
		return response
	}

	metrics.RelationshipPeople.Add(float64(len(results)))
	response.Type = RESPONSE_COMPLETED
	response.Results = results
	return response
}

// RunPool handles requests with workers goroutines until requests is closed or ctx is done.
// Each request gets exactly one response. Caller closes responses once RunPool returns.
func RunPool(ctx context.Context, workers int, requests <-chan Request, responses chan<- Response, logger *zap.SugaredLogger) error {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	if workers <= 0 {
		workers = 1
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for index := 0; index < workers; index++ {
		group.Go(func() error {
			for {
				var request Request
				select {
				case <-groupCtx.Done():
					return groupCtx.Err()
				case value, ok := <-requests:
					if !ok {
						return nil
					}

					request = value
				}

				response := Handle(request)
				if response.IsError() {
					logger.Errorw("relationship computation failed",
						"request", response.RequestId,
						"root", request.RootPersonId,
						"error", response.Message,
					)
				}

				select {
				case <-groupCtx.Done():
					return groupCtx.Err()
				case responses <- response:
				}
			}
		})
	}

	return group.Wait()
}
