package digest

import (
	"context"
	"net/http"
	"time"

	"pdf-digest/internal/domain/entity"
	"pdf-digest/internal/handler/http/respond"
	digestUC "pdf-digest/internal/usecase/digest"
)

// Pipeline is the use case behind the handlers.
type Pipeline interface {
	Digest(ctx context.Context, in digestUC.Input) (*entity.Digest, error)
	Extract(ctx context.Context, in digestUC.Input) (*entity.Digest, error)
}

type runFunc func(ctx context.Context, in digestUC.Input) (*entity.Digest, error)

// APIHandler serves the JSON upload endpoints.
type APIHandler struct {
	run            runFunc
	maxUploadBytes int64
}

// NewDigestAPI returns the handler for POST /api/digest.
func NewDigestAPI(svc Pipeline, maxUploadBytes int64) APIHandler {
	return APIHandler{run: svc.Digest, maxUploadBytes: maxUploadBytes}
}

// NewExtractAPI returns the handler for POST /api/extract. It never calls the model.
func NewExtractAPI(svc Pipeline, maxUploadBytes int64) APIHandler {
	return APIHandler{run: svc.Extract, maxUploadBytes: maxUploadBytes}
}

func (h APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	in, err := readUpload(w, r, h.maxUploadBytes)
	if err != nil {
		respond.SafeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	d, err := h.run(r.Context(), in)
	if err != nil {
		respond.SafeError(r.Context(), w, http.StatusInternalServerError, toAppError(err))
		return
	}
	respond.JSON(w, http.StatusOK, toResponse(d, time.Since(start)))
}
