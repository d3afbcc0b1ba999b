package digest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"pdf-digest/internal/domain/entity"
	"pdf-digest/internal/handler/http/respond"
	"pdf-digest/internal/observability/metrics"
	digestUC "pdf-digest/internal/usecase/digest"
	"pdf-digest/internal/utils/text"
)

const (
	// FormField is the multipart field carrying the PDF.
	FormField = "file"

	// multipartMemory is how much of a form is buffered in memory before spilling to disk.
	multipartMemory = 8 << 20

	// multipartOverhead covers part headers and boundaries around the file.
	multipartOverhead = 64 << 10
)

// BodyLimit is the request body cap for uploads of at most maxUploadBytes. The file
// itself is checked against maxUploadBytes once it is read.
func BodyLimit(maxUploadBytes int64) int64 {
	return maxUploadBytes + multipartOverhead
}

var pdfMagic = []byte("%PDF-")

// readUpload reads the PDF part of a multipart request. The file may be up to maxBytes
// long. Failures are returned as *respond.AppError.
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (digestUC.Input, error) {
	r.Body = http.MaxBytesReader(w, r.Body, BodyLimit(maxBytes))

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return digestUC.Input{}, respond.NewAppError(http.StatusRequestEntityTooLarge,
				"file too large: limit is "+text.FormatSize(maxBytes), err)
		}
		return digestUC.Input{}, respond.NewAppError(http.StatusBadRequest,
			"invalid multipart form", err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(FormField)
	if err != nil {
		return digestUC.Input{}, respond.NewAppError(http.StatusBadRequest,
			fmt.Sprintf("missing form field %q", FormField), err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return digestUC.Input{}, respond.NewAppError(http.StatusBadRequest, "could not read upload", err)
	}

	filename := entity.CleanFilename(header.Filename)
	if err := entity.ValidateUpload(filename, int64(len(data)), maxBytes); err != nil {
		status, msg := http.StatusBadRequest, "invalid upload"
		var vErr *entity.ValidationError
		if errors.As(err, &vErr) {
			msg = vErr.Message
			if vErr.Field == entity.FieldSize {
				status = http.StatusRequestEntityTooLarge
			}
		}
		return digestUC.Input{}, respond.NewAppError(status, msg, err)
	}

	if !isPDF(header.Header.Get("Content-Type"), data) {
		return digestUC.Input{}, respond.NewAppError(http.StatusUnsupportedMediaType,
			"only PDF files are supported", fmt.Errorf("upload %q is not a PDF", filename))
	}

	metrics.RecordUpload(int64(len(data)))
	return digestUC.Input{Filename: filename, Data: data}, nil
}

// isPDF accepts a part declared as application/pdf or one starting with the PDF magic.
func isPDF(contentType string, data []byte) bool {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType == "application/pdf" {
		return true
	}
	return bytes.HasPrefix(data, pdfMagic)
}
