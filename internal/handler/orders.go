package handler

import (
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/aarna-atelier/storefront-api/internal/domain/intake"
)

type customOrderRequest struct {
	Message string `json:"message"`
}

// SubmitCustomOrder handles submit-custom-order. The intake accepts either
// a multipart form (message text field plus optional image file) or a plain
// JSON body with a message. A submission with neither message nor image is
// rejected; one whose image is still encoding blocks further submissions.
func (h *Handler) SubmitCustomOrder(w http.ResponseWriter, r *http.Request) {
	message, image, mimeType, err := h.readSubmission(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.intake.Submit(r.Context(), message, image, mimeType)
	if err != nil {
		switch {
		case errors.Is(err, intake.ErrEmptySubmission):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, intake.ErrEncodeInFlight):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeInternalError(r, w, err)
		}
		return
	}

	h.metrics.recordCustomOrder(r.Context(), rec.Image != "")
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeRecord(e, *rec)
	})
}

// ListCustomOrders serves the append-only log, oldest first.
func (h *Handler) ListCustomOrders(w http.ResponseWriter, _ *http.Request) {
	records := h.intake.List()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, rec := range records {
			encodeRecord(e, rec)
		}
		e.ArrEnd()
	})
}

// readSubmission extracts the message and optional image from the request.
func (h *Handler) readSubmission(r *http.Request) (message string, image []byte, mimeType string, err error) {
	ct := r.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(ct)

	if !strings.HasPrefix(mediaType, "multipart/") {
		var req customOrderRequest
		if decErr := h.decodeBody(r, &req); decErr != nil {
			return "", nil, "", errors.New("malformed request body")
		}
		return req.Message, nil, "", nil
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return "", nil, "", errors.New("malformed multipart form")
	}

	message = r.FormValue("message")

	file, header, fErr := r.FormFile("image")
	if fErr != nil {
		if errors.Is(fErr, http.ErrMissingFile) {
			return message, nil, "", nil
		}
		return "", nil, "", errors.New("unreadable image attachment")
	}
	defer func() { _ = file.Close() }()

	image, err = io.ReadAll(file)
	if err != nil {
		return "", nil, "", errors.New("unreadable image attachment")
	}
	return message, image, header.Header.Get("Content-Type"), nil
}

func encodeRecord(e *jx.Encoder, rec intake.Record) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(rec.ID)
	e.FieldStart("message")
	e.Str(rec.Message)
	e.FieldStart("image")
	if rec.Image == "" {
		e.Null()
	} else {
		e.Str(rec.Image)
	}
	e.FieldStart("timestamp")
	e.Str(rec.Timestamp.Format(time.RFC3339Nano))
	e.ObjEnd()
}
