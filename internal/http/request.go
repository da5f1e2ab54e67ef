package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/bizdesk/internal/apperr"
	"github.com/tuanvumaihuynh/bizdesk/internal/csvimport"
	"github.com/tuanvumaihuynh/bizdesk/internal/service"
)

// handlerFunc is an http.HandlerFunc that reports failures instead of writing them.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// Decimal accepts a JSON number or a string using either "." or "," as decimal separator.
type Decimal struct {
	decimal.Decimal
}

func (d *Decimal) UnmarshalJSON(b []byte) error {
	raw := string(bytes.TrimSpace(b))
	if raw == "null" {
		return nil
	}

	if s, err := strconv.Unquote(raw); err == nil {
		raw = s
	}

	v, err := csvimport.ParseDecimal(raw)
	if err != nil {
		return fmt.Errorf("invalid decimal %q", raw)
	}
	d.Decimal = v
	return nil
}

// decimalPtr unwraps an optional request decimal.
func decimalPtr(d *Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	return &d.Decimal
}

func (s *Service) decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return apperr.InvalidBodyErr.WithMsgf("request body is not valid JSON: %v", err).WrapParent(err)
	}

	return s.validator.Validate(dst)
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

type messageResponse struct {
	Message string `json:"message"`
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ValidationErr.WithMsgf("invalid id %q", raw)
	}
	return id, nil
}

// requireNonBlank rejects an explicitly provided blank value for a required column.
func requireNonBlank(field string, v *string) error {
	if v != nil && strings.TrimSpace(*v) == "" {
		return apperr.ValidationErr.WithMsgf("%s must not be blank", field)
	}
	return nil
}

// readUpload returns the multipart "file" part of an import request. The caller closes it.
func (s *Service) readUpload(w http.ResponseWriter, r *http.Request) (multipart.File, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return nil, "", apperr.InvalidUploadErr.WithMsgf("file is larger than %d bytes", maxErr.Limit)
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			return nil, "", apperr.InvalidUploadErr.WithMsg("no file uploaded")
		default:
			return nil, "", apperr.InvalidUploadErr.WithMsgf("read upload: %v", err).WrapParent(err)
		}
	}

	return file, header.Filename, nil
}

func writeFile(w http.ResponseWriter, exp service.Export) error {
	w.Header().Set("Content-Type", exp.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": exp.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(exp.Body)))
	w.WriteHeader(http.StatusOK)

	_, err := io.Copy(w, bytes.NewReader(exp.Body))
	return err
}
