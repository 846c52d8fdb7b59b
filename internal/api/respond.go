// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package api

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cadence/internal/logging"
	"github.com/tomtom215/cadence/internal/models"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// respondJSON writes a success envelope around data. GET responses with
// status 200 get an ETag over the data payload and honour If-None-Match.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, data any, meta models.Metadata) {
	payload, err := json.Marshal(data)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to marshal response data")
		WriteError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "private, no-cache")
	if r.Method == http.MethodGet && status == http.StatusOK {
		etag := generateETag(payload)
		w.Header().Set("ETag", etag)
		if etagMatches(r.Header.Get("If-None-Match"), etag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	meta.Timestamp = time.Now().UTC()
	writeEnvelope(w, r, status, &models.APIResponse{
		Status:   models.StatusSuccess,
		Data:     json.RawMessage(payload),
		Metadata: meta,
	})
}

// respondAPIError writes an error envelope.
func respondAPIError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError) {
	w.Header().Set("Cache-Control", "no-store")
	writeEnvelope(w, r, status, &models.APIResponse{
		Status:   models.StatusError,
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    apiErr,
	})
}

// WriteError classifies err and writes the matching error envelope. Server
// side failures are logged. It also serves as the auth and authz error hook.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, apiErr := classify(err)
	event := logging.Ctx(r.Context()).Debug()
	if status >= http.StatusInternalServerError {
		event = logging.Ctx(r.Context()).Error()
	}
	event.Err(err).Int("status", status).Str("code", apiErr.Code).Msg("API error")
	respondAPIError(w, r, status, apiErr)
}

func writeEnvelope(w http.ResponseWriter, r *http.Request, status int, resp *models.APIResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag returns a weak validator over data (FNV-1a, 64 bit).
func generateETag(data []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(data) //nolint:errcheck // hash writes never fail
	return fmt.Sprintf(`W/"%x"`, h.Sum64())
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || candidate == etag || "W/"+candidate == etag {
			return true
		}
	}
	return false
}

// decodeJSON reads a JSON body into dst, rejecting unknown fields and
// trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errInvalidBody, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data", errInvalidBody)
	}
	return nil
}

// isClientGone reports whether err stems from the client disconnecting.
func isClientGone(r *http.Request, err error) bool {
	return r.Context().Err() != nil && errors.Is(err, r.Context().Err())
}
