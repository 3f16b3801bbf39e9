package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/desertthunder/tempo/internal/shared"
)

const (
	msgInternal         = "Internal server error"
	msgSongNotFound     = "Song not found"
	msgArtistNotFound   = "Artist not found"
	msgPlaylistNotFound = "Playlist not found"
	msgInvalidBody      = "Invalid request body"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Message: message})
}

// statusFor maps a library error onto a status code and client message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, shared.ErrSongNotFound):
		return http.StatusNotFound, msgSongNotFound
	case errors.Is(err, shared.ErrArtistNotFound):
		return http.StatusNotFound, msgArtistNotFound
	case errors.Is(err, shared.ErrPlaylistNotFound):
		return http.StatusNotFound, msgPlaylistNotFound
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// pathID parses a positive integer wildcard from the request path.
func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s %q", shared.ErrInvalidArgument, name, raw)
	}
	return id, nil
}

// decodeBody reads a JSON body into v, rejecting unknown trailing data.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after body", shared.ErrInvalidInput)
	}
	return nil
}
