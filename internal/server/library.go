package server

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tempo/internal/models"
	"github.com/desertthunder/tempo/internal/shared"
)

// Library is the part of the library service the HTTP API exposes.
type Library interface {
	SearchSongs(ctx context.Context, query string) ([]models.Song, error)
	GetSong(ctx context.Context, id int64) (*models.Song, error)
	CreateSong(ctx context.Context, in models.SongInput) (*models.Song, error)
	ListArtists(ctx context.Context) ([]models.Artist, error)
	GetArtist(ctx context.Context, id int64) (*models.Artist, error)
	CreateArtist(ctx context.Context, in models.ArtistInput) (*models.Artist, error)
	ArtistSongs(ctx context.Context, artistID int64) ([]models.Song, error)
	Search(ctx context.Context, query string) (*models.SearchResult, error)

	ListPlaylists(ctx context.Context, userID int64) ([]models.Playlist, error)
	GetPlaylist(ctx context.Context, id int64) (*models.Playlist, error)
	CreatePlaylistWithSeedSong(ctx context.Context, in models.PlaylistInput, songID *int64) (*models.Playlist, error)
	DeletePlaylist(ctx context.Context, id int64) error
	AddSongToPlaylist(ctx context.Context, playlistID, songID int64) error
	RemoveSongFromPlaylist(ctx context.Context, playlistID, songID int64) error
	ReorderPlaylist(ctx context.Context, playlistID int64, songIDs []int64) (*models.Playlist, error)

	LikedSongs(ctx context.Context, userID int64) ([]models.Song, error)
	LikeSong(ctx context.Context, userID, songID int64) error
	UnlikeSong(ctx context.Context, userID, songID int64) error
	ToggleLike(ctx context.Context, userID, songID int64) (bool, error)
}

// CreatePlaylistRequest is the body of POST /api/playlists.
type CreatePlaylistRequest struct {
	Name     string  `json:"name"`
	ImageURL *string `json:"imageUrl,omitempty"`
	SongID   *int64  `json:"songId,omitempty"`
}

// ReorderRequest is the body of PUT /api/playlists/{id}/songs.
type ReorderRequest struct {
	SongIDs []int64 `json:"songIds"`
}

// ToggleLikeResponse is returned by the toggle endpoint.
type ToggleLikeResponse struct {
	SongID int64 `json:"songId"`
	Liked  bool  `json:"liked"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// LibraryHandler serves the catalog, playlist and liked-song endpoints for one implicit user.
//
// The router matches the request against [LibraryHandler.Routes]; ServeHTTP
// then dispatches on the matched pattern.
type LibraryHandler struct {
	lib    Library
	userID int64
	logger *log.Logger
	routes map[string]http.HandlerFunc
}

// NewLibraryHandler creates the handler.
func NewLibraryHandler(lib Library, userID int64, logger *log.Logger) *LibraryHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	h := &LibraryHandler{lib: lib, userID: userID, logger: logger}
	h.routes = map[string]http.HandlerFunc{
		"GET /health": h.health,

		"GET /api/songs":      h.listSongs,
		"POST /api/songs":     h.createSong,
		"GET /api/songs/{id}": h.getSong,
		"GET /api/search":     h.search,

		"GET /api/artists":            h.listArtists,
		"POST /api/artists":           h.createArtist,
		"GET /api/artists/{id}":       h.getArtist,
		"GET /api/artists/{id}/songs": h.artistSongs,

		"GET /api/playlists":         h.listPlaylists,
		"POST /api/playlists":        h.createPlaylist,
		"GET /api/playlists/{id}":    h.getPlaylist,
		"DELETE /api/playlists/{id}": h.deletePlaylist,

		"PUT /api/playlists/{id}/songs":             h.reorderPlaylist,
		"POST /api/playlists/{id}/songs/{songId}":   h.addPlaylistSong,
		"DELETE /api/playlists/{id}/songs/{songId}": h.removePlaylistSong,

		"GET /api/liked":                        h.liked,
		"POST /api/liked/songs/{songId}":        h.like,
		"DELETE /api/liked/songs/{songId}":      h.unlike,
		"POST /api/liked/songs/{songId}/toggle": h.toggleLike,

		// Legacy aliases
		"GET /api/playlists/liked":                   h.liked,
		"POST /api/playlists/liked/songs/{songId}":   h.like,
		"DELETE /api/playlists/liked/songs/{songId}": h.unlike,
	}
	return h
}

// Routes returns the served patterns in a stable order.
func (h *LibraryHandler) Routes() []string {
	routes := make([]string, 0, len(h.routes))
	for pattern := range h.routes {
		routes = append(routes, pattern)
	}
	sort.Strings(routes)
	return routes
}

// ServeHTTP dispatches on the pattern the router matched.
func (h *LibraryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fn, ok := h.routes[r.Pattern]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Not found")
		return
	}
	fn(w, r)
}

// fail writes the response for a library error, logging unexpected ones.
func (h *LibraryHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestIDFrom(r.Context()))
	}
	writeMessage(w, status, message)
}

func (h *LibraryHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *LibraryHandler) listSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.lib.SearchSongs(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (h *LibraryHandler) getSong(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid song ID")
		return
	}

	song, err := h.lib.GetSong(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func (h *LibraryHandler) createSong(w http.ResponseWriter, r *http.Request) {
	var in models.SongInput
	if err := decodeBody(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	song, err := h.lib.CreateSong(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, song)
}

func (h *LibraryHandler) search(w http.ResponseWriter, r *http.Request) {
	result, err := h.lib.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *LibraryHandler) listArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := h.lib.ListArtists(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artists)
}

func (h *LibraryHandler) createArtist(w http.ResponseWriter, r *http.Request) {
	var in models.ArtistInput
	if err := decodeBody(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	artist, err := h.lib.CreateArtist(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, artist)
}

func (h *LibraryHandler) getArtist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid artist ID")
		return
	}

	artist, err := h.lib.GetArtist(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

func (h *LibraryHandler) artistSongs(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid artist ID")
		return
	}

	songs, err := h.lib.ArtistSongs(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (h *LibraryHandler) listPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.lib.ListPlaylists(r.Context(), h.userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlists)
}

func (h *LibraryHandler) createPlaylist(w http.ResponseWriter, r *http.Request) {
	var req CreatePlaylistRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	in := models.PlaylistInput{Name: req.Name, UserID: h.userID, ImageURL: req.ImageURL}
	playlist, err := h.lib.CreatePlaylistWithSeedSong(r.Context(), in, req.SongID)
	switch {
	case errors.Is(err, shared.ErrInvalidInput):
		writeMessage(w, http.StatusBadRequest, "Invalid playlist name")
	case err != nil:
		h.fail(w, r, err)
	default:
		writeJSON(w, http.StatusCreated, playlist)
	}
}

func (h *LibraryHandler) getPlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}

	playlist, err := h.lib.GetPlaylist(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

func (h *LibraryHandler) deletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}

	if err := h.lib.DeletePlaylist(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LibraryHandler) reorderPlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}

	var req ReorderRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	playlist, err := h.lib.ReorderPlaylist(r.Context(), id, req.SongIDs)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

// membershipIDs parses the playlist and song wildcards shared by the membership routes.
func membershipIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	playlistID, err := pathID(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid playlist ID")
		return 0, 0, false
	}
	songID, err := pathID(r, "songId")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid song ID")
		return 0, 0, false
	}
	return playlistID, songID, true
}

func (h *LibraryHandler) addPlaylistSong(w http.ResponseWriter, r *http.Request) {
	playlistID, songID, ok := membershipIDs(w, r)
	if !ok {
		return
	}

	if err := h.lib.AddSongToPlaylist(r.Context(), playlistID, songID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LibraryHandler) removePlaylistSong(w http.ResponseWriter, r *http.Request) {
	playlistID, songID, ok := membershipIDs(w, r)
	if !ok {
		return
	}

	if err := h.lib.RemoveSongFromPlaylist(r.Context(), playlistID, songID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LibraryHandler) liked(w http.ResponseWriter, r *http.Request) {
	songs, err := h.lib.LikedSongs(r.Context(), h.userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewLikedCollection(songs))
}

func (h *LibraryHandler) like(w http.ResponseWriter, r *http.Request) {
	songID, err := pathID(r, "songId")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid song ID")
		return
	}

	if err := h.lib.LikeSong(r.Context(), h.userID, songID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LibraryHandler) unlike(w http.ResponseWriter, r *http.Request) {
	songID, err := pathID(r, "songId")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid song ID")
		return
	}

	if err := h.lib.UnlikeSong(r.Context(), h.userID, songID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LibraryHandler) toggleLike(w http.ResponseWriter, r *http.Request) {
	songID, err := pathID(r, "songId")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid song ID")
		return
	}

	liked, err := h.lib.ToggleLike(r.Context(), h.userID, songID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ToggleLikeResponse{SongID: songID, Liked: liked})
}
