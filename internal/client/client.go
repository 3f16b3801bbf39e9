// package client talks to a running tempo server over its JSON API
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/desertthunder/tempo/internal/models"
	"github.com/desertthunder/tempo/internal/shared"
)

// DefaultBaseURL is the address `tempo serve` listens on out of the box.
const DefaultBaseURL = "http://127.0.0.1:5000"

// Client is a user-bound library backed by the HTTP API.
//
// It satisfies the same interface as the in-process library so the player
// can run against a remote server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for baseURL. Empty values fall back to [DefaultBaseURL]
// and a client with a 10s timeout.
func New(baseURL string, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{baseURL: baseURL, httpClient: client}
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string { return c.baseURL }

// APIError is a non-2xx response. It unwraps to the matching sentinel from
// the shared package so callers can use errors.Is.
type APIError struct {
	StatusCode int
	Message    string
	sentinel   error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.sentinel }

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)
	if payload.Message == "" {
		payload.Message = http.StatusText(status)
	}

	e := &APIError{StatusCode: status, Message: payload.Message}
	switch {
	case status == http.StatusNotFound:
		switch payload.Message {
		case "Song not found":
			e.sentinel = shared.ErrSongNotFound
		case "Artist not found":
			e.sentinel = shared.ErrArtistNotFound
		case "Playlist not found":
			e.sentinel = shared.ErrPlaylistNotFound
		default:
			e.sentinel = shared.ErrNotFound
		}
	case status == http.StatusBadRequest:
		e.sentinel = shared.ErrInvalidInput
	case status == http.StatusTooManyRequests:
		e.sentinel = shared.ErrRateLimited
	case status >= http.StatusInternalServerError:
		e.sentinel = shared.ErrServiceUnavailable
	default:
		e.sentinel = shared.ErrAPIRequest
	}
	return e
}

// do sends a request and decodes a JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Health reports whether the server answers /health.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) Songs(ctx context.Context) ([]models.Song, error) {
	songs := []models.Song{}
	if err := c.do(ctx, http.MethodGet, "/api/songs", nil, &songs); err != nil {
		return nil, err
	}
	return songs, nil
}

func (c *Client) Search(ctx context.Context, query string) (*models.SearchResult, error) {
	var result models.SearchResult
	if err := c.do(ctx, http.MethodGet, "/api/search?q="+url.QueryEscape(query), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Playlists(ctx context.Context) ([]models.Playlist, error) {
	playlists := []models.Playlist{}
	if err := c.do(ctx, http.MethodGet, "/api/playlists", nil, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

func (c *Client) PlaylistSongs(ctx context.Context, playlistID int64) ([]models.Song, error) {
	var playlist models.Playlist
	if err := c.do(ctx, http.MethodGet, "/api/playlists/"+id(playlistID), nil, &playlist); err != nil {
		return nil, err
	}
	if playlist.Songs == nil {
		playlist.Songs = []models.Song{}
	}
	return playlist.Songs, nil
}

func (c *Client) LikedSongs(ctx context.Context) ([]models.Song, error) {
	var liked models.LikedCollection
	if err := c.do(ctx, http.MethodGet, "/api/liked", nil, &liked); err != nil {
		return nil, err
	}
	if liked.Songs == nil {
		liked.Songs = []models.Song{}
	}
	return liked.Songs, nil
}

func (c *Client) ToggleLike(ctx context.Context, songID int64) (bool, error) {
	var resp struct {
		Liked bool `json:"liked"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/liked/songs/"+id(songID)+"/toggle", nil, &resp); err != nil {
		return false, err
	}
	return resp.Liked, nil
}

func (c *Client) AddSongToPlaylist(ctx context.Context, playlistID, songID int64) error {
	return c.do(ctx, http.MethodPost, "/api/playlists/"+id(playlistID)+"/songs/"+id(songID), nil, nil)
}

func (c *Client) RemoveSongFromPlaylist(ctx context.Context, playlistID, songID int64) error {
	return c.do(ctx, http.MethodDelete, "/api/playlists/"+id(playlistID)+"/songs/"+id(songID), nil, nil)
}

func (c *Client) CreatePlaylist(ctx context.Context, name string) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := c.do(ctx, http.MethodPost, "/api/playlists", map[string]string{"name": name}, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}
