// package formatter renders playlists and liked songs to CSV, Markdown, plain text and JSON
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/tempo/internal/models"
	"github.com/desertthunder/tempo/internal/shared"
)

// Format selects an export renderer.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "txt"
	JSON     Format = "json"
)

// Formats lists the supported formats in display order.
var Formats = []Format{CSV, Markdown, Text, JSON}

// ParseFormat accepts a format name, including the "md" and "text" aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "txt", "text":
		return Text, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, name)
	}
}

// Export is a playlist or the liked-songs collection flattened for rendering.
type Export struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	ImageURL   string        `json:"imageUrl,omitempty"`
	CreatedAt  *time.Time    `json:"createdAt,omitempty"`
	SongCount  int           `json:"songCount"`
	Duration   int           `json:"duration"`
	ExportedAt time.Time     `json:"exportedAt"`
	Songs      []models.Song `json:"songs"`
}

// FromPlaylist builds an [Export] from a playlist with its songs resolved.
func FromPlaylist(p models.Playlist) *Export {
	e := &Export{
		ID:         strconv.FormatInt(p.ID, 10),
		Name:       p.Name,
		CreatedAt:  &p.CreatedAt,
		ExportedAt: time.Now().UTC(),
	}
	if p.ImageURL != nil {
		e.ImageURL = *p.ImageURL
	}
	e.setSongs(p.Songs)
	return e
}

// FromLiked builds an [Export] from the liked-songs collection.
func FromLiked(l models.LikedCollection) *Export {
	e := &Export{ID: l.ID, Name: l.Name, ExportedAt: time.Now().UTC()}
	e.setSongs(l.Songs)
	return e
}

func (e *Export) setSongs(songs []models.Song) {
	if songs == nil {
		songs = []models.Song{}
	}
	e.Songs = songs
	e.SongCount = len(songs)
	e.Duration = 0
	for _, s := range songs {
		e.Duration += s.Duration
	}
}

// BaseName is the default file stem: "liked" or "playlist_<id>".
func (e *Export) BaseName() string {
	if e.ID == models.LikedCollectionID {
		return e.ID
	}
	return "playlist_" + e.ID
}

// ExportToCSV renders songs with columns: ID, Title, Artist, Album, Duration, URL
func ExportToCSV(export *Export) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range export.Songs {
		record := []string{
			strconv.FormatInt(song.ID, 10),
			song.Title,
			song.Artist,
			song.AlbumName(),
			strconv.Itoa(song.Duration),
			song.URL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a README with an optional cover image reference.
func ExportToMarkdown(export *Export, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", export.Name)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	fmt.Fprintf(&buf, "**Songs**: %d\n", export.SongCount)
	fmt.Fprintf(&buf, "**Duration**: %s\n\n", shared.FormatDuration(export.Duration))

	buf.WriteString("## Songs\n\n")
	for i, song := range export.Songs {
		albumPart := ""
		if album := song.AlbumName(); album != "" {
			albumPart = fmt.Sprintf(" (%s)", album)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s [%s]\n", i+1, song.Artist, song.Title, albumPart, song.DurationFormatted())
	}

	return buf.Bytes(), nil
}

// ExportToText renders a numbered plain text list.
func ExportToText(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", export.Name)
	fmt.Fprintf(&buf, "Songs: %d (%s)\n\n", export.SongCount, shared.FormatDuration(export.Duration))

	for i, song := range export.Songs {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, song.Artist, song.Title)
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders the whole export, songs included.
func ExportToJSON(export *Export) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// ToMetadataJSON renders the export without its songs.
func ToMetadataJSON(export *Export) ([]byte, error) {
	return shared.MarshalJSON(struct {
		*Export
		Songs []models.Song `json:"songs,omitempty"`
	}{Export: export}, true)
}

// DownloadImage fetches an image and returns the raw bytes.
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	SongsFile    string
	MetadataFile string
}

// WriteCSVExport writes {base}_songs.csv and {base}_metadata.json.
//
// An empty base defaults to [Export.BaseName] in the working directory.
func WriteCSVExport(export *Export, base string) (*CSVExportResult, error) {
	if base == "" {
		base = export.BaseName()
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	songsFile := base + "_songs.csv"
	if err := os.WriteFile(songsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := base + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{SongsFile: songsFile, MetadataFile: metadataFile}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
	Warnings   []string
}

// MarkdownOpts configures [WriteMarkdownExport]. A nil Client gets a 30s timeout.
type MarkdownOpts struct {
	Client   *http.Client
	ImageURL string
}

// WriteMarkdownExport writes {dir}/README.md and, when an image URL is
// available, {dir}/cover.jpg. A failed cover download is reported in
// Warnings and does not fail the export.
func WriteMarkdownExport(ctx context.Context, export *Export, dir string, opts MarkdownOpts) (*MarkdownExportResult, error) {
	if dir == "" {
		dir = export.BaseName()
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: dir, Files: []string{}}

	imageURL := opts.ImageURL
	if imageURL == "" {
		imageURL = export.ImageURL
	}

	var coverImageFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(ctx, opts.Client, imageURL)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("failed to download cover image: %v", err))
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := filepath.Join(dir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("failed to save cover image: %v", err))
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(export, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(dir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport writes the plain text rendering, defaulting to {base}_songs.txt.
func WriteTextExport(export *Export, path string) (string, error) {
	if path == "" {
		path = export.BaseName() + "_songs.txt"
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

// WriteJSONExport writes the JSON rendering, defaulting to {base}.json.
func WriteJSONExport(export *Export, path string) (string, error) {
	if path == "" {
		path = export.BaseName() + ".json"
	}

	data, err := ExportToJSON(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return path, nil
}

// Write renders export in format under dir and returns the files created.
func Write(ctx context.Context, export *Export, format Format, dir string, opts MarkdownOpts) ([]string, error) {
	base := filepath.Join(dir, export.BaseName())

	switch format {
	case CSV:
		res, err := WriteCSVExport(export, base)
		if err != nil {
			return nil, err
		}
		return []string{res.SongsFile, res.MetadataFile}, nil
	case Markdown:
		res, err := WriteMarkdownExport(ctx, export, base, opts)
		if err != nil {
			return nil, err
		}
		return res.Files, nil
	case Text:
		path, err := WriteTextExport(export, base+"_songs.txt")
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	case JSON:
		path, err := WriteJSONExport(export, base+".json")
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
}
