// package formatter renders playlists and song lists as CSV, Markdown, plain text, JSON and terminal tables
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/shared"
)

// BaseName is the default file stem for an exported playlist.
func BaseName(p *models.Playlist) string {
	return fmt.Sprintf("playlist_%d", p.ID)
}

// ExportToCSV converts a playlist's songs to CSV format with columns: ID, Title, Artist, Genre, Duration
func ExportToCSV(p *models.Playlist) ([]byte, error) {
	return SongsToCSV(p.Songs)
}

// SongsToCSV writes songs as CSV rows under a header line.
func SongsToCSV(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Genre", "Duration"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		record := []string{
			strconv.FormatInt(song.ID, 10),
			song.Title,
			song.ArtistName,
			song.GenreName,
			strconv.Itoa(song.Duration),
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

// ExportToMarkdown converts a playlist to Markdown with a numbered song list
func ExportToMarkdown(p *models.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", p.Name)
	fmt.Fprintf(&buf, "**Songs**: %d\n", len(p.Songs))
	fmt.Fprintf(&buf, "**Length**: %s\n", shared.FormatDuration(p.Duration()))
	fmt.Fprintf(&buf, "**Visibility**: %s\n\n", shared.VisibilityString(p.IsPublic))

	buf.WriteString("## Songs\n\n")
	for i, song := range p.Songs {
		genrePart := ""
		if song.GenreName != "" {
			genrePart = fmt.Sprintf(" (%s)", song.GenreName)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s [%s]\n", i+1, artist(song), song.Title, genrePart, shared.FormatDuration(song.Duration))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a playlist to plain text format
func ExportToText(p *models.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", p.Name)
	fmt.Fprintf(&buf, "Visibility: %s\n", shared.VisibilityString(p.IsPublic))
	fmt.Fprintf(&buf, "Songs: %d\n\n", len(p.Songs))

	for i, song := range p.Songs {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, artist(song), song.Title)
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders the full playlist, songs included.
func ExportToJSON(p *models.Playlist) ([]byte, error) {
	return shared.MarshalJSON(p, true)
}

// ToMetadataJSON generates a JSON representation of playlist metadata (without songs)
func ToMetadataJSON(p models.Playlist) ([]byte, error) {
	if p.SongCount == 0 {
		p.SongCount = len(p.Songs)
	}
	p.Songs = nil
	return shared.MarshalJSON(p, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	SongsFile    string
	MetadataFile string
}

// WriteCSVExport exports a playlist to CSV format with accompanying metadata JSON file.
//
// Defaults to [BaseName] as the base filename & creates {base}_songs.csv and {base}_metadata.json
func WriteCSVExport(p *models.Playlist, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = BaseName(p)
	}

	csvData, err := ExportToCSV(p)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	songsFile := baseFilepath + "_songs.csv"
	if err := os.WriteFile(songsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(*p)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{SongsFile: songsFile, MetadataFile: metadataFile}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
}

// WriteMarkdownExport exports a playlist to Markdown format in a dedicated directory.
//
// Directory name defaults to [BaseName]. Creates {dir}/README.md and {dir}/metadata.json
func WriteMarkdownExport(p *models.Playlist, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = BaseName(p)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}}

	mdData, err := ExportToMarkdown(p)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)

	metadataJSON, err := ToMetadataJSON(*p)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := filepath.Join(outputDir, "metadata.json")
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}
	result.Files = append(result.Files, metadataFile)

	return result, nil
}

// WriteTextExport exports a playlist to plain text format.
//
// Defaults to {base}_songs.txt as the filename.
func WriteTextExport(p *models.Playlist, path string) (string, error) {
	if path == "" {
		path = BaseName(p) + "_songs.txt"
	}

	textData, err := ExportToText(p)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

// WriteJSONExport writes the full playlist as indented JSON, defaulting to {base}.json
func WriteJSONExport(p *models.Playlist, path string) (string, error) {
	if path == "" {
		path = BaseName(p) + ".json"
	}

	data, err := ExportToJSON(p)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return path, nil
}

func artist(song models.Song) string {
	if song.ArtistName == "" {
		return "Unknown Artist"
	}
	return song.ArtistName
}
