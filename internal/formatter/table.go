package formatter

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/shared"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// SongTable renders songs as a bordered terminal table.
func SongTable(songs []models.Song) string {
	t := newTable("ID", "Title", "Artist", "Genre", "Length")
	for _, s := range songs {
		t.Row(strconv.FormatInt(s.ID, 10), s.Title, artist(s), s.GenreName, shared.FormatDuration(s.Duration))
	}
	return t.String()
}

// PlaylistTable renders playlists without their songs.
func PlaylistTable(playlists []models.Playlist) string {
	t := newTable("ID", "Name", "Songs", "Visibility")
	for _, p := range playlists {
		count := p.SongCount
		if count == 0 {
			count = len(p.Songs)
		}
		t.Row(strconv.FormatInt(p.ID, 10), p.Name, strconv.Itoa(count), shared.VisibilityString(p.IsPublic))
	}
	return t.String()
}

// UserTable renders user profiles.
func UserTable(users []models.User) string {
	t := newTable("ID", "Username", "Name", "Role")
	for _, u := range users {
		t.Row(strconv.FormatInt(u.ID, 10), u.Username, u.DisplayName(), u.Role)
	}
	return t.String()
}
