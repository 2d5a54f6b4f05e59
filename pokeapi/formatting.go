package pokeapi

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/briangreenhill/pokedex/internal/palette"
)

var badgeStyle = lipgloss.NewStyle().
	Bold(true).
	Padding(0, 1).
	Foreground(lipgloss.Color("#FFFFFF"))

// FormatPokemon renders an entry for a terminal: name line, type badges,
// sprite URL and description.
func FormatPokemon(p Pokemon) string {
	var b strings.Builder

	fmt.Fprintf(&b, "#%04d %s\n", p.ID, palette.Title(p.Name))

	badges := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		style := badgeStyle.Background(lipgloss.Color(palette.Color(t)))
		badges = append(badges, style.Render(palette.Title(t)))
	}
	b.WriteString(strings.Join(badges, " "))
	b.WriteString("\n")

	if p.ImageURL != "" {
		fmt.Fprintf(&b, "Sprite: %s\n", p.ImageURL)
	}
	b.WriteString(p.Description)
	b.WriteString("\n")

	return b.String()
}
