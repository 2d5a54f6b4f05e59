// Package palette maps type names to display colors and formats names for display.
package palette

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Neutral is used for any type name outside the known set.
const Neutral = "#777"

// Type is one of the 18 known type names, as the catalog spells them.
type Type string

const (
	Normal   Type = "normal"
	Fire     Type = "fire"
	Water    Type = "water"
	Electric Type = "electric"
	Grass    Type = "grass"
	Ice      Type = "ice"
	Fighting Type = "fighting"
	Poison   Type = "poison"
	Ground   Type = "ground"
	Flying   Type = "flying"
	Psychic  Type = "psychic"
	Bug      Type = "bug"
	Rock     Type = "rock"
	Ghost    Type = "ghost"
	Dragon   Type = "dragon"
	Dark     Type = "dark"
	Steel    Type = "steel"
	Fairy    Type = "fairy"
)

// Color returns the hex color for t, Neutral when t is unknown.
func (t Type) Color() string {
	switch t {
	case Normal:
		return "#A8A77A"
	case Fire:
		return "#EE8130"
	case Water:
		return "#6390F0"
	case Electric:
		return "#F7D02C"
	case Grass:
		return "#7AC74C"
	case Ice:
		return "#96D9D6"
	case Fighting:
		return "#C22E28"
	case Poison:
		return "#A33EA1"
	case Ground:
		return "#E2BF65"
	case Flying:
		return "#A98FF3"
	case Psychic:
		return "#F95587"
	case Bug:
		return "#A6B91A"
	case Rock:
		return "#B6A136"
	case Ghost:
		return "#735797"
	case Dragon:
		return "#6F35FC"
	case Dark:
		return "#705746"
	case Steel:
		return "#B7B7CE"
	case Fairy:
		return "#D685AD"
	default:
		return Neutral
	}
}

func Color(name string) string { return Type(name).Color() }

// Accent returns the two colors of an entry's highlight. A single-typed
// entry uses its primary color twice.
func Accent(types []string) (primary, secondary string) {
	if len(types) == 0 {
		return Neutral, Neutral
	}
	primary = Color(types[0])
	secondary = primary
	if len(types) > 1 {
		secondary = Color(types[1])
	}
	return primary, secondary
}

// Title upper-cases the first letter of each word.
func Title(s string) string {
	return cases.Title(language.Und).String(s)
}
