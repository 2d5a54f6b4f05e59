package pokeapi

// NoDescription is used when a species has no English flavor text.
const NoDescription = "No description available."

// Pokemon is the normalized catalog entry built from a pokemon resource
// and its species resource. Types keeps the order of the remote slots; the
// first type is the primary one.
type Pokemon struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	ImageURL    string   `json:"image_url"`
	Types       []string `json:"types"`
	Description string   `json:"description"`
}

// Clone returns a copy that shares no memory with p.
func (p Pokemon) Clone() Pokemon {
	if p.Types != nil {
		p.Types = append([]string(nil), p.Types...)
	}
	return p
}

// NamedResource is the {name, url} pair the API uses for every link.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PokemonJSON matches GET /pokemon/{idOrName} (only the fields we read)
type PokemonJSON struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Sprites struct {
		FrontDefault *string `json:"front_default"` // null for some forms
	} `json:"sprites"`
	Types []TypeSlotJSON `json:"types"`
}

type TypeSlotJSON struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// SpeciesJSON matches GET /pokemon-species/{idOrName}
type SpeciesJSON struct {
	ID                int              `json:"id"`
	Name              string           `json:"name"`
	Varieties         []VarietyJSON    `json:"varieties"`
	FlavorTextEntries []FlavorTextJSON `json:"flavor_text_entries"`
}

type VarietyJSON struct {
	IsDefault bool          `json:"is_default"`
	Pokemon   NamedResource `json:"pokemon"`
}

type FlavorTextJSON struct {
	FlavorText string        `json:"flavor_text"`
	Language   NamedResource `json:"language"`
}
