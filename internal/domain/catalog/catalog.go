package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/visionaryvybes/Archi-sub000/internal/shared/types"
)

// Catalog holds the design styles and generation phases offered by the studio
type Catalog struct {
	Styles []types.DesignStyle     `yaml:"styles" toml:"styles"`
	Phases []types.GenerationPhase `yaml:"phases" toml:"phases"`
}

var defaultStyles = []types.DesignStyle{
	{ID: "modern", Name: "Modern", Thumbnail: "/styles/modern.jpg", Description: "Clean lines, minimal"},
	{ID: "minimalist", Name: "Minimalist", Thumbnail: "/styles/minimalist.jpg", Description: "Less is more"},
	{ID: "scandinavian", Name: "Scandinavian", Thumbnail: "/styles/scandinavian.jpg", Description: "Cozy, functional"},
	{ID: "industrial", Name: "Industrial", Thumbnail: "/styles/industrial.jpg", Description: "Raw, urban"},
	{ID: "bohemian", Name: "Bohemian", Thumbnail: "/styles/bohemian.jpg", Description: "Eclectic, colorful"},
	{ID: "mid-century", Name: "Mid-Century", Thumbnail: "/styles/mid-century.jpg", Description: "Retro elegance"},
	{ID: "contemporary", Name: "Contemporary", Thumbnail: "/styles/contemporary.jpg", Description: "Current trends"},
	{ID: "traditional", Name: "Traditional", Thumbnail: "/styles/traditional.jpg", Description: "Classic, timeless"},
	{ID: "coastal", Name: "Coastal", Thumbnail: "/styles/coastal.jpg", Description: "Beach vibes"},
	{ID: "farmhouse", Name: "Farmhouse", Thumbnail: "/styles/farmhouse.jpg", Description: "Rustic charm"},
	{ID: "art-deco", Name: "Art Deco", Thumbnail: "/styles/art-deco.jpg", Description: "Glamorous, bold"},
	{ID: "japandi", Name: "Japandi", Thumbnail: "/styles/japandi.jpg", Description: "Japanese + Nordic"},
}

var defaultPhases = []types.GenerationPhase{
	{Name: "analyzing", Description: "Analyzing your image...", Progress: 10},
	{Name: "understanding", Description: "Understanding your prompt...", Progress: 20},
	{Name: "generating", Description: "Generating design...", Progress: 60},
	{Name: "refining", Description: "Refining details...", Progress: 90},
}

// Default returns the built-in catalog
func Default() *Catalog {
	return &Catalog{
		Styles: append([]types.DesignStyle(nil), defaultStyles...),
		Phases: append([]types.GenerationPhase(nil), defaultPhases...),
	}
}

// Load reads a catalog from a YAML (.yaml, .yml) or TOML (.toml) file.
// Sections missing from the file keep their built-in defaults.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var parsed Catalog
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse YAML catalog: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse TOML catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}

	cat := Default()
	if len(parsed.Styles) > 0 {
		cat.Styles = parsed.Styles
	}
	if len(parsed.Phases) > 0 {
		cat.Phases = parsed.Phases
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// LoadOrDefault loads the catalog at path, or returns the default when path is empty
func LoadOrDefault(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks the catalog is usable by the store
func (c *Catalog) Validate() error {
	if len(c.Styles) == 0 {
		return fmt.Errorf("catalog has no styles")
	}
	if len(c.Phases) == 0 {
		return fmt.Errorf("catalog has no phases")
	}

	seen := make(map[string]struct{}, len(c.Styles))
	for _, s := range c.Styles {
		if s.ID == "" || s.Name == "" {
			return fmt.Errorf("style %q must have an id and a name", s.ID)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("duplicate style id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
	}

	last := 0
	for _, p := range c.Phases {
		if p.Progress <= last || p.Progress > 100 {
			return fmt.Errorf("phase %q progress %d must increase and stay within 100", p.Name, p.Progress)
		}
		last = p.Progress
	}
	return nil
}

// DefaultStyle returns the first style of the catalog
func (c *Catalog) DefaultStyle() types.DesignStyle {
	return c.Styles[0]
}

// Style looks up a style by ID
func (c *Catalog) Style(id string) (types.DesignStyle, bool) {
	for _, s := range c.Styles {
		if s.ID == id {
			return s, true
		}
	}
	return types.DesignStyle{}, false
}

// PhaseFor maps a progress value to its display phase: one phase per 25
// points of progress, clamped to the last phase.
func (c *Catalog) PhaseFor(progress int) types.GenerationPhase {
	idx := progress / 25
	if idx >= len(c.Phases) {
		idx = len(c.Phases) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return c.Phases[idx]
}
