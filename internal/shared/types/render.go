package types

import "time"

// Quality is the requested render fidelity
type Quality string

const (
	QualityDraft    Quality = "draft"
	QualityStandard Quality = "standard"
	QualityHigh     Quality = "high"
	QualityUltra    Quality = "ultra"
)

// Valid reports whether q is a known quality level
func (q Quality) Valid() bool {
	switch q {
	case QualityDraft, QualityStandard, QualityHigh, QualityUltra:
		return true
	}
	return false
}

// AspectRatio is the requested output frame
type AspectRatio string

const (
	AspectSquare    AspectRatio = "1:1"
	AspectLandscape AspectRatio = "4:3"
	AspectWide      AspectRatio = "16:9"
	AspectPortrait  AspectRatio = "3:4"
	AspectTall      AspectRatio = "9:16"
)

// Valid reports whether a is a supported aspect ratio
func (a AspectRatio) Valid() bool {
	switch a {
	case AspectSquare, AspectLandscape, AspectWide, AspectPortrait, AspectTall:
		return true
	}
	return false
}

// Model selects the generation model tier
type Model string

const (
	ModelPro  Model = "gemini-pro"
	ModelNano Model = "gemini-nano"
)

// Valid reports whether m is a known model
func (m Model) Valid() bool {
	return m == ModelPro || m == ModelNano
}

// ValidCount reports whether n is an allowed number of images per render
func ValidCount(n int) bool {
	return n == 1 || n == 2 || n == 4
}

// ValidStrength reports whether s is within the 0..100 strength range
func ValidStrength(s int) bool {
	return s >= 0 && s <= 100
}

// DesignStyle is an entry of the style catalog
type DesignStyle struct {
	ID          string `json:"id" yaml:"id" toml:"id"`
	Name        string `json:"name" yaml:"name" toml:"name"`
	Thumbnail   string `json:"thumbnail" yaml:"thumbnail" toml:"thumbnail"`
	Description string `json:"description" yaml:"description" toml:"description"`
}

// RenderSettings holds the current generation parameters
type RenderSettings struct {
	Style       DesignStyle `json:"style"`
	Quality     Quality     `json:"quality"`
	Count       int         `json:"count"`
	AspectRatio AspectRatio `json:"aspectRatio"`
	Strength    int         `json:"strength"`
	Model       Model       `json:"model"`
	Seed        *int64      `json:"seed,omitempty"`
}

// Clone returns a deep copy; the seed pointer is never shared
func (s RenderSettings) Clone() RenderSettings {
	out := s
	if s.Seed != nil {
		seed := *s.Seed
		out.Seed = &seed
	}
	return out
}

// SettingsPatch is a partial settings update. Nil fields are left unchanged.
type SettingsPatch struct {
	Style       *DesignStyle `json:"style,omitempty"`
	Quality     *Quality     `json:"quality,omitempty"`
	Count       *int         `json:"count,omitempty"`
	AspectRatio *AspectRatio `json:"aspectRatio,omitempty"`
	Strength    *int         `json:"strength,omitempty"`
	Model       *Model       `json:"model,omitempty"`
	Seed        *int64       `json:"seed,omitempty"`
	ClearSeed   bool         `json:"clearSeed,omitempty"`
}

// Render is the immutable terminal result of one generation cycle
type Render struct {
	ID        string         `json:"id"`
	ImageURL  string         `json:"imageUrl"`
	Prompt    string         `json:"prompt"`
	Style     string         `json:"style"`
	CreatedAt time.Time      `json:"createdAt"`
	SessionID string         `json:"sessionId"`
	Settings  RenderSettings `json:"settings"`
}

// Clone returns a deep copy of the render
func (r Render) Clone() Render {
	out := r
	out.Settings = r.Settings.Clone()
	return out
}

// RenderVariation is an alternative image for a render
type RenderVariation struct {
	ID             string `json:"id"`
	ImageURL       string `json:"imageUrl"`
	ParentRenderID string `json:"parentRenderId"`
}

// Collection is a non-owning, ordered grouping of render IDs
type Collection struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	RenderIDs []string  `json:"renderIds"`
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a deep copy of the collection
func (c Collection) Clone() Collection {
	out := c
	out.RenderIDs = append([]string{}, c.RenderIDs...)
	return out
}

// Contains reports whether renderID is a member
func (c Collection) Contains(renderID string) bool {
	for _, id := range c.RenderIDs {
		if id == renderID {
			return true
		}
	}
	return false
}

// GenerationPhase is a named step of the synthetic progress display
type GenerationPhase struct {
	Name        string `json:"name" yaml:"name" toml:"name"`
	Description string `json:"description" yaml:"description" toml:"description"`
	Progress    int    `json:"progress" yaml:"progress" toml:"progress"`
}

// GenerationStatus is the observable state of the generation controller
type GenerationStatus struct {
	IsGenerating bool             `json:"isGenerating"`
	Progress     int              `json:"progress"`
	Phase        *GenerationPhase `json:"phase"`
}

// GenerationStats summarizes recent generation durations
type GenerationStats struct {
	Count       int            `json:"count"`
	MeanSeconds float64        `json:"meanSeconds"`
	StdDev      float64        `json:"stdDevSeconds"`
	P50Seconds  float64        `json:"p50Seconds"`
	P95Seconds  float64        `json:"p95Seconds"`
	Outcomes    map[string]int `json:"outcomes"`
}
