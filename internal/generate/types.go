package generate

import "time"

// Poem is a generated artifact. Field names follow the backend's poem
// payload: the metadata object is camelCased for the original frontend,
// while theme analysis fields are snake_cased like the analyzer's output.
type Poem struct {
	Poem     string       `json:"poem"`
	Theme    string       `json:"theme"`
	Metadata PoemMetadata `json:"metadata"`
}

// PoemMetadata describes one generated poem.
type PoemMetadata struct {
	ID          string    `json:"id"`
	WordCount   int       `json:"wordCount"`
	Emotion     string    `json:"emotion"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// ThemeAnalysis is the visual-theme analysis derived from a poem. The
// styling side effects driven by these values are the UI's concern; the
// client and cache treat the analysis as data.
type ThemeAnalysis struct {
	Emotion    Emotion          `json:"emotion"`
	Colors     ColorScheme      `json:"colors"`
	Animation  Animation        `json:"animation"`
	Typography Typography       `json:"typography"`
	Layout     Layout           `json:"layout"`
	Metadata   AnalysisMetadata `json:"metadata"`
}

// Emotion is the analyzer's read of the poem's dominant feeling.
type Emotion struct {
	Primary   string  `json:"primary"`
	Intensity float64 `json:"intensity"`
}

// ColorScheme carries the derived palette.
type ColorScheme struct {
	Palette     []PaletteColor `json:"palette"`
	Temperature string         `json:"dominant_temperature"`
	Saturation  string         `json:"saturation_level"`
}

// PaletteColor is one weighted color with its role in the scheme.
type PaletteColor struct {
	Hex    string  `json:"hex"`
	Weight float64 `json:"weight"`
	Role   string  `json:"role"`
}

// Animation holds the derived animation timing preset.
type Animation struct {
	Style        string          `json:"style"`
	Timing       AnimationTiming `json:"timing"`
	MovementType string          `json:"movement_type"`
}

// AnimationTiming is the timing preset in milliseconds.
type AnimationTiming struct {
	DurationMS     int    `json:"duration"`
	StaggerDelayMS int    `json:"stagger_delay"`
	Easing         string `json:"easing"`
}

// Typography holds the derived type treatment.
type Typography struct {
	Mood          string  `json:"mood"`
	FontWeight    int     `json:"font_weight"`
	FontScale     float64 `json:"font_scale"`
	LineHeight    float64 `json:"line_height"`
	LetterSpacing float64 `json:"letter_spacing"`
}

// Layout holds the derived layout parameters.
type Layout struct {
	SpacingScale  float64 `json:"spacing_scale"`
	BorderRadius  int     `json:"border_radius"`
	GradientAngle int     `json:"gradient_angle"`
}

// AnalysisMetadata reports how confident the analyzer was.
type AnalysisMetadata struct {
	Confidence float64 `json:"analysis_confidence"`
	Notes      string  `json:"processing_notes"`
}
