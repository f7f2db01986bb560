package rendergraphics

import "strings"

// Theme is the color palette of a rendered graphic or report.
type Theme struct {
	Name          string
	Background    string
	BackgroundAlt string
	Text          string
	Accent        string
}

const DefaultTheme = "professional"

var themes = map[string]Theme{
	"professional": {Name: "professional", Background: "#1e3a5f", BackgroundAlt: "#2d5a87", Text: "#ffffff", Accent: "#f4b942"},
	"vibrant":      {Name: "vibrant", Background: "#ff6b6b", BackgroundAlt: "#845ec2", Text: "#ffffff", Accent: "#ffe66d"},
	"minimal":      {Name: "minimal", Background: "#ffffff", BackgroundAlt: "#f1f3f5", Text: "#212529", Accent: "#495057"},
	"warm":         {Name: "warm", Background: "#8d5524", BackgroundAlt: "#c68642", Text: "#fff8f0", Accent: "#ffdbac"},
	"nature":       {Name: "nature", Background: "#2d6a4f", BackgroundAlt: "#52b788", Text: "#ffffff", Accent: "#d8f3dc"},
}

// ThemeFor resolves a theme by name; unknown or empty names get the default palette.
func ThemeFor(name string) Theme {
	if t, ok := themes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t
	}
	return themes[DefaultTheme]
}

// Context exposes the palette to templates.
func (t Theme) Context() map[string]interface{} {
	return map[string]interface{}{
		"name":          t.Name,
		"background":    t.Background,
		"backgroundAlt": t.BackgroundAlt,
		"text":          t.Text,
		"accent":        t.Accent,
	}
}
