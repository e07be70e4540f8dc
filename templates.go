// templates.go - Template registry: every visual theme the visitor can pick
package main

import (
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// TemplateID names one of the visual themes applied to the portfolio content.
type TemplateID string

const (
	Minimalist    TemplateID = "minimalist"
	Cyberpunk     TemplateID = "cyberpunk"
	Glassmorphism TemplateID = "glassmorphism"
	Brutalist     TemplateID = "brutalist"
	Retro         TemplateID = "retro"
	Neon          TemplateID = "neon"
	Terminal      TemplateID = "terminal"
	Vaporwave     TemplateID = "vaporwave"
	Material      TemplateID = "material"
	Neumorphism   TemplateID = "neumorphism"
	Paper         TemplateID = "paper"
	Matrix        TemplateID = "matrix"
	Synthwave     TemplateID = "synthwave"
	Corporate     TemplateID = "corporate"
	Magazine      TemplateID = "magazine"
	Gradient      TemplateID = "gradient"
	Midnight      TemplateID = "midnight"
	Nature        TemplateID = "nature"
	Space         TemplateID = "space"
	Pixel         TemplateID = "pixel"
)

// AllTemplates lists every template in menu order.
var AllTemplates = []TemplateID{
	Minimalist, Cyberpunk, Glassmorphism, Brutalist, Retro,
	Neon, Terminal, Vaporwave, Material, Neumorphism,
	Paper, Matrix, Synthwave, Corporate, Magazine,
	Gradient, Midnight, Nature, Space, Pixel,
}

var ErrUnknownTemplate = errors.New("unknown template")

// Layout partials defined in templates/layouts.html
const (
	LayoutClassic   = "layout-classic"
	LayoutGrid      = "layout-grid"
	LayoutTerminal  = "layout-terminal"
	LayoutEditorial = "layout-editorial"
)

// Palette holds the CSS custom properties a theme sets on <body>.
type Palette struct {
	Background string `json:"background"`
	Surface    string `json:"surface"`
	Text       string `json:"text"`
	Accent     string `json:"accent"`
}

// Renderer describes how a single template presents the shared content.
type Renderer struct {
	ID        TemplateID `json:"id"`
	Name      string     `json:"name"`
	Layout    string     `json:"layout"`
	BodyClass string     `json:"body_class"`
	Font      string     `json:"font"`
	Palette   Palette    `json:"palette"`
}

var renderers = map[TemplateID]Renderer{
	Minimalist:    {Name: "Minimalist", Layout: LayoutClassic, Font: "Inter, sans-serif", Palette: Palette{"#ffffff", "#f5f5f5", "#111111", "#111111"}},
	Cyberpunk:     {Name: "Cyberpunk", Layout: LayoutGrid, Font: "Orbitron, sans-serif", Palette: Palette{"#0a0014", "#1a0030", "#f0e6ff", "#fcee0a"}},
	Glassmorphism: {Name: "Glassmorphism", Layout: LayoutGrid, Font: "Poppins, sans-serif", Palette: Palette{"#4f46e5", "#ffffff26", "#ffffff", "#c7d2fe"}},
	Brutalist:     {Name: "Brutalist", Layout: LayoutEditorial, Font: "Courier New, monospace", Palette: Palette{"#fffd00", "#ffffff", "#000000", "#ff0000"}},
	Retro:         {Name: "Retro", Layout: LayoutClassic, Font: "Press Start 2P, monospace", Palette: Palette{"#f4e4c1", "#e8c39e", "#3d2b1f", "#c0392b"}},
	Neon:          {Name: "Neon", Layout: LayoutGrid, Font: "Montserrat, sans-serif", Palette: Palette{"#050505", "#111111", "#ffffff", "#39ff14"}},
	Terminal:      {Name: "Terminal", Layout: LayoutTerminal, Font: "Fira Code, monospace", Palette: Palette{"#000000", "#0d0d0d", "#33ff33", "#33ff33"}},
	Vaporwave:     {Name: "Vaporwave", Layout: LayoutGrid, Font: "VT323, monospace", Palette: Palette{"#ff71ce", "#01cdfe", "#fffb96", "#b967ff"}},
	Material:      {Name: "Material", Layout: LayoutGrid, Font: "Roboto, sans-serif", Palette: Palette{"#fafafa", "#ffffff", "#212121", "#6200ee"}},
	Neumorphism:   {Name: "Neumorphism", Layout: LayoutClassic, Font: "Nunito, sans-serif", Palette: Palette{"#e0e5ec", "#e0e5ec", "#44476a", "#6d5dfc"}},
	Paper:         {Name: "Paper", Layout: LayoutEditorial, Font: "Georgia, serif", Palette: Palette{"#fdfbf7", "#ffffff", "#2b2b2b", "#8b5e3c"}},
	Matrix:        {Name: "Matrix", Layout: LayoutTerminal, Font: "Share Tech Mono, monospace", Palette: Palette{"#000000", "#001100", "#00ff41", "#008f11"}},
	Synthwave:     {Name: "Synthwave", Layout: LayoutGrid, Font: "Audiowide, sans-serif", Palette: Palette{"#241734", "#2e2157", "#ffffff", "#fd3777"}},
	Corporate:     {Name: "Corporate", Layout: LayoutClassic, Font: "Source Sans Pro, sans-serif", Palette: Palette{"#ffffff", "#f0f4f8", "#1f2933", "#0b69a3"}},
	Magazine:      {Name: "Magazine", Layout: LayoutEditorial, Font: "Playfair Display, serif", Palette: Palette{"#ffffff", "#f7f7f7", "#1a1a1a", "#d7263d"}},
	Gradient:      {Name: "Gradient", Layout: LayoutGrid, Font: "Poppins, sans-serif", Palette: Palette{"#ee7752", "#ffffff33", "#ffffff", "#23d5ab"}},
	Midnight:      {Name: "Midnight", Layout: LayoutClassic, Font: "Inter, sans-serif", Palette: Palette{"#0f172a", "#1e293b", "#e2e8f0", "#38bdf8"}},
	Nature:        {Name: "Nature", Layout: LayoutEditorial, Font: "Lora, serif", Palette: Palette{"#f1f8e9", "#ffffff", "#1b5e20", "#689f38"}},
	Space:         {Name: "Space", Layout: LayoutGrid, Font: "Exo 2, sans-serif", Palette: Palette{"#000010", "#0b0b2b", "#e0e0ff", "#8a7dff"}},
	Pixel:         {Name: "Pixel", Layout: LayoutTerminal, Font: "Press Start 2P, monospace", Palette: Palette{"#202040", "#2a2a5a", "#ffffff", "#ff6b97"}},
}

var loadingMessages = map[TemplateID]string{
	Minimalist:    "Clearing the clutter...",
	Cyberpunk:     "Jacking into the net...",
	Glassmorphism: "Polishing the glass...",
	Brutalist:     "Pouring concrete...",
	Retro:         "Rewinding the tape...",
	Neon:          "Switching on the lights...",
	Terminal:      "Booting shell...",
	Vaporwave:     "Loading aesthetics...",
	Material:      "Raising elevation...",
	Neumorphism:   "Softening the shadows...",
	Paper:         "Folding the pages...",
	Matrix:        "Following the white rabbit...",
	Synthwave:     "Driving into the sunset...",
	Corporate:     "Scheduling the meeting...",
	Magazine:      "Going to print...",
	Gradient:      "Blending colors...",
	Midnight:      "Dimming the lights...",
	Nature:        "Growing the leaves...",
	Space:         "Entering orbit...",
	Pixel:         "Placing pixels...",
}

// ParseTemplateID validates a template identifier coming from a request.
func ParseTemplateID(s string) (TemplateID, error) {
	id := TemplateID(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := renderers[id]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, s)
	}
	return id, nil
}

// RendererFor returns the renderer registered for id.
func RendererFor(id TemplateID) (Renderer, bool) {
	r, ok := renderers[id]
	if !ok {
		return Renderer{}, false
	}
	r.ID = id
	if r.BodyClass == "" {
		r.BodyClass = "theme-" + string(id)
	}
	return r, true
}

// LoadingMessage returns the text shown in the overlay while switching to id.
func LoadingMessage(id TemplateID) string {
	return loadingMessages[id]
}

// Registry returns the renderers in menu order.
func Registry() []Renderer {
	out := make([]Renderer, 0, len(AllTemplates))
	for _, id := range AllTemplates {
		r, _ := RendererFor(id)
		out = append(out, r)
	}
	return out
}

// checkRegistry makes sure every template has exactly one renderer, one
// loading message and one decoration, and that its layout exists in tmpl.
func checkRegistry(tmpl *template.Template) error {
	seen := make(map[TemplateID]bool, len(AllTemplates))
	for _, id := range AllTemplates {
		if seen[id] {
			return fmt.Errorf("template %q listed twice", id)
		}
		seen[id] = true

		r, ok := renderers[id]
		if !ok {
			return fmt.Errorf("template %q has no renderer", id)
		}
		if _, ok := loadingMessages[id]; !ok {
			return fmt.Errorf("template %q has no loading message", id)
		}
		if _, ok := decorations[id]; !ok {
			return fmt.Errorf("template %q has no loading decoration", id)
		}
		if tmpl != nil && tmpl.Lookup(r.Layout) == nil {
			return fmt.Errorf("template %q uses undefined layout %q", id, r.Layout)
		}
	}

	for id := range renderers {
		if !seen[id] {
			return fmt.Errorf("renderer %q is not in the template list", id)
		}
	}
	for id := range loadingMessages {
		if !seen[id] {
			return fmt.Errorf("loading message %q is not in the template list", id)
		}
	}
	for id := range decorations {
		if !seen[id] {
			return fmt.Errorf("decoration %q is not in the template list", id)
		}
	}
	return nil
}
