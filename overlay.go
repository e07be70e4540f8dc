// overlay.go - Loading overlay shown while a template switch is in flight
package main

import (
	"math/rand/v2"
	"time"
)

// Decoration is the kind of animated placeholder an overlay draws.
type Decoration string

const (
	DecorationNone      Decoration = "none"
	DecorationParticles Decoration = "particles"
	DecorationRain      Decoration = "rain"
	DecorationScanlines Decoration = "scanlines"
	DecorationOrbs      Decoration = "orbs"
	DecorationGrid      Decoration = "grid"
	DecorationStars     Decoration = "stars"
	DecorationPixels    Decoration = "pixels"
)

var decorations = map[TemplateID]Decoration{
	Minimalist:    DecorationNone,
	Cyberpunk:     DecorationScanlines,
	Glassmorphism: DecorationOrbs,
	Brutalist:     DecorationNone,
	Retro:         DecorationScanlines,
	Neon:          DecorationParticles,
	Terminal:      DecorationRain,
	Vaporwave:     DecorationGrid,
	Material:      DecorationNone,
	Neumorphism:   DecorationOrbs,
	Paper:         DecorationNone,
	Matrix:        DecorationRain,
	Synthwave:     DecorationGrid,
	Corporate:     DecorationNone,
	Magazine:      DecorationNone,
	Gradient:      DecorationOrbs,
	Midnight:      DecorationStars,
	Nature:        DecorationParticles,
	Space:         DecorationStars,
	Pixel:         DecorationPixels,
}

// How many seeds each decoration gets per render.
var seedCounts = map[Decoration]int{
	DecorationNone:      0,
	DecorationParticles: 30,
	DecorationRain:      24,
	DecorationScanlines: 12,
	DecorationOrbs:      5,
	DecorationGrid:      0,
	DecorationStars:     60,
	DecorationPixels:    40,
}

const rainGlyphs = "01アイウエオカキクケコサシスセソ"

// Seed places one decorative element. Positions are percentages of the
// viewport, Delay and Duration are in milliseconds.
type Seed struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Size     float64 `json:"size"`
	Delay    int     `json:"delay"`
	Duration int     `json:"duration"`
	Glyph    string  `json:"glyph,omitempty"`
}

// Overlay is everything the overlay partial needs.
type Overlay struct {
	Visible    bool
	Template   Renderer
	Message    string
	Decoration Decoration
	Seeds      []Seed
	DurationMS int64
	Remaining  int64
}

// NewOverlay builds the overlay for a switch to id. A hidden overlay is the
// zero value. Seeds are drawn from rng on every call.
func NewOverlay(id TemplateID, visible bool, duration time.Duration, rng *rand.Rand) Overlay {
	if !visible {
		return Overlay{}
	}
	r, ok := RendererFor(id)
	if !ok {
		return Overlay{}
	}

	deco := decorations[id]
	return Overlay{
		Visible:    true,
		Template:   r,
		Message:    LoadingMessage(id),
		Decoration: deco,
		Seeds:      newSeeds(deco, rng),
		DurationMS: duration.Milliseconds(),
		Remaining:  duration.Milliseconds(),
	}
}

func newSeeds(deco Decoration, rng *rand.Rand) []Seed {
	n := seedCounts[deco]
	if n == 0 {
		return nil
	}

	glyphs := []rune(rainGlyphs)
	seeds := make([]Seed, n)
	for i := range seeds {
		s := Seed{
			X:        rng.Float64() * 100,
			Y:        rng.Float64() * 100,
			Size:     1 + rng.Float64()*4,
			Delay:    rng.IntN(2000),
			Duration: 1000 + rng.IntN(3000),
		}
		switch deco {
		case DecorationRain:
			// columns spread evenly, start above the viewport
			s.X = float64(i) * 100 / float64(n)
			s.Y = -rng.Float64() * 100
			s.Glyph = string(glyphs[rng.IntN(len(glyphs))])
		case DecorationOrbs:
			s.Size = 80 + rng.Float64()*160
		case DecorationScanlines:
			s.X = 0
			s.Y = float64(i) * 100 / float64(n)
		case DecorationPixels:
			s.X = float64(int(s.X/5) * 5)
			s.Y = float64(int(s.Y/5) * 5)
			s.Size = 4
		}
		seeds[i] = s
	}
	return seeds
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
