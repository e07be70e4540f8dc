// text.go - Static portfolio content: personal info, projects and skills
package main

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

//go:embed data/portfolio.yaml
var portfolioYAML []byte

type PersonalInfo struct {
	Name     string `yaml:"name" json:"name"`
	Title    string `yaml:"title" json:"title"`
	Bio      string `yaml:"bio" json:"bio"`
	Email    string `yaml:"email" json:"email"`
	Phone    string `yaml:"phone" json:"phone,omitempty"`
	Location string `yaml:"location" json:"location,omitempty"`
	GitHub   string `yaml:"github" json:"github,omitempty"`
	LinkedIn string `yaml:"linkedin" json:"linkedin,omitempty"`
	Website  string `yaml:"website" json:"website,omitempty"`
}

type ProjectCategory string

const (
	CategoryClient   ProjectCategory = "client"
	CategoryPersonal ProjectCategory = "personal"
)

type Project struct {
	ID          string          `yaml:"id" json:"id"`
	Title       string          `yaml:"title" json:"title"`
	Description string          `yaml:"description" json:"description"`
	Tech        []string        `yaml:"tech" json:"tech"`
	Image       string          `yaml:"image" json:"image"`
	GitHub      string          `yaml:"github" json:"github,omitempty"`
	Live        string          `yaml:"live" json:"live,omitempty"`
	Category    ProjectCategory `yaml:"category" json:"category"`
}

type SkillCategory string

const (
	SkillFrontend SkillCategory = "frontend"
	SkillBackend  SkillCategory = "backend"
	SkillTools    SkillCategory = "tools"
	SkillDesign   SkillCategory = "design"
)

type Skill struct {
	Name        string        `yaml:"name" json:"name"`
	Category    SkillCategory `yaml:"category" json:"category"`
	Proficiency int           `yaml:"proficiency" json:"proficiency"`
}

// Portfolio is the read-only content every template renders.
type Portfolio struct {
	Info     PersonalInfo `yaml:"info" json:"info"`
	Projects []Project    `yaml:"projects" json:"projects"`
	Skills   []Skill      `yaml:"skills" json:"skills"`

	BioHTML template.HTML `yaml:"-" json:"-"`
}

// loadPortfolio decodes and validates the portfolio document.
func loadPortfolio(raw []byte) (*Portfolio, error) {
	var p Portfolio
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse portfolio data: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(p.Info.Bio), &buf); err != nil {
		return nil, fmt.Errorf("render bio: %w", err)
	}
	// goldmark escapes raw HTML by default, so the output is safe to inline
	p.BioHTML = template.HTML(buf.String())

	return &p, nil
}

func (p *Portfolio) validate() error {
	if p.Info.Name == "" {
		return fmt.Errorf("portfolio info: name is required")
	}

	ids := make(map[string]bool, len(p.Projects))
	for i, proj := range p.Projects {
		if proj.ID == "" {
			return fmt.Errorf("project %d: id is required", i)
		}
		if ids[proj.ID] {
			return fmt.Errorf("project %q: duplicate id", proj.ID)
		}
		ids[proj.ID] = true

		switch proj.Category {
		case CategoryClient, CategoryPersonal:
		default:
			return fmt.Errorf("project %q: unknown category %q", proj.ID, proj.Category)
		}
	}

	for _, s := range p.Skills {
		switch s.Category {
		case SkillFrontend, SkillBackend, SkillTools, SkillDesign:
		default:
			return fmt.Errorf("skill %q: unknown category %q", s.Name, s.Category)
		}
		if s.Proficiency < 0 || s.Proficiency > 100 {
			return fmt.Errorf("skill %q: proficiency %d out of range 0-100", s.Name, s.Proficiency)
		}
	}
	return nil
}

// ProjectsIn returns the projects of one category, in document order.
func (p *Portfolio) ProjectsIn(c ProjectCategory) []Project {
	var out []Project
	for _, proj := range p.Projects {
		if proj.Category == c {
			out = append(out, proj)
		}
	}
	return out
}

// SkillGroup is a skill category with its skills, used by the layouts.
type SkillGroup struct {
	Category SkillCategory
	Skills   []Skill
}

// SkillGroups returns skills grouped by category in a fixed order.
func (p *Portfolio) SkillGroups() []SkillGroup {
	var groups []SkillGroup
	for _, c := range []SkillCategory{SkillFrontend, SkillBackend, SkillTools, SkillDesign} {
		var skills []Skill
		for _, s := range p.Skills {
			if s.Category == c {
				skills = append(skills, s)
			}
		}
		if len(skills) > 0 {
			groups = append(groups, SkillGroup{Category: c, Skills: skills})
		}
	}
	return groups
}
