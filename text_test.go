package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedPortfolio(t *testing.T) {
	p, err := loadPortfolio(portfolioYAML)
	require.NoError(t, err)

	assert.NotEmpty(t, p.Info.Name)
	assert.NotEmpty(t, p.Projects)
	assert.NotEmpty(t, p.Skills)
	assert.Contains(t, string(p.BioHTML), "<strong>useful and fun</strong>")
	assert.Equal(t, len(p.Projects), len(p.ProjectsIn(CategoryClient))+len(p.ProjectsIn(CategoryPersonal)))
}

func TestBioDoesNotPassRawHTML(t *testing.T) {
	raw := []byte(`
info:
  name: Test
  bio: "hello <script>alert(1)</script>"
`)
	p, err := loadPortfolio(raw)
	require.NoError(t, err)
	assert.NotContains(t, string(p.BioHTML), "<script>")
}

func TestLoadPortfolioRejectsBadData(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "not yaml",
			yaml: "info: [",
			want: "parse portfolio data",
		},
		{
			name: "missing name",
			yaml: "info: {title: x}",
			want: "name is required",
		},
		{
			name: "duplicate project id",
			yaml: `
info: {name: T}
projects:
  - {id: a, category: client}
  - {id: a, category: personal}
`,
			want: "duplicate id",
		},
		{
			name: "unknown project category",
			yaml: `
info: {name: T}
projects:
  - {id: a, category: hobby}
`,
			want: "unknown category",
		},
		{
			name: "proficiency out of range",
			yaml: `
info: {name: T}
skills:
  - {name: Go, category: backend, proficiency: 120}
`,
			want: "out of range",
		},
		{
			name: "unknown skill category",
			yaml: `
info: {name: T}
skills:
  - {name: Go, category: cooking, proficiency: 50}
`,
			want: "unknown category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadPortfolio([]byte(strings.TrimSpace(tt.yaml)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSkillGroupsOrder(t *testing.T) {
	p := &Portfolio{Skills: []Skill{
		{Name: "Figma", Category: SkillDesign, Proficiency: 40},
		{Name: "Go", Category: SkillBackend, Proficiency: 90},
		{Name: "CSS", Category: SkillFrontend, Proficiency: 70},
		{Name: "SQL", Category: SkillBackend, Proficiency: 80},
	}}

	groups := p.SkillGroups()
	require.Len(t, groups, 3)
	assert.Equal(t, SkillFrontend, groups[0].Category)
	assert.Equal(t, SkillBackend, groups[1].Category)
	assert.Len(t, groups[1].Skills, 2)
	assert.Equal(t, SkillDesign, groups[2].Category)
}
