package resume

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolszone/internal/domain"
)

func sampleData() *Data {
	return &Data{
		PersonalInfo: &PersonalInfo{
			Name:     "Ada Lovelace",
			Email:    "ada@example.com",
			Phone:    "555-0100",
			Location: "London",
			GitHub:   "https://github.com/ada",
		},
		Summary: "Analyst of engines.",
		WorkExperience: []Job{{
			Title: "Programmer", Company: "Analytical Engine Co", Location: "London",
			StartDate: "1842", EndDate: "1843", Description: []string{"Wrote note G"},
		}},
		Education: []Education{{Degree: "Mathematics", Institution: "Home", GPA: "4.0"}},
		Skills:    []string{"Mathematics", "Poetry"},
		Projects: []Project{{
			Title: "Bernoulli numbers", Description: "First program", Technologies: []string{"cards", "gears"},
		}},
		Certifications: []Certification{{Name: "Fellow", Issuer: "Society", Date: "1840"}},
	}
}

func TestTemplates(t *testing.T) {
	got := Templates()
	require.Len(t, got, 4)
	ids := make([]string, len(got))
	for i, tpl := range got {
		ids[i] = tpl.ID
		assert.NotEmpty(t, tpl.Name)
		assert.NotEmpty(t, tpl.Thumbnail)
	}
	assert.Equal(t, []string{"modern", "professional", "minimal", "creative"}, ids)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(sampleData(), "modern"))

	cases := map[string]struct {
		data *Data
		tpl  string
		msg  string
	}{
		"nil data":          {nil, "modern", "Resume data is required"},
		"no personal info":  {&Data{WorkExperience: []Job{}, Education: []Education{}}, "modern", "Missing required resume sections"},
		"no work":           {&Data{PersonalInfo: &PersonalInfo{Name: "x"}, Education: []Education{}}, "modern", "Missing required resume sections"},
		"no name":           {&Data{PersonalInfo: &PersonalInfo{}, WorkExperience: []Job{}, Education: []Education{}}, "modern", "Name is required"},
		"unknown template":  {sampleData(), "gothic", "Invalid template selected"},
		"template required": {sampleData(), "", "Invalid template selected"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := Validate(tc.data, tc.tpl)
			require.Error(t, err)
			var de *domain.Error
			require.ErrorAs(t, err, &de)
			assert.Equal(t, domain.KindInvalidInput, de.Kind)
			assert.Equal(t, tc.msg, de.Message)
		})
	}
}

func TestRenderHTML_AllSections(t *testing.T) {
	out, err := RenderHTML(sampleData(), "creative")
	require.NoError(t, err)
	html := string(out)

	for _, want := range []string{
		"<title>Ada Lovelace - Resume</title>",
		`class="template-creative"`,
		"Analytical Engine Co, London",
		"<li>Wrote note G</li>",
		"GPA: 4.0",
		`<span class="skill">Poetry</span>`,
		"cards, gears",
		"<strong>Fellow</strong> - Society (1840)",
		`<a href="https://github.com/ada">GitHub</a>`,
		"#c2410c",
	} {
		assert.Contains(t, html, want)
	}
	assert.NotContains(t, html, "LinkedIn")
}

func TestRenderHTML_EscapesUserInput(t *testing.T) {
	d := sampleData()
	d.PersonalInfo.Name = `<script>alert(1)</script>`
	d.PersonalInfo.Website = "javascript:alert(1)"

	out, err := RenderHTML(d, "minimal")
	require.NoError(t, err)
	html := string(out)

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.False(t, strings.Contains(html, `href="javascript:`))
}

func TestRenderHTML_InvalidTemplate(t *testing.T) {
	_, err := RenderHTML(sampleData(), "nope")
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
}
