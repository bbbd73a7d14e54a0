// Package resume renders resume data into a standalone HTML document.
package resume

import (
	"bytes"
	_ "embed"
	"html/template"
	"strings"

	"toolszone/internal/domain"
)

// PersonalInfo is the resume header.
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Website  string `json:"website,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

type Job struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Description []string `json:"description"`
}

type Education struct {
	Degree         string   `json:"degree"`
	Institution    string   `json:"institution"`
	Location       string   `json:"location"`
	GraduationDate string   `json:"graduationDate"`
	GPA            string   `json:"gpa,omitempty"`
	Achievements   []string `json:"achievements,omitempty"`
}

type Project struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Link         string   `json:"link,omitempty"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
}

// Data is the full resume as posted by the client. Pointer and nil-able
// fields distinguish "missing" from "empty".
type Data struct {
	PersonalInfo   *PersonalInfo   `json:"personalInfo"`
	Summary        string          `json:"summary"`
	WorkExperience []Job           `json:"workExperience"`
	Education      []Education     `json:"education"`
	Skills         []string        `json:"skills"`
	Projects       []Project       `json:"projects,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
}

// Template describes one selectable layout.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Thumbnail   string `json:"thumbnail"`
	Description string `json:"description"`

	accent string
	font   string
	align  string
}

var templates = []Template{
	{
		ID: "modern", Name: "Modern", Thumbnail: "/images/templates/modern.png",
		Description: "A clean, modern resume template with a sidebar",
		accent:      "#2a5885", font: "Arial, sans-serif", align: "left",
	},
	{
		ID: "professional", Name: "Professional", Thumbnail: "/images/templates/professional.png",
		Description: "Traditional resume format suitable for corporate environments",
		accent:      "#1f2937", font: "Georgia, serif", align: "center",
	},
	{
		ID: "minimal", Name: "Minimal", Thumbnail: "/images/templates/minimal.png",
		Description: "Simple and straightforward design with minimal styling",
		accent:      "#333333", font: "Helvetica, Arial, sans-serif", align: "left",
	},
	{
		ID: "creative", Name: "Creative", Thumbnail: "/images/templates/creative.png",
		Description: "Bold design for creative professionals",
		accent:      "#c2410c", font: "'Trebuchet MS', sans-serif", align: "center",
	},
}

// Templates lists the available layouts.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

func lookup(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Validate checks that the required sections are present and the template
// id is known.
func Validate(d *Data, templateID string) error {
	if d == nil {
		return domain.InvalidInput("Resume data is required")
	}
	if d.PersonalInfo == nil || d.WorkExperience == nil || d.Education == nil {
		return domain.InvalidInput("Missing required resume sections")
	}
	if strings.TrimSpace(d.PersonalInfo.Name) == "" {
		return domain.InvalidInput("Name is required")
	}
	if _, ok := lookup(templateID); !ok {
		return domain.InvalidInput("Invalid template selected")
	}
	return nil
}

//go:embed resume.html.tmpl
var pageSource string

var page = template.Must(template.New("resume").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(pageSource))

type view struct {
	*Data
	Template Template
	Accent   template.CSS
	Font     template.CSS
	Align    template.CSS
}

// RenderHTML validates d and renders it with the chosen template. All
// user-supplied text is escaped.
func RenderHTML(d *Data, templateID string) ([]byte, error) {
	if err := Validate(d, templateID); err != nil {
		return nil, err
	}
	tpl, _ := lookup(templateID)

	var buf bytes.Buffer
	err := page.Execute(&buf, view{
		Data:     d,
		Template: tpl,
		Accent:   template.CSS(tpl.accent),
		Font:     template.CSS(tpl.font),
		Align:    template.CSS(tpl.align),
	})
	if err != nil {
		return nil, domain.Internal("Failed to generate resume", err)
	}
	return buf.Bytes(), nil
}
