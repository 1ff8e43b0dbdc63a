package normalize

import (
	"testing"

	"github.com/jonathan/resume-wizard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain text passes through", "Backend engineer with 8 years of experience.", "Backend engineer with 8 years of experience."},
		{"Whitespace collapses", "  Backend   engineer\n with   Go  ", "Backend engineer with Go"},
		{"Empty stays empty", "", ""},
		{"Whitespace only becomes empty", "   \n\t  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Summary(&types.WizardInput{Summary: tt.input})
			assert.Equal(t, tt.expected, result.Summary)
		})
	}
}

func TestTechnicalSkills(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []types.SkillGroup
	}{
		{
			name:  "Bare lines land in the default group",
			input: "Go\nKubernetes\nSQL",
			expected: []types.SkillGroup{
				{Category: "Skills", Skills: []string{"Go", "Kubernetes", "SQL"}},
			},
		},
		{
			name:  "Category headings open named groups",
			input: "Languages: Go, Python\nInfra: Docker, Kubernetes",
			expected: []types.SkillGroup{
				{Category: "Languages", Skills: []string{"Go", "Python"}},
				{Category: "Infra", Skills: []string{"Docker", "Kubernetes"}},
			},
		},
		{
			name:  "Repeated heading extends the existing group",
			input: "Languages: Go\nLanguages: Python",
			expected: []types.SkillGroup{
				{Category: "Languages", Skills: []string{"Go", "Python"}},
			},
		},
		{
			name:  "Duplicates are dropped",
			input: "Go, Go, SQL\nGo",
			expected: []types.SkillGroup{
				{Category: "Skills", Skills: []string{"Go", "SQL"}},
			},
		},
		{
			name:  "Comma list on one bare line",
			input: "Go, Kubernetes, SQL",
			expected: []types.SkillGroup{
				{Category: "Skills", Skills: []string{"Go", "Kubernetes", "SQL"}},
			},
		},
		{
			name:     "Empty input yields empty groups",
			input:    "",
			expected: []types.SkillGroup{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TechnicalSkills(&types.WizardInput{Skills: tt.input})
			assert.Equal(t, tt.expected, result.TechnicalSkills)
		})
	}
}

func TestProfessionalExperience(t *testing.T) {
	result := ProfessionalExperience(&types.WizardInput{
		Experience: []string{
			"Senior Engineer | Acme Corp | 2020-2024\n- Built the billing pipeline\n- Led a team of four",
			"Engineer | Initech",
			"",
		},
	})

	require.Len(t, result.ProfessionalExperience, 2, "empty entries should be skipped")

	first := result.ProfessionalExperience[0]
	assert.Equal(t, "Senior Engineer", first.Title)
	assert.Equal(t, "Acme Corp", first.Company)
	assert.Equal(t, "2020-2024", first.Dates)
	assert.Equal(t, []string{"Built the billing pipeline", "Led a team of four"}, first.Bullets)

	second := result.ProfessionalExperience[1]
	assert.Equal(t, "Engineer", second.Title)
	assert.Equal(t, "Initech", second.Company)
	assert.Empty(t, second.Dates)
	assert.Empty(t, second.Bullets)
}

func TestProfessionalExperienceHeadingOnly(t *testing.T) {
	result := ProfessionalExperience(&types.WizardInput{Experience: []string{"Freelance Developer"}})

	require.Len(t, result.ProfessionalExperience, 1)
	assert.Equal(t, "Freelance Developer", result.ProfessionalExperience[0].Title)
	assert.NotNil(t, result.ProfessionalExperience[0].Bullets, "bullets should marshal as an array")
}

func TestEducation(t *testing.T) {
	result := Education(&types.WizardInput{
		Education: []string{
			"BSc Computer Science - University of Toronto\nGraduated 2016\n- Dean's list",
			"Nanodegree",
		},
	})

	require.Len(t, result.Education, 2)
	assert.Equal(t, "BSc Computer Science", result.Education[0].Degree)
	assert.Equal(t, "University of Toronto", result.Education[0].Institution)
	assert.Equal(t, []string{"Graduated 2016", "Dean's list"}, result.Education[0].Details)

	assert.Equal(t, "Nanodegree", result.Education[1].Degree)
	assert.Empty(t, result.Education[1].Institution)
}

func TestCertifications(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected types.Certification
	}{
		{"Single line splits on dash", "CKA - CNCF", types.Certification{Title: "CKA", Issuer: "CNCF"}},
		{"Multi-line uses second line as issuer", "AWS Solutions Architect\nAmazon", types.Certification{Title: "AWS Solutions Architect", Issuer: "Amazon"}},
		{"Title only", "Scrum Master", types.Certification{Title: "Scrum Master"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Certifications(&types.WizardInput{Certifications: []string{tt.input}})
			require.Len(t, result.Certifications, 1)
			assert.Equal(t, tt.expected, result.Certifications[0])
		})
	}
}

func TestSelectedProjects(t *testing.T) {
	result := SelectedProjects(&types.WizardInput{
		Projects: []string{
			"Log Pipeline\nStreaming ingestion for application logs\nTech: Go, Kafka\n- Handles 50k events/s\n- Zero-downtime deploys",
		},
	})

	require.Len(t, result.SelectedProjects, 1)
	project := result.SelectedProjects[0]
	assert.Equal(t, "Log Pipeline", project.Name)
	assert.Equal(t, "Streaming ingestion for application logs", project.Summary)
	assert.Equal(t, []string{"Go", "Kafka"}, project.Tech)
	assert.Equal(t, []string{"Handles 50k events/s", "Zero-downtime deploys"}, project.Bullets)
}

func TestSelectedProjectsNameOnly(t *testing.T) {
	result := SelectedProjects(&types.WizardInput{Projects: []string{"Side Project"}})

	require.Len(t, result.SelectedProjects, 1)
	assert.Equal(t, "Side Project", result.SelectedProjects[0].Name)
	assert.Empty(t, result.SelectedProjects[0].Summary)
	assert.NotNil(t, result.SelectedProjects[0].Tech)
	assert.NotNil(t, result.SelectedProjects[0].Bullets)
}

func TestLanguages(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected types.LanguageEntry
	}{
		{"Dash form", "English - Native", types.LanguageEntry{Language: "English", Level: "Native"}},
		{"Parenthesized form", "German (B2)", types.LanguageEntry{Language: "German", Level: "B2"}},
		{"Language only", "Spanish", types.LanguageEntry{Language: "Spanish"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Languages(&types.WizardInput{Languages: []string{tt.input}})
			require.Len(t, result.Languages, 1)
			assert.Equal(t, tt.expected, result.Languages[0])
		})
	}
}

func TestLanguagesSkipsBlankEntries(t *testing.T) {
	result := Languages(&types.WizardInput{Languages: []string{"", "  ", "French - Fluent"}})

	require.Len(t, result.Languages, 1)
	assert.Equal(t, "French", result.Languages[0].Language)
}

func TestAdditionalInformation(t *testing.T) {
	result := AdditionalInformation(&types.WizardInput{
		VisaStatus:     "Citizen",
		Location:       "Toronto, ON",
		WorkPreference: "Remote",
		Email:          "dev@example.com",
		Phone:          "",
		LinkedIn:       "linkedin.com/in/dev",
		Notes:          []string{"Available from March", "  "},
	})

	assert.Equal(t, "Citizen", result.VisaStatus)
	assert.Equal(t, "Toronto, ON", result.Location)
	assert.Equal(t, "Remote", result.WorkPreference)
	assert.Equal(t, []string{"dev@example.com", "linkedin.com/in/dev"}, result.Contact)
	assert.Equal(t, []string{"Available from March"}, result.Notes)
}

func TestSectionDispatch(t *testing.T) {
	for _, sectionType := range types.SectionOrder {
		t.Run(string(sectionType), func(t *testing.T) {
			payload, err := Section(sectionType, &types.WizardInput{})
			require.NoError(t, err)
			assert.NotNil(t, payload)
		})
	}
}

func TestSectionNilInput(t *testing.T) {
	payload, err := Section(types.SectionSummary, nil)

	require.NoError(t, err)
	assert.Equal(t, types.SummarySection{}, payload)
}

func TestSectionUnknownType(t *testing.T) {
	_, err := Section(types.SectionType("references"), &types.WizardInput{})

	var unknownErr *UnknownSectionError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "references", unknownErr.SectionType)
}

func TestInputSliceStablePerSection(t *testing.T) {
	in := &types.WizardInput{
		Summary:    "Engineer",
		Skills:     "Go",
		Experience: []string{"Engineer | Acme"},
	}

	slice, err := InputSlice(types.SectionSummary, in)
	require.NoError(t, err)
	assert.Equal(t, "Engineer", slice)

	// A section's slice must ignore unrelated fields.
	other := &types.WizardInput{Summary: "Engineer", Skills: "Rust"}
	otherSlice, err := InputSlice(types.SectionSummary, other)
	require.NoError(t, err)
	assert.Equal(t, slice, otherSlice)
}

func TestInputSliceUnknownType(t *testing.T) {
	_, err := InputSlice(types.SectionType("references"), &types.WizardInput{})

	var unknownErr *UnknownSectionError
	assert.ErrorAs(t, err, &unknownErr)
}
