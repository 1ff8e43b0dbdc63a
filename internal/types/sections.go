// Package types provides type definitions for structured data used throughout the resume-wizard system.
package types

// SectionType identifies one of the fixed resume section kinds.
type SectionType string

// Known section types.
const (
	SectionSummary                SectionType = "summary"
	SectionTechnicalSkills        SectionType = "technical_skills"
	SectionProfessionalExperience SectionType = "professional_experience"
	SectionEducation              SectionType = "education"
	SectionCertifications         SectionType = "certifications"
	SectionSelectedProjects       SectionType = "selected_projects"
	SectionLanguages              SectionType = "languages"
	SectionAdditionalInformation  SectionType = "additional_information"
)

// SectionOrder is the fixed generation and display order for full-draft runs.
// Callers may rely on this ordering; new section types are added here, not in
// control flow.
var SectionOrder = []SectionType{
	SectionSummary,
	SectionTechnicalSkills,
	SectionProfessionalExperience,
	SectionEducation,
	SectionCertifications,
	SectionSelectedProjects,
	SectionLanguages,
	SectionAdditionalInformation,
}

// Valid reports whether s is a known section type.
func (s SectionType) Valid() bool {
	for _, known := range SectionOrder {
		if s == known {
			return true
		}
	}
	return false
}

// GenerationMode is a rendering-style hint recorded with each generated
// section. It does not change the canonical payload shape.
type GenerationMode string

// Known generation modes.
const (
	ModeDefault  GenerationMode = "default"
	ModeShorter  GenerationMode = "shorter"
	ModeLonger   GenerationMode = "longer"
	ModeFormal   GenerationMode = "formal"
	ModeCreative GenerationMode = "creative"
)

// Valid reports whether m is a known generation mode.
func (m GenerationMode) Valid() bool {
	switch m {
	case ModeDefault, ModeShorter, ModeLonger, ModeFormal, ModeCreative:
		return true
	}
	return false
}

// SummarySection is the canonical shape of the summary section.
type SummarySection struct {
	Summary string `json:"summary,omitempty"`
}

// SkillGroup is one category of technical skills.
type SkillGroup struct {
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

// TechnicalSkillsSection is the canonical shape of the technical skills section.
type TechnicalSkillsSection struct {
	TechnicalSkills []SkillGroup `json:"technical_skills"`
}

// ExperienceEntry is one professional experience role.
type ExperienceEntry struct {
	Title   string   `json:"title"`
	Company string   `json:"company,omitempty"`
	Dates   string   `json:"dates,omitempty"`
	Bullets []string `json:"bullets"`
}

// ProfessionalExperienceSection is the canonical shape of the professional experience section.
type ProfessionalExperienceSection struct {
	ProfessionalExperience []ExperienceEntry `json:"professional_experience"`
}

// EducationEntry is one education record.
type EducationEntry struct {
	Degree      string   `json:"degree"`
	Institution string   `json:"institution,omitempty"`
	Details     []string `json:"details"`
}

// EducationSection is the canonical shape of the education section.
type EducationSection struct {
	Education []EducationEntry `json:"education"`
}

// Certification is one certification record.
type Certification struct {
	Title  string `json:"title"`
	Issuer string `json:"issuer,omitempty"`
}

// CertificationsSection is the canonical shape of the certifications section.
type CertificationsSection struct {
	Certifications []Certification `json:"certifications"`
}

// Project is one selected project.
type Project struct {
	Name    string   `json:"name"`
	Summary string   `json:"summary,omitempty"`
	Tech    []string `json:"tech"`
	Bullets []string `json:"bullets"`
}

// SelectedProjectsSection is the canonical shape of the selected projects section.
type SelectedProjectsSection struct {
	SelectedProjects []Project `json:"selected_projects"`
}

// LanguageEntry is one spoken language with proficiency level.
type LanguageEntry struct {
	Language string `json:"language"`
	Level    string `json:"level,omitempty"`
}

// LanguagesSection is the canonical shape of the languages section.
type LanguagesSection struct {
	Languages []LanguageEntry `json:"languages"`
}

// AdditionalInformationSection is the canonical shape of the additional information section.
type AdditionalInformationSection struct {
	VisaStatus     string   `json:"visa_status,omitempty"`
	Location       string   `json:"location,omitempty"`
	WorkPreference string   `json:"work_preference,omitempty"`
	Contact        []string `json:"contact"`
	Notes          []string `json:"notes"`
}
