// Package normalize maps raw wizard input into canonical, schema-shaped
// resume section payloads. All functions are pure: no I/O, no mutation of the
// input document.
package normalize

import (
	"strings"

	"github.com/jonathan/resume-wizard/internal/types"
)

// defaultSkillCategory groups skills that carry no explicit category heading.
const defaultSkillCategory = "Skills"

// Section normalizes the slice of in relevant to sectionType into that
// section's canonical payload. A nil or empty input document yields the
// section's empty shape; only an unknown section type is an error.
func Section(sectionType types.SectionType, in *types.WizardInput) (any, error) {
	if in == nil {
		in = &types.WizardInput{}
	}

	switch sectionType {
	case types.SectionSummary:
		return Summary(in), nil
	case types.SectionTechnicalSkills:
		return TechnicalSkills(in), nil
	case types.SectionProfessionalExperience:
		return ProfessionalExperience(in), nil
	case types.SectionEducation:
		return Education(in), nil
	case types.SectionCertifications:
		return Certifications(in), nil
	case types.SectionSelectedProjects:
		return SelectedProjects(in), nil
	case types.SectionLanguages:
		return Languages(in), nil
	case types.SectionAdditionalInformation:
		return AdditionalInformation(in), nil
	default:
		return nil, &UnknownSectionError{SectionType: string(sectionType)}
	}
}

// InputSlice returns the subset of the wizard input a section's normalization
// depends on. It is the hashing domain for the section's input hash: two
// inputs that agree on this slice produce identical generated output.
func InputSlice(sectionType types.SectionType, in *types.WizardInput) (any, error) {
	if in == nil {
		in = &types.WizardInput{}
	}

	switch sectionType {
	case types.SectionSummary:
		return in.Summary, nil
	case types.SectionTechnicalSkills:
		return in.Skills, nil
	case types.SectionProfessionalExperience:
		return in.Experience, nil
	case types.SectionEducation:
		return in.Education, nil
	case types.SectionCertifications:
		return in.Certifications, nil
	case types.SectionSelectedProjects:
		return in.Projects, nil
	case types.SectionLanguages:
		return in.Languages, nil
	case types.SectionAdditionalInformation:
		return map[string]any{
			"visa_status":     in.VisaStatus,
			"location":        in.Location,
			"work_preference": in.WorkPreference,
			"email":           in.Email,
			"phone":           in.Phone,
			"linkedin":        in.LinkedIn,
			"website":         in.Website,
			"notes":           in.Notes,
		}, nil
	default:
		return nil, &UnknownSectionError{SectionType: string(sectionType)}
	}
}

// Summary normalizes the summary free text.
func Summary(in *types.WizardInput) types.SummarySection {
	return types.SummarySection{Summary: collapseWhitespace(in.Summary)}
}

// TechnicalSkills parses the skills free text into categorized skill groups.
// Lines shaped "Category: a, b, c" open (or extend) a named group; bare lines
// accumulate into the default group in first-appearance order.
func TechnicalSkills(in *types.WizardInput) types.TechnicalSkillsSection {
	groups := make([]types.SkillGroup, 0)
	index := make(map[string]int)

	appendSkills := func(category string, skills []string) {
		if len(skills) == 0 {
			return
		}
		i, ok := index[category]
		if !ok {
			groups = append(groups, types.SkillGroup{Category: category, Skills: make([]string, 0, len(skills))})
			i = len(groups) - 1
			index[category] = i
		}
		for _, s := range skills {
			if !containsString(groups[i].Skills, s) {
				groups[i].Skills = append(groups[i].Skills, s)
			}
		}
	}

	for _, line := range splitLines(in.Skills) {
		if category, rest, ok := splitHeading(line); ok {
			appendSkills(category, splitList(rest))
			continue
		}
		appendSkills(defaultSkillCategory, splitList(line))
	}

	return types.TechnicalSkillsSection{TechnicalSkills: groups}
}

// ProfessionalExperience normalizes each experience entry. The leading line
// is the role heading, split on "|" into title, company, and dates; remaining
// lines become bullets.
func ProfessionalExperience(in *types.WizardInput) types.ProfessionalExperienceSection {
	entries := make([]types.ExperienceEntry, 0, len(in.Experience))

	for _, raw := range in.Experience {
		lines := splitLines(raw)
		if len(lines) == 0 {
			continue
		}

		entry := types.ExperienceEntry{Bullets: make([]string, 0, len(lines)-1)}
		parts := splitHeadingParts(lines[0])
		entry.Title = parts[0]
		if len(parts) > 1 {
			entry.Company = parts[1]
		}
		if len(parts) > 2 {
			entry.Dates = parts[2]
		}

		for _, line := range lines[1:] {
			entry.Bullets = append(entry.Bullets, trimBulletMarker(line))
		}
		entries = append(entries, entry)
	}

	return types.ProfessionalExperienceSection{ProfessionalExperience: entries}
}

// Education normalizes each education entry. The leading line is the degree
// heuristic, split on a dash into degree and institution; remaining lines
// become details.
func Education(in *types.WizardInput) types.EducationSection {
	entries := make([]types.EducationEntry, 0, len(in.Education))

	for _, raw := range in.Education {
		lines := splitLines(raw)
		if len(lines) == 0 {
			continue
		}

		entry := types.EducationEntry{Details: make([]string, 0, len(lines)-1)}
		entry.Degree, entry.Institution = splitDash(lines[0])

		for _, line := range lines[1:] {
			entry.Details = append(entry.Details, trimBulletMarker(line))
		}
		entries = append(entries, entry)
	}

	return types.EducationSection{Education: entries}
}

// Certifications normalizes each certification entry. Single-line entries
// split on a dash into title and issuer; for multi-line entries the second
// line is the issuer.
func Certifications(in *types.WizardInput) types.CertificationsSection {
	entries := make([]types.Certification, 0, len(in.Certifications))

	for _, raw := range in.Certifications {
		lines := splitLines(raw)
		if len(lines) == 0 {
			continue
		}

		var cert types.Certification
		if len(lines) > 1 {
			cert.Title = lines[0]
			cert.Issuer = trimBulletMarker(lines[1])
		} else {
			cert.Title, cert.Issuer = splitDash(lines[0])
		}
		entries = append(entries, cert)
	}

	return types.CertificationsSection{Certifications: entries}
}

// SelectedProjects normalizes each project entry. The leading line is the
// project name; a "Tech:" line lists technologies; the first unmarked body
// line becomes the summary and everything else becomes bullets.
func SelectedProjects(in *types.WizardInput) types.SelectedProjectsSection {
	entries := make([]types.Project, 0, len(in.Projects))

	for _, raw := range in.Projects {
		lines := splitLines(raw)
		if len(lines) == 0 {
			continue
		}

		project := types.Project{
			Name:    lines[0],
			Tech:    make([]string, 0),
			Bullets: make([]string, 0),
		}

		for _, line := range lines[1:] {
			if heading, rest, ok := splitHeading(line); ok && strings.EqualFold(heading, "tech") {
				project.Tech = append(project.Tech, splitList(rest)...)
				continue
			}
			if project.Summary == "" && !hasBulletMarker(line) {
				project.Summary = line
				continue
			}
			project.Bullets = append(project.Bullets, trimBulletMarker(line))
		}
		entries = append(entries, project)
	}

	return types.SelectedProjectsSection{SelectedProjects: entries}
}

// Languages normalizes each language entry, reading the proficiency level
// from "Language - Level" or "Language (Level)" shapes.
func Languages(in *types.WizardInput) types.LanguagesSection {
	entries := make([]types.LanguageEntry, 0, len(in.Languages))

	for _, raw := range in.Languages {
		line := collapseWhitespace(raw)
		if line == "" {
			continue
		}

		var entry types.LanguageEntry
		entry.Language, entry.Level = splitDash(line)
		if entry.Level == "" {
			if open := strings.LastIndex(entry.Language, "("); open > 0 && strings.HasSuffix(entry.Language, ")") {
				entry.Level = strings.TrimSpace(entry.Language[open+1 : len(entry.Language)-1])
				entry.Language = strings.TrimSpace(entry.Language[:open])
			}
		}
		entries = append(entries, entry)
	}

	return types.LanguagesSection{Languages: entries}
}

// AdditionalInformation collects visa, location, and work-preference hints
// together with contact lines and free-form notes.
func AdditionalInformation(in *types.WizardInput) types.AdditionalInformationSection {
	section := types.AdditionalInformationSection{
		VisaStatus:     collapseWhitespace(in.VisaStatus),
		Location:       collapseWhitespace(in.Location),
		WorkPreference: collapseWhitespace(in.WorkPreference),
		Contact:        make([]string, 0, 4),
		Notes:          make([]string, 0, len(in.Notes)),
	}

	for _, contact := range []string{in.Email, in.Phone, in.LinkedIn, in.Website} {
		if trimmed := collapseWhitespace(contact); trimmed != "" {
			section.Contact = append(section.Contact, trimmed)
		}
	}
	for _, note := range in.Notes {
		if trimmed := collapseWhitespace(note); trimmed != "" {
			section.Notes = append(section.Notes, trimmed)
		}
	}

	return section
}
