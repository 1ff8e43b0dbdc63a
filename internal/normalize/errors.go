package normalize

import "fmt"

// UnknownSectionError indicates a section type the normalizer has no mapping
// for. This is a programmer error, not a data error: absent or empty input
// never fails normalization.
type UnknownSectionError struct {
	SectionType string
}

func (e *UnknownSectionError) Error() string {
	return fmt.Sprintf("unknown section type: %q", e.SectionType)
}
