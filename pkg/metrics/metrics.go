package metrics

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Metrics holds the quality indicators computed from one extraction's
// primary text.
type Metrics struct {
	CharCount     int `json:"char_count"`
	WordCount     int `json:"word_count"`
	EquationCount int `json:"equation_count"`
	SectionCount  int `json:"section_count"`
}

var (
	// Block math first; its spans are excluded from the inline scan so a
	// $$...$$ is never double-counted as two inline equations.
	blockMathRe  = regexp.MustCompile(`(?s)\$\$.+?\$\$`)
	inlineMathRe = regexp.MustCompile(`\$[^$\n]+\$`)

	markdownHeaderRe = regexp.MustCompile(`^\s*#{1,6}\s+\S`)
	numberedHeaderRe = regexp.MustCompile(`^\s*\d+\.(?:\d+(?:\.\d+)*)?\s+\S`)
)

// Compute derives the fixed metric set from text. It is pure and never
// fails; empty input yields all-zero metrics.
func Compute(text string) Metrics {
	return Metrics{
		CharCount:     utf8.RuneCountInString(text),
		WordCount:     len(strings.Fields(text)),
		EquationCount: countEquations(text),
		SectionCount:  countSections(text),
	}
}

func countEquations(text string) int {
	count := 0

	// Replace matched block spans with a line break rather than deleting
	// them, so the inline scan cannot pair delimiters across the gap.
	remainder := blockMathRe.ReplaceAllStringFunc(text, func(string) string {
		count++
		return "\n"
	})

	// Unmatched delimiters in the remainder contribute nothing.
	count += len(inlineMathRe.FindAllString(remainder, -1))
	return count
}

func countSections(text string) int {
	if text == "" {
		return 0
	}
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if IsSectionHeading(line) {
			count++
		}
	}
	return count
}

// IsSectionHeading reports whether a line looks like a section header:
// 1-6 markdown '#' markers, or a numeric prefix like "2.1 Methods".
func IsSectionHeading(line string) bool {
	return markdownHeaderRe.MatchString(line) || numberedHeaderRe.MatchString(line)
}
