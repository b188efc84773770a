package utils

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// ValidateMarkdown parses the generated executive summaries with Goldmark
// before they are written to disk. Goldmark is permissive, so this is a
// structural sanity check, not a linter.
func ValidateMarkdown(input string) bool {
	parser := goldmark.DefaultParser()
	reader := text.NewReader([]byte(input))
	return parser.Parse(reader) != nil
}

// MarkdownTable renders a header and rows as a pipe table. Cells are
// escaped minimally; the summaries never contain pipes in practice.
func MarkdownTable(columns []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("| " + strings.Join(columns, " | ") + " |\n")
	seps := make([]string, len(columns))
	for i := range seps {
		seps[i] = "---"
	}
	b.WriteString("| " + strings.Join(seps, " | ") + " |\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	return b.String()
}

// FormatMoney renders an amount with thousands separators and two
// decimals, e.g. 1234567.891 -> "1,234,567.89".
func FormatMoney(v float64) string {
	negative := v < 0
	if negative {
		v = -v
	}
	intPart := int64(v)
	decPart := int64((v-float64(intPart))*100 + 0.5)
	if decPart >= 100 {
		intPart++
		decPart -= 100
	}
	s := FormatInt(intPart)
	if negative {
		return fmt.Sprintf("-%s.%02d", s, decPart)
	}
	return fmt.Sprintf("%s.%02d", s, decPart)
}

// FormatInt renders an integer with thousands separators.
func FormatInt(n int64) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// FormatPct renders a fraction as a percentage with one decimal.
func FormatPct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}
