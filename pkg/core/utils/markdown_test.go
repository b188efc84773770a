package utils

import (
	"strings"
	"testing"
)

func TestValidateMarkdownAcceptsSummaries(t *testing.T) {
	summary := "# Cohort Retention\n\nSome text.\n\n| a | b |\n| --- | --- |\n| 1 | 2 |\n"
	if !ValidateMarkdown(summary) {
		t.Error("well-formed summary should validate")
	}
}

func TestMarkdownTableShape(t *testing.T) {
	out := MarkdownTable([]string{"tier", "customers"}, [][]string{
		{"A", "120"},
		{"B", "340"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + separator + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "| tier | customers |" {
		t.Errorf("unexpected header line %q", lines[0])
	}
	if lines[1] != "| --- | --- |" {
		t.Errorf("unexpected separator line %q", lines[1])
	}
	if !ValidateMarkdown(out) {
		t.Error("generated table should be valid markdown")
	}
}

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{1234567.891, "1,234,567.89"},
		{-9876.5, "-9,876.50"},
		{999.999, "1,000.00"},
	}
	for _, c := range cases {
		if got := FormatMoney(c.in); got != c.want {
			t.Errorf("FormatMoney(%f) expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestFormatInt(t *testing.T) {
	if got := FormatInt(1234567); got != "1,234,567" {
		t.Errorf("expected 1,234,567, got %q", got)
	}
	if got := FormatInt(-42); got != "-42" {
		t.Errorf("expected -42, got %q", got)
	}
}

func TestFormatPct(t *testing.T) {
	if got := FormatPct(0.725); got != "72.5%" {
		t.Errorf("expected 72.5%%, got %q", got)
	}
}
