package telegram

import (
	"testing"

	"github.com/homerelay/homerelay/internal/core"
)

func TestEscapeMdV2(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text", in: "hello world", want: "hello world"},
		{name: "dots", in: "hello.", want: "hello\\."},
		{name: "exclamation", in: "Done!", want: "Done\\!"},
		{name: "parentheses", in: "(2024)", want: "\\(2024\\)"},
		{name: "brackets", in: "[link]", want: "\\[link\\]"},
		{name: "underscores", in: "foo_bar", want: "foo\\_bar"},
		{name: "stars", in: "*bold*", want: "\\*bold\\*"},
		{name: "all specials", in: "_*[]()~`>#+-=|{}.!", want: "\\_\\*\\[\\]\\(\\)\\~\\`\\>\\#\\+\\-\\=\\|\\{\\}\\.\\!"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EscapeMdV2(tt.in)
			if got != tt.want {
				t.Errorf("EscapeMdV2(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatBold(t *testing.T) {
	got := FormatBold("Dune (2021)")
	want := "*Dune \\(2021\\)*"
	if got != want {
		t.Errorf("FormatBold = %q, want %q", got, want)
	}
}

func TestFormatSection(t *testing.T) {
	section := core.Section{
		Type: core.SectionDiscoverMovies,
		Items: []core.SectionItem{
			{ID: "603", Name: "The Matrix", Year: 1999, Requestable: true},
			{ID: "27205", Name: "Inception", Year: 2010, InLibrary: true},
			{ID: "693134", Name: "Dune: Part Two"},
		},
	}

	got := formatSection(section)
	want := "*Discover Movies*\n" +
		"1\\. The Matrix \\(1999\\)\n" +
		"2\\. Inception \\(2010\\) \\[in library\\]\n" +
		"3\\. Dune: Part Two"
	if got != want {
		t.Errorf("formatSection =\n%q\nwant\n%q", got, want)
	}
}

func TestPlainSection(t *testing.T) {
	section := core.Section{
		Type:  core.SectionMyRequests,
		Items: []core.SectionItem{{ID: "1", Name: "Arrival", Year: 2016}},
	}

	got := plainSection(section)
	want := "My Requests\n1. Arrival (2016)"
	if got != want {
		t.Errorf("plainSection = %q, want %q", got, want)
	}
}
