package telegram

import (
	"fmt"
	"strings"

	"github.com/homerelay/homerelay/internal/core"
)

// mdV2Replacer escapes special characters for Telegram MarkdownV2.
var mdV2Replacer = strings.NewReplacer(
	`\`, `\\`,
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

// EscapeMdV2 escapes a string for safe use in Telegram MarkdownV2.
func EscapeMdV2(s string) string {
	return mdV2Replacer.Replace(s)
}

// FormatBold returns MarkdownV2 bold text.
func FormatBold(s string) string {
	return "*" + EscapeMdV2(s) + "*"
}

// formatSection renders a section as a MarkdownV2 message: bold heading,
// then one numbered line per item with year and library status.
func formatSection(section core.Section) string {
	var sb strings.Builder
	sb.WriteString(FormatBold(section.DisplayTitle()))
	for i, item := range section.Items {
		sb.WriteString("\n")
		sb.WriteString(EscapeMdV2(fmt.Sprintf("%d. %s", i+1, itemLine(item))))
	}
	return sb.String()
}

// plainSection renders a section without any markup, used as the fallback
// when Telegram rejects the MarkdownV2 variant.
func plainSection(section core.Section) string {
	var sb strings.Builder
	sb.WriteString(section.DisplayTitle())
	for i, item := range section.Items {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, itemLine(item)))
	}
	return sb.String()
}

// itemLine is the one-line textual form of an item.
func itemLine(item core.SectionItem) string {
	line := item.Name
	if item.Year > 0 {
		line = fmt.Sprintf("%s (%d)", line, item.Year)
	}
	if item.InLibrary {
		line += " [in library]"
	}
	return line
}
