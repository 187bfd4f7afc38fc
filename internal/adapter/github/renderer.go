package github

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// RenderWorkingComment renders the initial tracking comment body posted
// before the assistant starts working. requester is the display name of
// the triggering user and may be empty.
func RenderWorkingComment(requester string) string {
	var b strings.Builder
	if requester == "" {
		b.WriteString("**Claude is working on this…**\n\n")
	} else {
		fmt.Fprintf(&b, "**Claude is working on %s's request…**\n\n", requester)
	}
	b.WriteString(RenderProgressSection("progress", []string{
		"[ ] Reading the conversation",
		"[ ] Gathering repository context",
		"[ ] Working on the task",
	}))
	return b.String()
}

// RenderProgressSection renders a titled section of a progress update.
// Section names arrive as lowercase identifiers ("next steps") and are
// title-cased for display.
func RenderProgressSection(name string, lines []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n", titleCaser.String(name))
	for _, line := range lines {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
