package ui

import (
	"fmt"
	"strings"

	"github.com/desertthunder/upnext/internal/models"
)

// RenderCards draws cards as a numbered list under title.
//
// Each entry shows the title, release date and score when known, then the subtitle and
// detail link on a second, dimmed line.
func RenderCards(title string, cards []models.Card) string {
	var b strings.Builder

	if title != "" {
		b.WriteString(styles.Title(title))
		b.WriteString("\n")
	}

	if len(cards) == 0 {
		b.WriteString(styles.Warn("No results"))
		b.WriteString("\n")
		return b.String()
	}

	for i, c := range cards {
		line := fmt.Sprintf("%d. %s", i+1, styles.OK(c.Title))
		if date := models.Deref(c.ReleaseDate); date != "" {
			line += " (" + date + ")"
		}
		if c.Score != nil {
			line += " " + styles.Warn(fmt.Sprintf("[%d]", *c.Score))
		}
		b.WriteString(line + "\n")

		detail := c.Href
		if c.Subtitle != "" {
			detail = c.Subtitle + " · " + detail
		}
		b.WriteString("   " + styles.Help(detail) + "\n")
	}

	return b.String()
}
