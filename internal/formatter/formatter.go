// package formatter provides functions to export catalog cards to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/upnext/internal/models"
	"github.com/desertthunder/upnext/internal/shared"
	"github.com/desertthunder/upnext/internal/ui"
)

// Format names an output encoding for card lists.
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat parses a format name. "md" is accepted for markdown and "txt" for text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
	}
}

// Export encodes cards in format f. title heads text and markdown output; pretty styles text
// output and indents JSON.
func Export(f Format, title string, cards []models.Card, pretty bool) ([]byte, error) {
	switch f {
	case FormatText:
		if pretty {
			return []byte(ui.RenderCards(title, cards)), nil
		}
		return CardsToText(title, cards)
	case FormatCSV:
		return CardsToCSV(cards)
	case FormatMarkdown:
		return CardsToMarkdown(title, cards)
	case FormatJSON:
		if cards == nil {
			cards = []models.Card{}
		}
		if pretty {
			return json.MarshalIndent(cards, "", "  ")
		}
		return json.Marshal(cards)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// CardsToCSV converts cards to CSV format with columns: ID, Kind, Title, Release Date, Subtitle, Score, Href, Image
func CardsToCSV(cards []models.Card) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Kind", "Title", "Release Date", "Subtitle", "Score", "Href", "Image"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, card := range cards {
		score := ""
		if card.Score != nil {
			score = strconv.Itoa(*card.Score)
		}
		record := []string{
			card.ID,
			string(card.Kind),
			card.Title,
			models.Deref(card.ReleaseDate),
			card.Subtitle,
			score,
			card.Href,
			models.Deref(card.ImageURL),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// CardsToMarkdown converts cards to a Markdown list under a level one heading, with cover images when present
func CardsToMarkdown(title string, cards []models.Card) ([]byte, error) {
	var buf bytes.Buffer

	if title != "" {
		buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	}
	buf.WriteString(fmt.Sprintf("**Items**: %d\n\n", len(cards)))

	for i, card := range cards {
		datePart := ""
		if date := models.Deref(card.ReleaseDate); date != "" {
			datePart = fmt.Sprintf(" (%s)", date)
		}
		buf.WriteString(fmt.Sprintf("%d. [%s](%s)%s\n", i+1, escapeMarkdown(card.Title), card.Href, datePart))

		if card.Subtitle != "" {
			buf.WriteString(fmt.Sprintf("   - %s\n", escapeMarkdown(card.Subtitle)))
		}
		if card.Score != nil {
			buf.WriteString(fmt.Sprintf("   - Score: %d\n", *card.Score))
		}
		if image := models.Deref(card.ImageURL); image != "" {
			buf.WriteString(fmt.Sprintf("   - ![Cover](%s)\n", image))
		}
	}

	return buf.Bytes(), nil
}

// CardsToText converts cards to plain text format
func CardsToText(title string, cards []models.Card) ([]byte, error) {
	var buf bytes.Buffer

	if title != "" {
		buf.WriteString(fmt.Sprintf("%s\n", title))
	}
	buf.WriteString(fmt.Sprintf("Items: %d\n\n", len(cards)))

	for i, card := range cards {
		line := fmt.Sprintf("%d. %s", i+1, card.Title)
		if date := models.Deref(card.ReleaseDate); date != "" {
			line += fmt.Sprintf(" (%s)", date)
		}
		if card.Subtitle != "" {
			line += " - " + card.Subtitle
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// WriteExport encodes cards and writes them to path.
func WriteExport(path string, f Format, title string, cards []models.Card, pretty bool) error {
	data, err := Export(f, title, cards, pretty)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

var markdownEscaper = strings.NewReplacer("[", `\[`, "]", `\]`, "*", `\*`, "_", `\_`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
