// Package ui renders command output for the terminal with [lipgloss] styles.
//
// A package level [Palette] holds the styles. [RenderCards] draws a numbered card list used by
// the lookup, search and bestsellers commands when --pretty is set. Without a color capable
// terminal lipgloss degrades to plain text, so the output stays readable when piped.
package ui
