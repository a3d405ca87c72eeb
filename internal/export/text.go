// Package export renders an aggregated shopping list as plain text or as a
// branded PDF document.
package export

import (
	"fmt"
	"strings"
)

// Item is one aggregated shopping-list row.
type Item struct {
	Name   string
	Unit   string
	Amount int
}

const textHeader = "Buy at the store:"

// Text renders the list as a fixed header line followed by one
// "name (unit) - amount" line per row.
func Text(items []Item) string {
	var b strings.Builder
	b.WriteString(textHeader)
	for _, item := range items {
		b.WriteString("\n")
		b.WriteString(Line(item))
	}
	b.WriteString("\n")
	return b.String()
}

// Line formats a single row. The same shape is used in both output modes.
func Line(item Item) string {
	return fmt.Sprintf("%s (%s) - %d", item.Name, item.Unit, item.Amount)
}
