package llm

import (
	_ "embed"
	"strconv"
	"strings"
	"time"
)

// The domain knowledge is a swappable data asset, not logic: the handler
// only ever sees the assembled prompt.
//
//go:embed knowledge.txt
var domainKnowledge string

const yearToken = "%CURRENT_YEAR%"

// DomainKnowledge returns the embedded triathlon knowledge asset.
func DomainKnowledge() string { return domainKnowledge }

// SystemPrompt assembles the instruction block sent with every query:
// a role preamble, the current date and year, and the knowledge asset with
// its year token filled in.
func SystemPrompt(knowledge string, now time.Time) string {
	today := now.Format("2006-01-02")
	year := strconv.Itoa(now.Year())

	var b strings.Builder
	b.WriteString("You are a helpful assistant for a triathlon statistics application. ")
	b.WriteString("Users can ask natural language questions about triathlon athletes, events, and rankings.\n\n")
	b.WriteString("TODAY'S DATE: " + today + "\n")
	b.WriteString("CURRENT YEAR: " + year + "\n\n")
	b.WriteString(strings.ReplaceAll(knowledge, yearToken, year))
	return b.String()
}
