// Package renderer renders portfolio reports as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/twfolio"
	"github.com/etnz/twfolio/date"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.md
var templates embed.FS

// funcs are the formatting helpers available to every template. Amounts are
// truncated to whole dollars only here: the report itself is exact.
var funcs = template.FuncMap{
	"shares": func(q twfolio.Quantity) string { return numbers.Sprintf("%d", q.Shares()) },
	"price":  func(m twfolio.Money) string { return m.String() },
	"amount": func(m twfolio.Money) string { return m.Truncate().Format(0) },
	"signed": func(m twfolio.Money) string { return m.Truncate().SignedFormat(0) },
	"cell":   func(s string) string { return strings.ReplaceAll(s, "|", `\|`) },
}

// numbers groups digits the way amounts are grouped.
var numbers = message.NewPrinter(language.English)

// SummaryReport is the data of the summary template.
type SummaryReport struct {
	Date date.Date
	*twfolio.Summary
}

// Summary renders the portfolio summary on day on.
func Summary(on date.Date, s *twfolio.Summary) string {
	partials := map[string]string{
		"summary_lines":  "summary_lines.md",
		"summary_totals": "summary_totals.md",
	}
	return renderTemplate("summary", "summary.md", partials, SummaryReport{Date: on, Summary: s})
}

// IndexedTransaction is a transaction with its position in the ledger.
type IndexedTransaction struct {
	Index int
	twfolio.Transaction
}

// Transactions renders a transaction table. The indexes are the ones to use
// to delete a transaction.
func Transactions(txs []IndexedTransaction) string {
	return renderTemplate("transactions", "transactions.md", nil, txs)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
