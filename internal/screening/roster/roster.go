// Package roster loads the business entities to screen. The roster is a
// table whose first data row carries comma-separated "Token Issuer" and
// "Key Individuals" cells.
package roster

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sanctionscan/internal/screening/models"
	"sanctionscan/internal/screening/sources"
	pstrings "sanctionscan/pkg/platform/strings"
)

const (
	IssuerColumn      = "Token Issuer"
	IndividualsColumn = "Key Individuals"

	// cellSeparator splits the multi-value roster cells.
	cellSeparator = ", "
)

// Source supplies the roster for one screening run.
type Source interface {
	Fetch(ctx context.Context) ([]models.BusinessEntity, error)
}

// Entities builds one entity per issuer, each carrying every key
// individual.
func Entities(issuers, individuals string) []models.BusinessEntity {
	people := pstrings.SplitAndTrim(individuals, cellSeparator)
	names := pstrings.SplitAndTrim(issuers, cellSeparator)

	entities := make([]models.BusinessEntity, 0, len(names))
	for _, issuer := range names {
		entities = append(entities, models.BusinessEntity{
			Issuer:      issuer,
			Individuals: append([]string(nil), people...),
		})
	}
	return entities
}

// FromRow reads the roster columns from a header and its first data row.
func FromRow(header, row []string) ([]models.BusinessEntity, error) {
	issuerAt, individualsAt := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case IssuerColumn:
			issuerAt = i
		case IndividualsColumn:
			individualsAt = i
		}
	}

	var missing []string
	if issuerAt < 0 {
		missing = append(missing, IssuerColumn)
	}
	if individualsAt < 0 {
		missing = append(missing, IndividualsColumn)
	}
	if len(missing) > 0 {
		return nil, formatError(fmt.Sprintf("missing column(s) %q", missing))
	}
	if issuerAt >= len(row) || individualsAt >= len(row) {
		return nil, formatError(fmt.Sprintf("first row has %d cell(s), header has %d", len(row), len(header)))
	}
	return Entities(row[issuerAt], row[individualsAt]), nil
}

// FromHTML parses the first table in markup. The header is the first row
// of th cells, or the first row when the table has none; the roster comes
// from the row after it.
func FromHTML(markup string) ([]models.BusinessEntity, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, formatError("parse table markup: " + err.Error())
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, formatError("no table found")
	}

	rows := table.Find("tr")
	headerAt := 0
	rows.EachWithBreak(func(i int, tr *goquery.Selection) bool {
		if tr.Find("th").Length() > 0 {
			headerAt = i
			return false
		}
		return true
	})
	if rows.Length() <= headerAt+1 {
		return nil, formatError("table has no data row")
	}

	header := cells(rows.Eq(headerAt))
	row := cells(rows.Eq(headerAt + 1))
	return FromRow(header, row)
}

func cells(tr *goquery.Selection) []string {
	out := make([]string, 0)
	tr.ChildrenFiltered("th, td").Each(func(_ int, c *goquery.Selection) {
		out = append(out, strings.Join(strings.Fields(c.Text()), " "))
	})
	return out
}

func formatError(msg string) error {
	return sources.NewSourceError(sources.KindRosterFormat, "", msg, nil)
}
