package output

import (
	"io"
	"path/filepath"
	"strings"

	"fbref-scraper/internal/domain"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type Format string

const (
	FormatCSV      Format = "csv"
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

var Formats = []Format{FormatCSV, FormatTable, FormatMarkdown, FormatJSON}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.Newf("unknown output format %q", s)
}

// FormatForPath guesses the format from a file extension, csv otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".json":
		return FormatJSON
	case ".txt":
		return FormatTable
	}
	return FormatCSV
}

type document struct {
	Team   string     `json:"team"`
	ID     string     `json:"id"`
	Fields []string   `json:"fields"`
	Rows   [][]string `json:"rows"`
}

func rows(team domain.Team) [][]string {
	out := make([][]string, len(team.Matches))
	for i, m := range team.Matches {
		out[i] = m.Row()
	}
	return out
}

func toTableRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

func newTable(team domain.Team) table.Writer {
	tw := table.NewWriter()
	tw.Style().Format.Header = text.FormatDefault
	tw.AppendHeader(toTableRow(domain.Fields))
	for _, row := range rows(team) {
		tw.AppendRow(toTableRow(row))
	}
	return tw
}

// Write renders the team's matches in the fixed field order. Absent optional
// values render as empty cells.
func Write(w io.Writer, format Format, team domain.Team) error {
	var rendered string
	switch format {
	case FormatCSV:
		rendered = newTable(team).RenderCSV()
	case FormatTable:
		tw := newTable(team)
		tw.SetTitle(team.Name)
		rendered = tw.Render()
	case FormatMarkdown:
		rendered = newTable(team).RenderMarkdown()
	case FormatJSON:
		raw, err := sonic.ConfigStd.MarshalIndent(document{
			Team:   team.Name,
			ID:     team.ID,
			Fields: domain.Fields,
			Rows:   rows(team),
		}, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encode json")
		}
		rendered = string(raw)
	default:
		return errors.Newf("unknown output format %q", format)
	}

	if _, err := io.WriteString(w, rendered+"\n"); err != nil {
		return errors.Wrap(err, "write output")
	}
	return nil
}
