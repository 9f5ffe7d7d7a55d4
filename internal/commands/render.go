package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
)

// Output formats accepted by --format.
const (
	formatText     = "text"
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

func checkFormat(format string) error {
	switch format {
	case formatText, formatMarkdown, formatJSON:
		return nil
	}
	return &ExitError{Code: 2, Err: fmt.Errorf("unknown format %q: use text, markdown or json", format)}
}

// table is a titled grid rendered as aligned text, markdown or a worksheet.
type table struct {
	title   string
	headers []string
	rows    [][]string
	footer  []string
}

func (t table) writeText(w io.Writer) error {
	if t.title != "" {
		fmt.Fprintln(w, t.title)
	}
	if len(t.rows) == 0 {
		fmt.Fprintln(w, "  (none)")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.headers, "\t")+"\t")
	for _, row := range t.rows {
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	if t.footer != nil {
		fmt.Fprintln(tw, strings.Join(t.footer, "\t")+"\t")
	}
	return tw.Flush()
}

func (t table) markdown() string {
	var b strings.Builder
	if t.title != "" {
		fmt.Fprintf(&b, "## %s\n\n", t.title)
	}
	if len(t.rows) == 0 {
		b.WriteString("_none_\n")
		return b.String()
	}
	writeRow := func(cells []string) {
		b.WriteString("| ")
		b.WriteString(strings.Join(cells, " | "))
		b.WriteString(" |\n")
	}
	writeRow(t.headers)
	sep := make([]string, len(t.headers))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)
	for _, row := range t.rows {
		writeRow(row)
	}
	if t.footer != nil {
		bold := make([]string, len(t.footer))
		for i, c := range t.footer {
			if c != "" {
				bold[i] = "**" + c + "**"
			}
		}
		writeRow(bold)
	}
	return b.String()
}

// render writes the tables in the requested format. jsonValue is used for json.
func render(w io.Writer, format string, jsonValue any, tables ...table) error {
	switch format {
	case formatJSON:
		return writeJSON(w, jsonValue)
	case formatMarkdown:
		var b strings.Builder
		for i, t := range tables {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(t.markdown())
		}
		return renderMarkdown(w, b.String())
	default:
		for i, t := range tables {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if err := t.writeText(w); err != nil {
				return err
			}
		}
		return nil
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderMarkdown styles md for the terminal, or plain when stdout is redirected.
func renderMarkdown(w io.Writer, md string) error {
	style := styles.NoTTYStyle
	if stdoutIsTerminal() {
		style = styles.AutoStyle
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// moneyOrBlank leaves zero debit/credit cells empty.
func moneyOrBlank(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}

func dateString(t time.Time) string {
	return t.Format("2006-01-02")
}

func trialBalanceTable(tb *domain.TrialBalance) table {
	title := "Trial balance"
	if tb.AsOf != nil {
		title += " as of " + tb.AsOf.String()
	}
	t := table{
		title:   title,
		headers: []string{"CODE", "SUBJECT", "CATEGORY", "DEBIT", "CREDIT", "NET"},
	}
	for _, r := range tb.Rows {
		t.rows = append(t.rows, []string{
			r.SubjectCode.String(), r.Subject, string(r.Category),
			moneyOrBlank(r.Debit), moneyOrBlank(r.Credit), money(r.Net),
		})
	}
	t.footer = []string{"", "TOTAL", "", money(tb.TotalDebit), money(tb.TotalCredit), money(tb.TotalDebit.Sub(tb.TotalCredit))}
	return t
}

func validationTable(report *domain.ValidationReport) table {
	t := table{
		title:   report.Message,
		headers: []string{"DATE", "SET", "LEGS", "BALANCE", "REMARKS", "ENTRIES"},
	}
	for _, u := range report.Unbalanced {
		t.rows = append(t.rows, []string{
			dateString(u.Date), u.SetID, fmt.Sprint(u.EntryCount), money(u.Balance),
			strings.Join(u.DistinctRemarks, "; "), u.RenderedLegs,
		})
	}
	return t
}

func renderValidation(w io.Writer, report *domain.ValidationReport) error {
	if report.Balanced {
		fmt.Fprintln(w, report.Message)
		return nil
	}
	return validationTable(report).writeText(w)
}

func entriesTable(title string, entries []domain.Entry) table {
	t := table{
		title:   title,
		headers: []string{"DATE", "SET", "ENTRY", "CODE", "SUBJECT", "AMOUNT", "KIND", "REMARKS"},
	}
	for _, e := range entries {
		t.rows = append(t.rows, []string{
			dateString(e.Date), e.SetID, e.EntryID, e.SubjectCode.String(), e.Subject,
			money(e.Amount), string(e.Kind), e.Remarks,
		})
	}
	return t
}

// writeTrialBalanceXLSX exports the trial balance as a one-sheet workbook.
func writeTrialBalanceXLSX(path string, tb *domain.TrialBalance) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Trial Balance"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	t := trialBalanceTable(tb)
	header := make([]interface{}, len(t.headers))
	for i, h := range t.headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := 2
	for _, r := range tb.Rows {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := []interface{}{
			int(r.SubjectCode), r.Subject, string(r.Category),
			r.Debit.InexactFloat64(), r.Credit.InexactFloat64(), r.Net.InexactFloat64(),
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", row, err)
		}
		row++
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	totals := []interface{}{
		nil, "TOTAL", nil,
		tb.TotalDebit.InexactFloat64(), tb.TotalCredit.InexactFloat64(), tb.TotalDebit.Sub(tb.TotalCredit).InexactFloat64(),
	}
	if err := f.SetSheetRow(sheet, cell, &totals); err != nil {
		return fmt.Errorf("writing totals: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(6, row)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "D2", last, style); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 28); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
