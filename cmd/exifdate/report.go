package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const displayTimeLayout = "2006-01-02 15:04:05"

// printSummary writes the analysis summary block.
func printSummary(w io.Writer, stats Stats) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "EXIF DATE ANALYSIS SUMMARY")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total files analyzed: %d\n", stats.TotalFiles)
	fmt.Fprintf(w, "Image files: %d\n", stats.ImageFiles)
	fmt.Fprintf(w, "Video files: %d\n", stats.VideoFiles)
	fmt.Fprintf(w, "Files missing DateTimeOriginal: %d\n", stats.MissingOriginal)
	fmt.Fprintf(w, "Files missing DateCreated: %d\n", stats.MissingCreated)
	fmt.Fprintf(w, "Files with date suggestions: %d\n", stats.FilesWithSuggestions)
	fmt.Fprintln(w, rule)
}

// printDetailed renders a table of files with missing dates, their
// candidate pools, and the current suggestion.
func printDetailed(w io.Writer, files []*MediaFile) {
	if len(files) == 0 {
		fmt.Fprintln(w, "No files with missing dates found.")
		return
	}

	headers := []string{"File", "Size", "Missing", "Candidates", "Suggestion"}
	rows := make([][]string, 0, len(files))
	for _, mf := range files {
		rows = append(rows, []string{
			mf.Name,
			fmt.Sprintf("%d", mf.Size),
			joinFields(mf.MissingFields),
			joinCandidates(mf.Candidates),
			formatSuggestion(mf.Suggestion),
		})
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, renderTable(headers, rows))
}

// printUpdatePreview lists the dates that will be written.
func printUpdatePreview(w io.Writer, files []*MediaFile) {
	var toUpdate []*MediaFile
	for _, mf := range files {
		if mf.Suggestion != nil && len(mf.MissingFields) > 0 {
			toUpdate = append(toUpdate, mf)
		}
	}

	if len(toUpdate) == 0 {
		fmt.Fprintln(w, "No files will be updated.")
		return
	}

	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "UPDATE PREVIEW - the following dates will be written:")
	fmt.Fprintln(w, rule)
	for _, mf := range toUpdate {
		fmt.Fprintf(w, "%s: %s (from %s) -> %s\n",
			mf.Name,
			mf.Suggestion.When.Format(displayTimeLayout),
			mf.Suggestion.Source,
			joinFields(mf.MissingFields))
	}
	fmt.Fprintf(w, "Total files to update: %d\n", len(toUpdate))
}

// confirmUpdate prompts until the user answers yes or no.
func confirmUpdate(in io.Reader, out io.Writer) bool {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nProceed with updating EXIF dates? (y/n): ")
		if !scanner.Scan() {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		fmt.Fprintln(out, "Please enter 'y' or 'n'")
	}
}

func joinFields(fields []DateField) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.String()
	}
	return strings.Join(parts, ", ")
}

func joinCandidates(pool []DateCandidate) string {
	parts := make([]string, len(pool))
	for i, c := range pool {
		parts[i] = fmt.Sprintf("%s (%s)", c.When.Format(displayTimeLayout), c.Source)
	}
	return strings.Join(parts, "\n")
}

func formatSuggestion(s *DateCandidate) string {
	if s == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", s.When.Format(displayTimeLayout), s.Source)
}

func renderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}
