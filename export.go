package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/andareed/siftly-labeler/clipboard"
	"github.com/andareed/siftly-labeler/dialogs"
	"github.com/andareed/siftly-labeler/logging"
	"github.com/andareed/siftly-labeler/views"
)

func defaultExportName(limit int) string {
	return fmt.Sprintf("window-%d-%s.csv", limit, time.Now().Format("20060102-150405"))
}

// writeWindowCSV writes rows in display order with a trailing selected
// column.
func writeWindowCSV(out io.Writer, rows []views.Row) error {
	w := csv.NewWriter(out)

	header := make([]string, 0, len(views.Columns)+1)
	for _, c := range views.Columns {
		header = append(header, strings.ToLower(c.Title()))
	}
	header = append(header, "selected")
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range rows {
		rec := append(append([]string(nil), r.Cells...), strconv.FormatBool(r.Selected))
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", r.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func exportWindowToFile(path string, rows []views.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open export file: %w", err)
	}
	if err := writeWindowCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (m *model) exportWindow(path string) tea.Cmd {
	rows := append([]views.Row(nil), m.data.rows...)
	return func() tea.Msg {
		if err := exportWindowToFile(path, rows); err != nil {
			logging.Warnf("export: %v", err)
			return dialogs.ExportErrorMsg{Err: err}
		}
		logging.Infof("export: wrote %d rows to %s", len(rows), path)
		return dialogs.ExportOKMsg{Path: path}
	}
}

func (m *model) copySelectedIDs() tea.Cmd {
	ids := m.data.sel.Selected()
	if len(ids) == 0 {
		return m.startNotice("Nothing selected to copy", noticeWarn, noticeDuration)
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	if err := clipboard.Copy(strings.Join(parts, ",")); err != nil {
		return m.startNotice(fmt.Sprintf("Copy failed: %v", err), noticeError, noticeDuration)
	}
	return m.startNotice(fmt.Sprintf("Copied %d ids", len(ids)), noticeSuccess, noticeDuration)
}
