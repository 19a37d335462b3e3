package source

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// openWorkbook streams one sheet of an .xlsx file, one row per line, cells
// joined with the delimiter.
func openWorkbook(name string, opts Options) (*Source, error) {
	f, err := excelize.OpenFile(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			f.Close()
			return nil, fmt.Errorf("open %s: workbook has no sheets", name)
		}
		sheet = sheets[0]
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: sheet %q: %w", name, sheet, err)
	}

	delim := opts.Delimiter
	if delim == 0 {
		delim = '\t'
	}
	sep := string(delim)

	s := &Source{name: name, closers: []io.Closer{f, rows}}
	s.next = func() (string, error) {
		if !rows.Next() {
			if err := rows.Error(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		cols, err := rows.Columns()
		if err != nil {
			return "", err
		}
		return strings.Join(cols, sep), nil
	}
	return s, nil
}
