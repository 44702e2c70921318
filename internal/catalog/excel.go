package catalog

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/shokugyo/internal/models"
)

// listSeparator joins keywords and tasks inside a single spreadsheet cell.
const listSeparator = ";"

// excelColumns is the header row of a catalog sheet.
var excelColumns = []string{
	"code", "title", "description",
	"division", "division_title", "group", "group_title", "sub_group", "sub_group_title",
	"sector", "keywords", "skill_level", "tasks",
}

// readExcel reads occupations from the first sheet. The first row is a header; columns
// are located by name so their order does not matter.
func readExcel(r io.Reader) ([]models.Occupation, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return []models.Occupation{}, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"code", "title"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("sheet %q: missing %q column", sheets[0], required)
		}
	}

	occs := make([]models.Occupation, 0, len(rows)-1)
	for n, row := range rows[1:] {
		cell := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if cell("code") == "" && cell("title") == "" {
			continue
		}
		occ := models.Occupation{
			Code:          cell("code"),
			Title:         cell("title"),
			Description:   cell("description"),
			Division:      cell("division"),
			DivisionTitle: cell("division_title"),
			Group:         cell("group"),
			GroupTitle:    cell("group_title"),
			SubGroup:      cell("sub_group"),
			SubGroupTitle: cell("sub_group_title"),
			Sector:        cell("sector"),
			Keywords:      splitList(cell("keywords")),
			Tasks:         splitList(cell("tasks")),
		}
		if s := cell("skill_level"); s != "" {
			level, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid skill level %q", n+2, s)
			}
			occ.SkillLevel = level
		}
		occs = append(occs, occ)
	}
	return occs, nil
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, listSeparator) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// WriteExcel writes occs to w as a single-sheet workbook readable by FileSource.
func WriteExcel(w io.Writer, occs []models.Occupation) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(excelColumns))
	for i, c := range excelColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, occ := range occs {
		row := []interface{}{
			occ.Code, occ.Title, occ.Description,
			occ.Division, occ.DivisionTitle, occ.Group, occ.GroupTitle, occ.SubGroup, occ.SubGroupTitle,
			occ.Sector, strings.Join(occ.Keywords, listSeparator), occ.SkillLevel,
			strings.Join(occ.Tasks, listSeparator),
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
