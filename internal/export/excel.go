// Package export renders the project snapshot into a multi-sheet xlsx
// workbook: a grouped Projects sheet with a summary block, a Filter Options
// reference sheet, and a static Instructions sheet.
package export

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/travisk/storage-dashboard-go/internal/domain"
	"github.com/travisk/storage-dashboard-go/internal/pipeline"
)

// GroupBy selects how the Projects sheet buckets its rows.
type GroupBy string

const (
	GroupByCategory GroupBy = "category"
	GroupByYear     GroupBy = "year"
)

const (
	sheetProjects     = "Projects"
	sheetFilters      = "Filter Options"
	sheetInstructions = "Instructions"
)

// headers is the fixed column schema of the Projects sheet.
var headers = []string{
	"Category", "Project Name", "Customer", "Phone", "Email",
	"Location", "Address", "Zip Code", "Project Type", "Build Size",
	"SQFT", "Quote Sent", "Reached Out", "Quote (Material)", "Quote (With Tax)",
	"Quote Accepted", "Deposit Paid", "Drawings Status", "Est. Metal Delivery",
	"Metal Production", "Metal Delivery", "Door Delivery", "Contractor Start",
	"Job Status", "Comments",
}

var columnWidths = []float64{
	20, 45, 20, 15, 25,
	15, 30, 10, 15, 12,
	10, 10, 12, 15, 15,
	15, 12, 20, 18, 18,
	15, 15, 15, 15, 40,
}

// Filename returns the export file name for the given day.
func Filename(now time.Time) string {
	return fmt.Sprintf("Storage_Materials_Export_%s.xlsx", now.UTC().Format("2006-01-02"))
}

type bucket struct {
	name     string
	projects []domain.Project
}

// BuildWorkbook produces the workbook for the given grouping. The caller
// owns the returned file and is responsible for closing it.
func BuildWorkbook(projects []domain.Project, groupBy GroupBy) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetProjects); err != nil {
		return nil, err
	}

	if err := writeProjectsSheet(f, projects, groupBy); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeFilterSheet(f, projects); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeInstructionsSheet(f); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeProjectsSheet(f *excelize.File, projects []domain.Project, groupBy GroupBy) error {
	row := 1
	setRow := func(values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetProjects, cell, &values); err != nil {
			return err
		}
		row++
		return nil
	}

	// Summary block.
	quoteSentYes, depositsPaid := 0, 0
	totalQuote := 0.0
	for i := range projects {
		if projects[i].QuoteSent {
			quoteSentYes++
		}
		if projects[i].DepositIsPaid() {
			depositsPaid++
		}
		totalQuote += projects[i].QuoteValue()
	}
	summary := [][]any{
		{"Total Projects", len(projects)},
		{"Total Quote Value", totalQuote},
		{"Quotes Sent", quoteSentYes},
		{"Quotes Not Sent", len(projects) - quoteSentYes},
		{"Deposits Paid", depositsPaid},
	}
	for _, s := range summary {
		if err := setRow(s); err != nil {
			return err
		}
	}
	row++ // blank spacer row

	headerRow := make([]any, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := setRow(headerRow); err != nil {
		return err
	}

	for _, b := range groupProjects(projects, groupBy) {
		if len(b.projects) == 0 {
			continue
		}
		groupQuote := 0.0
		for i := range b.projects {
			groupQuote += b.projects[i].QuoteValue()
		}
		groupRow := make([]any, len(headers))
		groupRow[0] = b.name
		groupRow[1] = fmt.Sprintf("%d projects", len(b.projects))
		groupRow[14] = groupQuote
		if err := setRow(groupRow); err != nil {
			return err
		}
		for i := range b.projects {
			if err := setRow(projectRow(&b.projects[i], b.name)); err != nil {
				return err
			}
		}
	}

	for i, w := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetProjects, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

// groupProjects buckets projects for the sheet. The category variant keeps
// the fixed category order with insertion order inside each bucket; the year
// variant orders years descending with projects by id descending.
func groupProjects(projects []domain.Project, groupBy GroupBy) []bucket {
	if groupBy == GroupByYear {
		byYear := make(map[int][]domain.Project)
		for i := range projects {
			y := YearForProject(&projects[i])
			byYear[y] = append(byYear[y], projects[i])
		}
		years := make([]int, 0, len(byYear))
		for y := range byYear {
			years = append(years, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(years)))

		buckets := make([]bucket, 0, len(years))
		for _, y := range years {
			group := byYear[y]
			sort.SliceStable(group, func(a, b int) bool { return group[a].ID > group[b].ID })
			buckets = append(buckets, bucket{name: strconv.Itoa(y), projects: group})
		}
		return buckets
	}

	byCat := make(map[domain.ExportCategory][]domain.Project)
	for i := range projects {
		cat := pipeline.Categorize(&projects[i])
		byCat[cat] = append(byCat[cat], projects[i])
	}
	buckets := make([]bucket, 0, len(domain.ExportCategories))
	for _, cat := range domain.ExportCategories {
		buckets = append(buckets, bucket{name: string(cat), projects: byCat[cat]})
	}
	return buckets
}

func projectRow(p *domain.Project, category string) []any {
	return []any{
		category,
		p.Name,
		str(p.Customer),
		str(p.Phone),
		str(p.Email),
		str(p.Location),
		str(p.Address),
		str(p.ZipCode),
		str(p.ProjectType),
		str(p.BuildSize),
		intOrNil(p.SquareFootage),
		yesNo(p.QuoteSent),
		yesNo(p.ReachedOut),
		floatOrNil(p.QuoteMaterialOnly),
		floatOrNil(p.QuoteWithTax),
		str(p.QuoteAcceptedDeclined),
		str(p.DepositPaid),
		str(p.EngineeredDrawingsStatus),
		str(p.EstMetalDeliveryDate),
		str(p.MetalProduction),
		str(p.MetalDelivery),
		str(p.DoorDelivery),
		str(p.ContractorStartDate),
		str(p.JobStatus),
		str(p.Comments),
	}
}

func writeFilterSheet(f *excelize.File, projects []domain.Project) error {
	if _, err := f.NewSheet(sheetFilters); err != nil {
		return err
	}

	states := make([]string, 0)
	seenState := make(map[string]bool)
	customers := make([]string, 0, 50)
	seenCustomer := make(map[string]bool)
	for i := range projects {
		if s := pipeline.StateFromName(projects[i].Name); s != "" && !seenState[s] {
			seenState[s] = true
			states = append(states, s)
		}
		if c := projects[i].Customer; c != nil && *c != "" && !seenCustomer[*c] && len(customers) < 50 {
			seenCustomer[*c] = true
			customers = append(customers, *c)
		}
	}

	if err := f.SetSheetRow(sheetFilters, "A1", &[]any{"Stage", "State", "Customer"}); err != nil {
		return err
	}
	for i, s := range domain.BoardStages {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetCellValue(sheetFilters, cell, s.Title()); err != nil {
			return err
		}
	}
	for i, s := range states {
		cell, _ := excelize.CoordinatesToCellName(2, i+2)
		if err := f.SetCellValue(sheetFilters, cell, s); err != nil {
			return err
		}
	}
	for i, c := range customers {
		cell, _ := excelize.CoordinatesToCellName(3, i+2)
		if err := f.SetCellValue(sheetFilters, cell, c); err != nil {
			return err
		}
	}

	for _, col := range []string{"A", "B", "C"} {
		if err := f.SetColWidth(sheetFilters, col, col, 25); err != nil {
			return err
		}
	}
	return nil
}

func writeInstructionsSheet(f *excelize.File) error {
	if _, err := f.NewSheet(sheetInstructions); err != nil {
		return err
	}

	lines := []string{
		"Storage Materials Export",
		"",
		"The Projects sheet starts with a summary block, followed by one",
		"header row per group and the project rows belonging to that group.",
		"",
		"To filter: select the header row, then Data > Filter. The Filter",
		"Options sheet lists the stages, states, and customers present in",
		"this export for use in dropdown filters.",
		"",
		"Empty cells mean the field was not recorded, not a zero value.",
	}
	for i, line := range lines {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetCellValue(sheetInstructions, cell, line); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheetInstructions, "A", "A", 70)
}

var yearToken = regexp.MustCompile(`\b(20\d{2})\b`)
var shortDate = regexp.MustCompile(`^\d{2}/\d{2}/(\d{2})$`)

// YearForProject assigns a project to a year bucket: an explicit year token
// in its label, then a year parsed from any of four known date fields, then
// a coarse id-range heuristic. The heuristic is a documented approximation
// carried over from the source data, not a guarantee.
func YearForProject(p *domain.Project) int {
	if p.Label != nil {
		if m := yearToken.FindString(*p.Label); m != "" {
			y, _ := strconv.Atoi(m)
			return y
		}
	}
	for _, d := range []*string{p.EstMetalDeliveryDate, p.DoorOrderSubmittedDate, p.EstDoorDeliveryDate, p.ContractorStartDate} {
		if d == nil {
			continue
		}
		if m := shortDate.FindStringSubmatch(*d); m != nil {
			yy, _ := strconv.Atoi(m[1])
			return 2000 + yy
		}
		if m := yearToken.FindString(*d); m != "" {
			y, _ := strconv.Atoi(m)
			return y
		}
	}
	switch {
	case p.ID > 300:
		return 2025
	case p.ID > 150:
		return 2024
	default:
		return 2023
	}
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func intOrNil(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func floatOrNil(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
