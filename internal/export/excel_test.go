package export

import (
	"testing"
	"time"

	"github.com/travisk/storage-dashboard-go/internal/domain"
	"github.com/travisk/storage-dashboard-go/internal/pipeline"
)

func strPtr(s string) *string { return &s }

func fixtureProjects() []domain.Project {
	return []domain.Project{
		{ID: 320, Name: "Knoxville Expansion TN", Customer: strPtr("GHI Development"), DepositPaid: strPtr("Paid"), QuoteWithTax: floatPtr(412000)},
		{ID: 310, Name: "Garden Highway Self Storage CA", Label: strPtr(pipeline.LabelActiveProject), QuoteWithTax: floatPtr(524000), QuoteSent: true},
		{ID: 250, Name: "Canopy Grand Island NE", Label: strPtr(pipeline.LabelActiveBid), QuoteSent: true},
		{ID: 200, Name: "Waco Flex TX", ColorStatus: strPtr("Yellow - Quotation")},
		{ID: 120, Name: "Cedar Port BTS TX"},
	}
}

func floatPtr(f float64) *float64 { return &f }

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 4, 5, 0, time.UTC)
	got := Filename(now)
	want := "Storage_Materials_Export_2026-08-28.xlsx"
	if got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}
}

func TestBuildWorkbook_RowAccounting(t *testing.T) {
	projects := fixtureProjects()

	f, err := BuildWorkbook(projects, GroupByCategory)
	if err != nil {
		t.Fatalf("BuildWorkbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Projects")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}

	// Every project lands in exactly one bucket.
	nonEmpty := make(map[domain.ExportCategory]int)
	for i := range projects {
		nonEmpty[pipeline.Categorize(&projects[i])]++
	}
	total := 0
	for _, n := range nonEmpty {
		total += n
	}
	if total != len(projects) {
		t.Fatalf("bucketed %d projects, want %d", total, len(projects))
	}

	// 5 summary rows + 1 spacer + 1 header + one group row per non-empty
	// bucket + one row per project.
	want := 7 + len(nonEmpty) + len(projects)
	if len(rows) != want {
		t.Errorf("Projects sheet has %d rows, want %d", len(rows), want)
	}
}

func TestBuildWorkbook_HasAllSheets(t *testing.T) {
	f, err := BuildWorkbook(fixtureProjects(), GroupByCategory)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := map[string]bool{"Projects": false, "Filter Options": false, "Instructions": false}
	for _, s := range sheets {
		if _, ok := want[s]; ok {
			want[s] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing sheet %q", name)
		}
	}
}

func TestBuildWorkbook_YearGroupingOrdersIDsDescending(t *testing.T) {
	projects := fixtureProjects()

	f, err := BuildWorkbook(projects, GroupByYear)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows("Projects")
	if err != nil {
		t.Fatal(err)
	}

	// Project rows carry a year label in the Category column; inside each
	// year the names appear in descending id order.
	var lastYear string
	seen := map[string][]string{}
	for _, row := range rows[7:] {
		if len(row) < 2 || row[1] == "" || row[1] == "Project Name" {
			continue
		}
		if isGroupHeader(row[1]) {
			lastYear = row[0]
			continue
		}
		seen[lastYear] = append(seen[lastYear], row[1])
	}

	if len(seen) == 0 {
		t.Fatal("no year buckets found")
	}
	byName := map[string]int{}
	for i := range projects {
		byName[projects[i].Name] = projects[i].ID
	}
	for year, names := range seen {
		for i := 1; i < len(names); i++ {
			if byName[names[i-1]] < byName[names[i]] {
				t.Errorf("year %s: %q (id %d) before %q (id %d), want descending",
					year, names[i-1], byName[names[i-1]], names[i], byName[names[i]])
			}
		}
	}
}

func isGroupHeader(projectNameCell string) bool {
	return len(projectNameCell) > 9 && projectNameCell[len(projectNameCell)-9:] == " projects"
}

func TestYearForProject(t *testing.T) {
	tests := []struct {
		name    string
		project domain.Project
		want    int
	}{
		{"year token in label", domain.Project{ID: 10, Label: strPtr("2025 Active Bid")}, 2025},
		{"short date field", domain.Project{ID: 10, EstMetalDeliveryDate: strPtr("09/18/24")}, 2024},
		{"year token in date field", domain.Project{ID: 10, ContractorStartDate: strPtr("March 2023")}, 2023},
		{"id heuristic latest", domain.Project{ID: 305}, 2025},
		{"id heuristic middle", domain.Project{ID: 200}, 2024},
		{"id heuristic earliest", domain.Project{ID: 99}, 2023},
		{"label beats date fields", domain.Project{ID: 10, Label: strPtr("2025 New Lead"), EstMetalDeliveryDate: strPtr("09/18/24")}, 2025},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := YearForProject(&tt.project); got != tt.want {
				t.Errorf("YearForProject() = %d, want %d", got, tt.want)
			}
		})
	}
}
