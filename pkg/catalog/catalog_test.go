package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "subtasks.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

const validCSV = `Subtask Name,Student Team,Bag,Subassembly,Final Assembly
Chassis,1,A1,"[1, 2]","[3, 4]"
Gearbox,2,B2,[],[5]
Cabin,1,C3,[6],"[7, 8]"
`

func TestLoad(t *testing.T) {
	cat, err := Load(writeCatalog(t, validCSV))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cat.Len() != 3 {
		t.Fatalf("Len = %d, want 3", cat.Len())
	}

	first, ok := cat.At(0)
	if !ok {
		t.Fatal("At(0) not found")
	}
	if first.Name != "Chassis" || first.Team != 1 || first.Bag != "A1" {
		t.Errorf("unexpected first row: %+v", first)
	}
	if !reflect.DeepEqual(first.SubassemblyPages, []int{1, 2}) {
		t.Errorf("SubassemblyPages = %v, want [1 2]", first.SubassemblyPages)
	}
	if !reflect.DeepEqual(first.FinalAssemblyPages, []int{3, 4}) {
		t.Errorf("FinalAssemblyPages = %v, want [3 4]", first.FinalAssemblyPages)
	}

	second, _ := cat.At(1)
	if len(second.SubassemblyPages) != 0 {
		t.Errorf("empty subassembly list parsed as %v", second.SubassemblyPages)
	}

	// Positions follow file order.
	for i := 0; i < cat.Len(); i++ {
		sub, _ := cat.At(i)
		if sub.ID != i {
			t.Errorf("subtask %q has ID %d at position %d", sub.Name, sub.ID, i)
		}
	}
}

func TestLoadGroupAlias(t *testing.T) {
	csv := `Subtask Name,Student Group,Bag,Subassembly,Final Assembly
Chassis,1,A1,[],[1]
`
	cat, err := Load(writeCatalog(t, csv))
	if err != nil {
		t.Fatalf("Load with Student Group header: %v", err)
	}
	sub, _ := cat.At(0)
	if sub.Team != 1 {
		t.Errorf("Team = %d, want 1", sub.Team)
	}
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			name: "missing column",
			csv:  "Subtask Name,Student Team,Bag,Subassembly\nChassis,1,A1,[]\n",
		},
		{
			name: "bad team number",
			csv:  "Subtask Name,Student Team,Bag,Subassembly,Final Assembly\nChassis,one,A1,[],[1]\n",
		},
		{
			name: "malformed page list",
			csv:  "Subtask Name,Student Team,Bag,Subassembly,Final Assembly\nChassis,1,A1,\"[1, x]\",[2]\n",
		},
		{
			name: "empty final assembly",
			csv:  "Subtask Name,Student Team,Bag,Subassembly,Final Assembly\nChassis,1,A1,[1],[]\n",
		},
		{
			name: "no data rows",
			csv:  "Subtask Name,Student Team,Bag,Subassembly,Final Assembly\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeCatalog(t, tt.csv)); err == nil {
				t.Error("Load should fail")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestParsePageList(t *testing.T) {
	tests := []struct {
		raw     string
		want    []int
		wantErr bool
	}{
		{raw: "[1, 2, 3]", want: []int{1, 2, 3}},
		{raw: "1,2", want: []int{1, 2}},
		{raw: "4", want: []int{4}},
		{raw: "[]", want: nil},
		{raw: "", want: nil},
		{raw: "  [ 9 ]  ", want: []int{9}},
		{raw: "[a]", wantErr: true},
		{raw: "[0]", wantErr: true},
		{raw: "[-1]", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParsePageList(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParsePageList(%q) should fail", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePageList(%q): %v", tt.raw, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePageList(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTasksForTeam(t *testing.T) {
	cat, err := Load(writeCatalog(t, validCSV))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tasks, err := cat.TasksForTeam(1)
	if err != nil {
		t.Fatalf("TasksForTeam(1): %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("team 1 has %d tasks, want 2", len(tasks))
	}
	// Global order preserved after filtering.
	if tasks[0].Name != "Chassis" || tasks[1].Name != "Cabin" {
		t.Errorf("unexpected order: %q, %q", tasks[0].Name, tasks[1].Name)
	}

	if _, err := cat.TasksForTeam(99); !errors.Is(err, ErrNoTasksForTeam) {
		t.Errorf("TasksForTeam(99) error = %v, want ErrNoTasksForTeam", err)
	}
}

func TestTeams(t *testing.T) {
	cat, err := Load(writeCatalog(t, validCSV))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cat.Teams(); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("Teams = %v, want [1 2]", got)
	}
}
