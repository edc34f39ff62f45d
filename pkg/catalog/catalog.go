package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ErrNoTasksForTeam is returned when a team number matches no catalog rows.
// Recoverable: the caller re-prompts for a team instead of failing.
var ErrNoTasksForTeam = errors.New("no subtasks for this team")

// Subtask is one immutable row of the build plan. ID is the row's position
// in the global build order; handover adjacency is defined by that order.
type Subtask struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Team int    `json:"team"`
	Bag  string `json:"bag"`

	SubassemblyPages   []int `json:"subassembly_pages"`
	FinalAssemblyPages []int `json:"final_assembly_pages"`
}

// Catalog is the read-only view over the loaded subtask table.
type Catalog struct {
	subtasks []Subtask
}

// New builds a catalog from an in-memory plan. Positions are assigned by
// slice order, overriding any IDs already set on the rows.
func New(subtasks []Subtask) *Catalog {
	ordered := make([]Subtask, len(subtasks))
	copy(ordered, subtasks)
	for i := range ordered {
		ordered[i].ID = i
	}
	return &Catalog{subtasks: ordered}
}

// required CSV headers. "Student Group" is accepted as an alias for
// "Student Team" because older exports of the plan use it.
const (
	headerName          = "Subtask Name"
	headerTeam          = "Student Team"
	headerTeamAlias     = "Student Group"
	headerBag           = "Bag"
	headerSubassembly   = "Subassembly"
	headerFinalAssembly = "Final Assembly"
)

// Load reads the subtask table from a CSV file. Any missing header or
// malformed row is a configuration error: the caller is expected to halt.
func Load(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("catalog %s has no data rows", path)
	}

	cols, err := mapHeaders(records[0])
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	subtasks := make([]Subtask, 0, len(records)-1)
	for i, row := range records[1:] {
		sub, err := parseRow(row, cols, len(subtasks))
		if err != nil {
			return nil, fmt.Errorf("catalog %s row %d: %w", path, i+2, err)
		}
		subtasks = append(subtasks, sub)
	}

	return &Catalog{subtasks: subtasks}, nil
}

type columns struct {
	name, team, bag, subassembly, finalAssembly int
}

func mapHeaders(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}

	cols := columns{name: -1, team: -1, bag: -1, subassembly: -1, finalAssembly: -1}
	if i, ok := index[headerName]; ok {
		cols.name = i
	}
	if i, ok := index[headerTeam]; ok {
		cols.team = i
	} else if i, ok := index[headerTeamAlias]; ok {
		cols.team = i
	}
	if i, ok := index[headerBag]; ok {
		cols.bag = i
	}
	if i, ok := index[headerSubassembly]; ok {
		cols.subassembly = i
	}
	if i, ok := index[headerFinalAssembly]; ok {
		cols.finalAssembly = i
	}

	var missing []string
	if cols.name < 0 {
		missing = append(missing, headerName)
	}
	if cols.team < 0 {
		missing = append(missing, headerTeam)
	}
	if cols.bag < 0 {
		missing = append(missing, headerBag)
	}
	if cols.subassembly < 0 {
		missing = append(missing, headerSubassembly)
	}
	if cols.finalAssembly < 0 {
		missing = append(missing, headerFinalAssembly)
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseRow(row []string, cols columns, position int) (Subtask, error) {
	max := cols.name
	for _, c := range []int{cols.team, cols.bag, cols.subassembly, cols.finalAssembly} {
		if c > max {
			max = c
		}
	}
	if len(row) <= max {
		return Subtask{}, fmt.Errorf("expected at least %d columns, got %d", max+1, len(row))
	}

	name := strings.TrimSpace(row[cols.name])
	if name == "" {
		return Subtask{}, errors.New("empty subtask name")
	}

	team, err := strconv.Atoi(strings.TrimSpace(row[cols.team]))
	if err != nil {
		return Subtask{}, fmt.Errorf("invalid team number %q", row[cols.team])
	}

	subPages, err := ParsePageList(row[cols.subassembly])
	if err != nil {
		return Subtask{}, fmt.Errorf("subassembly pages: %w", err)
	}
	finalPages, err := ParsePageList(row[cols.finalAssembly])
	if err != nil {
		return Subtask{}, fmt.Errorf("final assembly pages: %w", err)
	}
	if len(finalPages) == 0 {
		return Subtask{}, errors.New("final assembly pages must not be empty")
	}

	return Subtask{
		ID:                 position,
		Name:               name,
		Team:               team,
		Bag:                strings.TrimSpace(row[cols.bag]),
		SubassemblyPages:   subPages,
		FinalAssemblyPages: finalPages,
	}, nil
}

// ParsePageList decodes the plan's list-of-integers cell encoding.
// Accepted forms: "[1, 2, 3]", "1,2,3", a bare "4", and "" or "[]" for
// an empty list. Pages must be positive.
func ParsePageList(raw string) ([]int, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	pages := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid page entry %q", p)
		}
		if n <= 0 {
			return nil, fmt.Errorf("page numbers must be positive, got %d", n)
		}
		pages = append(pages, n)
	}
	return pages, nil
}

// Len reports the number of subtasks in the global order.
func (c *Catalog) Len() int {
	return len(c.subtasks)
}

// At returns the subtask at the given global position.
func (c *Catalog) At(i int) (Subtask, bool) {
	if i < 0 || i >= len(c.subtasks) {
		return Subtask{}, false
	}
	return c.subtasks[i], true
}

// TasksForTeam returns the team's subtasks in global order.
func (c *Catalog) TasksForTeam(team int) ([]Subtask, error) {
	var tasks []Subtask
	for _, sub := range c.subtasks {
		if sub.Team == team {
			tasks = append(tasks, sub)
		}
	}
	if len(tasks) == 0 {
		return nil, ErrNoTasksForTeam
	}
	return tasks, nil
}

// Teams returns the distinct team numbers, sorted. Used by the login screen.
func (c *Catalog) Teams() []int {
	seen := make(map[int]bool)
	var teams []int
	for _, sub := range c.subtasks {
		if !seen[sub.Team] {
			seen[sub.Team] = true
			teams = append(teams, sub.Team)
		}
	}
	sort.Ints(teams)
	return teams
}
