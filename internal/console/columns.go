package console

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/RezaEskandarii/jobconsole/internal/models"
	"github.com/RezaEskandarii/jobconsole/internal/state"
)

type CellKind string

const (
	CellText  CellKind = "text"
	CellLink  CellKind = "link"
	CellTag   CellKind = "tag"
	CellBadge CellKind = "badge"
	CellTime  CellKind = "time"
)

type FilterInput string

const (
	FilterText   FilterInput = "text"
	FilterSelect FilterInput = "select"
)

const timeLayout = "2006-01-02 15:04:05"

// Cell is one rendered table cell.
type Cell struct {
	Text  string   `json:"text"`
	Color string   `json:"color,omitempty"`
	Kind  CellKind `json:"kind"`
	Href  string   `json:"href,omitempty"`
	Icon  string   `json:"icon,omitempty"`
	// Invalid marks a value with no rendering of its own; Text holds the raw value.
	Invalid bool `json:"invalid,omitempty"`
}

// EnumOption is one entry of a column's value enum, shared by cell badges and the
// filter dropdown.
type EnumOption struct {
	Value string `json:"value"`
	Badge
}

// ColumnSpec declares one table column and, when searchable, its filter field.
type ColumnSpec struct {
	Key        string       `json:"key"`
	Title      string       `json:"title"`
	Searchable bool         `json:"searchable"`
	Sortable   bool         `json:"sortable"`
	Order      int          `json:"order,omitempty"`
	Filter     FilterInput  `json:"filter,omitempty"`
	ValueEnum  []EnumOption `json:"value_enum,omitempty"`

	render func(models.Job) Cell
}

func (c ColumnSpec) Render(job models.Job) Cell {
	if c.render == nil {
		return Cell{Kind: CellText}
	}
	return c.render(job)
}

// TaskHistoryPath is where a job's execution history lives.
func TaskHistoryPath(id int64) string {
	return fmt.Sprintf("/cron-jobs/%d/tasks", id)
}

// ProjectColumns builds the job table columns, in display order, for the given app names.
func ProjectColumns(apps []string) []ColumnSpec {
	// Without an app list the App filter falls back to free text.
	appFilter := FilterText
	var appEnum []EnumOption
	if len(apps) > 0 {
		appFilter = FilterSelect
		appEnum = make([]EnumOption, 0, len(apps))
		for _, a := range apps {
			appEnum = append(appEnum, EnumOption{Value: a, Badge: Badge{Label: a}})
		}
	}

	return []ColumnSpec{
		{
			Key: "name", Title: "名称", Searchable: true, Sortable: true, Filter: FilterText,
			render: func(j models.Job) Cell {
				return Cell{Text: j.Name, Kind: CellLink, Href: TaskHistoryPath(j.ID)}
			},
		},
		{
			Key: "cron", Title: "Cron",
			render: func(j models.Job) Cell {
				return Cell{Text: j.Cron, Color: "processing", Kind: CellTag, Icon: "clock"}
			},
		},
		{
			Key: "status", Title: "状态", Searchable: true, Sortable: true, Filter: FilterSelect,
			ValueEnum: statusEnum(),
			render: func(j models.Job) Cell {
				b, ok := StatusBadge(j.Status)
				return Cell{Text: b.Label, Color: b.Color, Kind: CellBadge, Invalid: !ok}
			},
		},
		{
			Key: "username", Title: "用户", Searchable: true, Sortable: true, Filter: FilterText,
			render: func(j models.Job) Cell {
				return Cell{Text: j.Username, Kind: CellText}
			},
		},
		{
			Key: "app_name", Title: "应用", Searchable: true, Sortable: true, Order: 100,
			Filter: appFilter, ValueEnum: appEnum,
			render: func(j models.Job) Cell {
				return Cell{Text: j.AppName, Kind: CellText}
			},
		},
		{
			Key: "enable", Title: "启用", Searchable: true, Sortable: true, Order: 99,
			Filter: FilterSelect, ValueEnum: enabledEnum(),
			render: func(j models.Job) Cell {
				b := EnabledBadge(j.Enable)
				return Cell{Text: b.Label, Color: b.Color, Kind: CellTag}
			},
		},
		{
			Key: "last_executed_at", Title: "上次执行", Sortable: true,
			render: func(j models.Job) Cell {
				if j.LastExecutedAt == nil {
					return Cell{Text: "-", Kind: CellTime}
				}
				return Cell{Text: j.LastExecutedAt.Local().Format(timeLayout), Kind: CellTime}
			},
		},
	}
}

func statusEnum() []EnumOption {
	opts := make([]EnumOption, 0, len(state.AllStatuses))
	for _, s := range state.AllStatuses {
		b, _ := StatusBadge(s)
		opts = append(opts, EnumOption{Value: s.String(), Badge: b})
	}
	return opts
}

// The filter offers exactly true and false; leaving it blank means no filter.
func enabledEnum() []EnumOption {
	return []EnumOption{
		{Value: strconv.FormatBool(true), Badge: EnabledBadge(true)},
		{Value: strconv.FormatBool(false), Badge: EnabledBadge(false)},
	}
}

// SearchFields returns the searchable columns in search panel order: higher Order
// first, equal orders keep declaration order.
func SearchFields(cols []ColumnSpec) []ColumnSpec {
	fields := make([]ColumnSpec, 0, len(cols))
	for _, c := range cols {
		if c.Searchable {
			fields = append(fields, c)
		}
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Order > fields[j].Order
	})
	return fields
}

// Projector caches ProjectColumns for the current app list.
type Projector struct {
	apps *AppFilterSource

	mu      sync.Mutex
	valid   bool
	version uint64
	cols    []ColumnSpec
}

func NewProjector(apps *AppFilterSource) *Projector {
	return &Projector{apps: apps}
}

func (p *Projector) Columns() []ColumnSpec {
	v := p.apps.Version()

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.valid || p.version != v {
		p.cols = ProjectColumns(p.apps.Names())
		p.version = v
		p.valid = true
	}
	return append([]ColumnSpec(nil), p.cols...)
}
