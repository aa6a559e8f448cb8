package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/RezaEskandarii/jobconsole/internal/models"
	"github.com/RezaEskandarii/jobconsole/internal/state"
)

// parseListParams reads the job table query string:
// page, page_size, sort=field:asc|desc (repeatable), name, username, app_name,
// status (repeatable) and enable=true|false.
func parseListParams(q url.Values) (models.ListParams, []string) {
	p := models.ListParams{
		Page:     atoiOr(q.Get("page"), 1),
		PageSize: atoiOr(q.Get("page_size"), 0),
	}

	for _, raw := range q["sort"] {
		field, dir, _ := strings.Cut(raw, ":")
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		p.Sort = append(p.Sort, models.SortField{Field: field, Desc: strings.EqualFold(dir, "desc")})
	}

	p.Filters.Name = q.Get("name")
	p.Filters.Username = q.Get("username")
	p.Filters.AppName = q.Get("app_name")

	statuses, unknown := state.ParseStatuses(q["status"])
	p.Filters.Status = statuses

	// Blank means the operator picked neither option.
	if b, err := strconv.ParseBool(q.Get("enable")); err == nil {
		p.Filters.Enable = &b
	}
	return p.Normalize(), unknown
}

// encodeListParams is the inverse of parseListParams.
func encodeListParams(p models.ListParams) url.Values {
	q := url.Values{}
	if p.Page > 1 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 && p.PageSize != models.DefaultPageSize {
		q.Set("page_size", strconv.Itoa(p.PageSize))
	}
	for _, s := range p.Sort {
		dir := "asc"
		if s.Desc {
			dir = "desc"
		}
		q.Add("sort", s.Field+":"+dir)
	}
	setIf(q, "name", p.Filters.Name)
	setIf(q, "username", p.Filters.Username)
	setIf(q, "app_name", p.Filters.AppName)
	for _, s := range p.Filters.Status {
		q.Add("status", s.String())
	}
	if p.Filters.Enable != nil {
		q.Set("enable", strconv.FormatBool(*p.Filters.Enable))
	}
	return q
}

func setIf(q url.Values, key, val string) {
	if val != "" {
		q.Set(key, val)
	}
}

func listURL(p models.ListParams) string {
	if enc := encodeListParams(p).Encode(); enc != "" {
		return "/cron-jobs?" + enc
	}
	return "/cron-jobs"
}

// reloadURL re-mounts the page without losing filters, sort or paging.
func reloadURL(p models.ListParams) string {
	q := encodeListParams(p)
	q.Set("reload", "1")
	return "/cron-jobs?" + q.Encode()
}

func pageURL(p models.ListParams, page int) string {
	p.Page = page
	return listURL(p)
}

// sortURL orders by field, flipping the direction when it is already the primary sort.
func sortURL(p models.ListParams, field string) string {
	desc := false
	if len(p.Sort) > 0 && p.Sort[0].Field == field {
		desc = !p.Sort[0].Desc
	}
	p.Sort = []models.SortField{{Field: field, Desc: desc}}
	p.Page = 1
	return listURL(p)
}

// filterValue is the current value of a search panel field.
func filterValue(p models.ListParams, key string) string {
	f := p.Filters
	switch key {
	case "name":
		return f.Name
	case "username":
		return f.Username
	case "app_name":
		return f.AppName
	case "status":
		if len(f.Status) > 0 {
			return f.Status[0].String()
		}
	case "enable":
		if f.Enable != nil {
			return strconv.FormatBool(*f.Enable)
		}
	}
	return ""
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}
