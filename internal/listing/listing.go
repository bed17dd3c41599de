// Package listing composes filtered, sorted and paginated list queries.
//
// A listing runs two queries: the page query and a count query. Both must be
// built from the same Contains scope so that Total always describes the rows
// the page was cut from.
package listing

import (
	"math"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 200

	// DefaultSortColumn is substituted for any sort column outside the allow-list.
	DefaultSortColumn = "created_at"
)

// Request holds the raw query-string parameters of a listing endpoint.
type Request struct {
	SortBy string `query:"sortBy"`
	Order  string `query:"order"`
	Page   string `query:"page"`
	Limit  string `query:"limit"`
}

// Options is a normalised Request.
type Options struct {
	Page       int
	Limit      int
	Offset     int
	SortColumn string
	Desc       bool
}

// Normalize clamps paging values and resolves the sort column against
// sortable. Invalid input never fails: it is replaced by the defaults.
func Normalize(req Request, sortable ...string) Options {
	page := parseInt(req.Page, DefaultPage)
	if page < 1 {
		page = 1
	}

	limit := parseInt(req.Limit, DefaultLimit)
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	// Keeps (page-1)*limit from overflowing.
	if maxPage := 1 + (math.MaxInt-limit)/limit; page > maxPage {
		page = maxPage
	}

	column := DefaultSortColumn
	for _, allowed := range sortable {
		if req.SortBy == allowed {
			column = allowed
			break
		}
	}

	return Options{
		Page:       page,
		Limit:      limit,
		Offset:     (page - 1) * limit,
		SortColumn: column,
		Desc:       !strings.EqualFold(strings.TrimSpace(req.Order), "asc"),
	}
}

// parseInt mirrors a lenient integer parse: empty, malformed or zero values
// yield def.
func parseInt(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n == 0 {
		return def
	}
	return n
}

// OrderBy returns the ORDER BY clause for opts with the column qualified by table.
func (o Options) OrderBy(table string) clause.OrderByColumn {
	return clause.OrderByColumn{
		Column: clause.Column{Table: table, Name: o.SortColumn},
		Desc:   o.Desc,
	}
}

// Paginate is a scope applying opts' ordering, limit and offset.
func (o Options) Paginate(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(o.OrderBy(table)).Limit(o.Limit).Offset(o.Offset)
	}
}

// Filter is a case-insensitive substring match of Value against Column.
// Column is always a constant chosen by the repository; Value is bound.
type Filter struct {
	Column string
	Value  string
}

// likeEscaper makes LIKE wildcards in a filter value match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Contains returns the shared predicate scope. Filters with an empty value
// are skipped.
func Contains(filters ...Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, f := range filters {
			if f.Value == "" {
				continue
			}
			db = db.Where("LOWER("+f.Column+`) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(f.Value))+"%")
		}
		return db
	}
}

// Page is one page of a listing together with its pagination metadata.
type Page[T any] struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Items []T   `json:"items"`
}

// NewPage builds a Page from opts. Items is never nil.
func NewPage[T any](opts Options, total int64, items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Page: opts.Page, Limit: opts.Limit, Total: total, Items: items}
}
