package dircache

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	fsutil "github.com/kk-code-lab/rfm/internal/fs"
	"github.com/sahilm/fuzzy"
)

// FilterKind selects how a Filter pattern is interpreted.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterSubstring
	FilterGlob
	FilterRegex
	FilterFuzzy
)

// Filter is a name predicate applied while reading a directory.
type Filter struct {
	Kind          FilterKind
	Pattern       string
	CaseSensitive bool

	re *regexp.Regexp
}

// DisplayOptions controls which children of a directory are listed.
type DisplayOptions struct {
	ShowHidden bool
	Filter     Filter
}

// ParseFilter turns a query typed by the user into a Filter:
//
//	re:<expr>   regular expression
//	~<chars>    fuzzy match
//	*.go        glob when the query contains *, ? or [
//	text        substring, case-sensitive only if the query has upper case
func ParseFilter(query string) (Filter, error) {
	switch {
	case query == "":
		return Filter{}, nil
	case strings.HasPrefix(query, "re:"):
		return NewRegexFilter(strings.TrimPrefix(query, "re:"))
	case strings.HasPrefix(query, "~") && len(query) > 1:
		return Filter{Kind: FilterFuzzy, Pattern: query[1:]}, nil
	case strings.ContainsAny(query, "*?["):
		if _, err := filepath.Match(query, ""); err != nil {
			return Filter{}, fmt.Errorf("invalid glob %q: %w", query, err)
		}
		return Filter{Kind: FilterGlob, Pattern: query, CaseSensitive: hasUpper(query)}, nil
	default:
		return Filter{Kind: FilterSubstring, Pattern: query, CaseSensitive: hasUpper(query)}, nil
	}
}

// NewRegexFilter compiles expr once so Match stays cheap.
func NewRegexFilter(expr string) (Filter, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Filter{}, fmt.Errorf("invalid regex %q: %w", expr, err)
	}
	return Filter{Kind: FilterRegex, Pattern: expr, CaseSensitive: true, re: re}, nil
}

// Active reports whether the filter hides anything.
func (f Filter) Active() bool {
	return f.Kind != FilterNone && f.Pattern != ""
}

// Match reports whether name passes the filter.
func (f Filter) Match(name string) bool {
	if !f.Active() {
		return true
	}

	switch f.Kind {
	case FilterRegex:
		if f.re == nil {
			re, err := regexp.Compile(f.Pattern)
			if err != nil {
				return false
			}
			f.re = re
		}
		return f.re.MatchString(name)
	case FilterFuzzy:
		return len(fuzzy.Find(f.Pattern, []string{name})) > 0
	case FilterGlob:
		pattern, subject := f.Pattern, name
		if !f.CaseSensitive {
			pattern, subject = strings.ToLower(pattern), strings.ToLower(subject)
		}
		ok, err := filepath.Match(pattern, subject)
		return err == nil && ok
	default:
		if f.CaseSensitive {
			return strings.Contains(name, f.Pattern)
		}
		return strings.Contains(strings.ToLower(name), strings.ToLower(f.Pattern))
	}
}

// String renders the filter back to the query syntax accepted by ParseFilter.
func (f Filter) String() string {
	switch f.Kind {
	case FilterRegex:
		return "re:" + f.Pattern
	case FilterFuzzy:
		return "~" + f.Pattern
	case FilterNone:
		return ""
	default:
		return f.Pattern
	}
}

// Visible reports whether entry survives the hidden-file rule and the filter.
func (o DisplayOptions) Visible(entry fsutil.Entry) bool {
	if !o.ShowHidden && entry.IsHidden() {
		return false
	}
	return o.Filter.Match(entry.Name)
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
