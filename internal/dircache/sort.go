package dircache

import (
	"path/filepath"
	"slices"
	"strings"

	fsutil "github.com/kk-code-lab/rfm/internal/fs"
	"golang.org/x/text/cases"
)

// SortMethod is one key of the sort chain.
type SortMethod int

const (
	SortNatural SortMethod = iota
	SortLexical
	SortSize
	SortMtime
	SortExt
)

// maxSortMethods bounds the sort chain ring.
const maxSortMethods = 5

var sortMethodNames = map[SortMethod]string{
	SortNatural: "natural",
	SortLexical: "lexical",
	SortSize:    "size",
	SortMtime:   "mtime",
	SortExt:     "ext",
}

func (m SortMethod) String() string {
	if name, ok := sortMethodNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseSortMethod maps a config name onto a SortMethod.
func ParseSortMethod(name string) (SortMethod, bool) {
	for m, n := range sortMethodNames {
		if strings.EqualFold(n, name) {
			return m, true
		}
	}
	return SortNatural, false
}

// AllSortMethods lists every method in cycling order.
func AllSortMethods() []SortMethod {
	return []SortMethod{SortNatural, SortLexical, SortSize, SortMtime, SortExt}
}

// SortOptions configures Compare.
type SortOptions struct {
	DirectoriesFirst bool
	CaseSensitive    bool
	Reverse          bool
	// Methods is tried front to back; the first key that differs decides.
	Methods []SortMethod
}

// DefaultSortOptions sorts directories first, then naturally by name.
func DefaultSortOptions() SortOptions {
	return SortOptions{
		DirectoriesFirst: true,
		Methods:          []SortMethod{SortNatural},
	}
}

// Primary returns the leading sort key.
func (o SortOptions) Primary() SortMethod {
	if len(o.Methods) == 0 {
		return SortNatural
	}
	return o.Methods[0]
}

// SetMethod makes m the primary key. Earlier keys stay behind it as tie
// breakers; the oldest one falls off once the ring is full.
func (o *SortOptions) SetMethod(m SortMethod) {
	methods := make([]SortMethod, 0, maxSortMethods)
	methods = append(methods, m)
	for _, existing := range o.Methods {
		if existing == m {
			continue
		}
		methods = append(methods, existing)
	}
	if len(methods) > maxSortMethods {
		methods = methods[:maxSortMethods]
	}
	o.Methods = methods
}

// Clone returns a copy that does not share the Methods slice.
func (o SortOptions) Clone() SortOptions {
	o.Methods = slices.Clone(o.Methods)
	return o
}

// Label is a short description for the status line.
func (o SortOptions) Label() string {
	label := o.Primary().String()
	if o.Reverse {
		label += " ↓"
	}
	return label
}

// Compare orders a before b (<0), after (>0) or treats them as equal (0).
func Compare(a, b fsutil.Entry, opts SortOptions) int {
	if opts.DirectoriesFirst {
		aDir, bDir := a.IsDir(), b.IsDir()
		if aDir && !bDir {
			return -1
		}
		if !aDir && bDir {
			return 1
		}
	}

	methods := opts.Methods
	if len(methods) == 0 {
		methods = []SortMethod{SortNatural}
	}

	for _, m := range methods {
		res := compareBy(m, a, b, opts.CaseSensitive)
		if res == 0 {
			continue
		}
		if opts.Reverse {
			return -res
		}
		return res
	}
	return 0
}

// SortEntries sorts entries in place. The sort is stable so equal entries keep
// the order the directory was read in.
func SortEntries(entries []fsutil.Entry, opts SortOptions) {
	slices.SortStableFunc(entries, func(a, b fsutil.Entry) int {
		return Compare(a, b, opts)
	})
}

func compareBy(m SortMethod, a, b fsutil.Entry, caseSensitive bool) int {
	switch m {
	case SortLexical:
		an, bn := foldName(a.Name, caseSensitive), foldName(b.Name, caseSensitive)
		return strings.Compare(an, bn)
	case SortSize:
		return compareInt64(a.Meta.Size, b.Meta.Size)
	case SortMtime:
		if a.Meta.Modified.IsZero() || b.Meta.Modified.IsZero() {
			return 0
		}
		return a.Meta.Modified.Compare(b.Meta.Modified)
	case SortExt:
		ae := foldName(filepath.Ext(a.Name), caseSensitive)
		be := foldName(filepath.Ext(b.Name), caseSensitive)
		return strings.Compare(ae, be)
	default:
		return naturalCompare(foldName(a.Name, caseSensitive), foldName(b.Name, caseSensitive))
	}
}

func foldName(name string, caseSensitive bool) string {
	if caseSensitive {
		return name
	}
	return cases.Fold().String(name)
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
