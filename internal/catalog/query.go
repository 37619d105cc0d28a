package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/suvai/freshmart-backend/pkg/enums"
	pkgerrors "github.com/suvai/freshmart-backend/pkg/errors"
)

// CategoryAll disables category filtering.
const CategoryAll = "all"

// Query describes one storefront view of the catalog. Search narrows first,
// category narrows the search result, sort orders what is left.
type Query struct {
	Search   string        `json:"search"`
	Category string        `json:"category"`
	Sort     enums.SortKey `json:"sort"`
}

func (q Query) normalized() Query {
	q.Search = strings.TrimSpace(q.Search)
	if q.Category == "" {
		q.Category = CategoryAll
	}
	if q.Sort == "" {
		q.Sort = enums.SortKeyName
	}
	return q
}

// View is a filtered, sorted snapshot of the catalog. The echoed query keeps
// an empty match distinguishable from a view nobody has searched yet.
type View struct {
	Query    Query     `json:"query"`
	Products []Product `json:"products"`
}

// Empty reports whether the query matched nothing.
func (v View) Empty() bool {
	return len(v.Products) == 0
}

// Filter derives a view of the catalog without mutating it.
func (c Catalog) Filter(q Query) (View, error) {
	q = q.normalized()

	if q.Category != CategoryAll {
		if _, err := enums.ParseProductCategory(q.Category); err != nil {
			return View{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category filter")
		}
	}
	if !q.Sort.IsValid() {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort key")
	}

	needle := strings.ToLower(q.Search)

	matched := make([]Product, 0, len(c))
	for _, p := range c {
		if needle != "" && !matchesSearch(p, needle) {
			continue
		}
		if q.Category != CategoryAll && string(p.Category) != q.Category {
			continue
		}
		matched = append(matched, p)
	}

	sortProducts(matched, q.Sort)

	return View{Query: q, Products: matched}, nil
}

func matchesSearch(p Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(string(p.Category)), needle)
}

func sortProducts(products []Product, key enums.SortKey) {
	switch key {
	case enums.SortKeyName:
		coll := collate.New(language.AmericanEnglish, collate.IgnoreCase)
		sort.SliceStable(products, func(i, j int) bool {
			return coll.CompareString(products[i].Name, products[j].Name) < 0
		})
	case enums.SortKeyPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.LessThan(products[j].Price)
		})
	case enums.SortKeyPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.GreaterThan(products[j].Price)
		})
	}
}
