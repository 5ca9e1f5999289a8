package usecase

import (
	"sort"
	"strings"

	"storefront/internal/domain/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortNone      SortKey = ""
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
)

// 知らない値は SortNone（並び替えなし）
func ParseSortKey(v string) SortKey {
	switch k := SortKey(strings.TrimSpace(strings.ToLower(v))); k {
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return k
	default:
		return SortNone
	}
}

// Catalog は商品一覧の絞り込み・並び替え。
// 名前の比較はロケールに従う。
type Catalog struct {
	lang language.Tag
}

// DI
func NewCatalog(locale string) *Catalog {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return &Catalog{lang: tag}
}

// View はフィードを変更せず、毎回新しいスライスを返す。
func (c *Catalog) View(feed []model.Product, query string, key SortKey) []model.Product {
	q := strings.ToLower(query)

	out := make([]model.Product, 0, len(feed))
	for _, p := range feed {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}

	switch key {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	case SortNameAsc, SortNameDesc:
		//collatorはgoroutine安全ではないので呼び出しごとに作る
		col := collate.New(c.lang)
		sort.SliceStable(out, func(i, j int) bool {
			cmp := col.CompareString(out[i].Name, out[j].Name)
			if key == SortNameDesc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	return out
}

// ロケール未指定の View
func View(feed []model.Product, query string, key SortKey) []model.Product {
	return NewCatalog("und").View(feed, query, key)
}
