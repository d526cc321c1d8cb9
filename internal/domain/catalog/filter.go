// internal/domain/catalog/filter.go
package catalog

import "sort"

// bracketBounds are the price brackets each listing offers. The women page
// never had its own filter controls, so it shares the kids and handmade
// 20/35 brackets.
var bracketBounds = map[Category]Bounds{
	CategoryMen:      {Low: 100, High: 300},
	CategoryWomen:    {Low: 20, High: 35},
	CategoryKids:     {Low: 20, High: 35},
	CategoryHandmade: {Low: 20, High: 35},
}

// BoundsFor returns the bracket edges of a category
func BoundsFor(c Category) Bounds {
	return bracketBounds[c]
}

// Normalize maps unknown control values to "all" and "none"
func (q Query) Normalize() Query {
	switch q.Price {
	case PriceLow, PriceMid, PriceHigh:
	default:
		q.Price = PriceAll
	}
	switch q.Sort {
	case SortAsc, SortDesc:
	default:
		q.Sort = SortNone
	}
	return q
}

// Apply filters and sorts products without touching the input slice
func Apply(c Category, products []Product, q Query) []Product {
	q = q.Normalize()
	b := BoundsFor(c)

	out := make([]Product, 0, len(products))
	for _, p := range products {
		// Handmade never lists unpriced items
		if c == CategoryHandmade && p.Price == 0 {
			continue
		}
		if !b.contains(q.Price, p.Price) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}

	return out
}

func (b Bounds) contains(bracket PriceBracket, price float64) bool {
	switch bracket {
	case PriceLow:
		return price < b.Low
	case PriceMid:
		return price >= b.Low && price <= b.High
	case PriceHigh:
		return price > b.High
	default:
		return true
	}
}
