package orders

import "stellarburger/internal/models"

// Line is one distinct ingredient of an order with its use count
type Line struct {
	Ingredient models.Ingredient
	Count      int
}

// Details is an order expanded against the catalog
type Details struct {
	Order models.Order
	Lines []Line
	Total int
}

// Describe expands order using lookup, keeping first-seen ingredient order.
// Ids missing from the catalog are skipped and do not count towards Total.
func Describe(order models.Order, lookup func(id string) (models.Ingredient, bool)) Details {
	d := Details{Order: order}
	index := make(map[string]int, len(order.Ingredients))
	for _, id := range order.Ingredients {
		if i, ok := index[id]; ok {
			d.Lines[i].Count++
			d.Total += d.Lines[i].Ingredient.Price
			continue
		}
		ing, ok := lookup(id)
		if !ok {
			continue
		}
		index[id] = len(d.Lines)
		d.Lines = append(d.Lines, Line{Ingredient: ing, Count: 1})
		d.Total += ing.Price
	}
	return d
}
