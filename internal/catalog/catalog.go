// Package catalog caches the ingredient list served by the backend.
package catalog

import (
	"context"
	"fmt"

	"stellarburger/internal/async"
	"stellarburger/internal/models"
)

// FallbackError is recorded when a catalog fetch fails without a message
const FallbackError = "failed to load ingredients"

// State is the cached catalog
type State struct {
	Ingredients []models.Ingredient
	IsLoading   bool
	Error       string
}

// Initial returns the empty catalog.
func Initial() State {
	return State{Ingredients: []models.Ingredient{}}
}

// Action is a change to the catalog
type Action interface {
	ActionName() string
	catalogAction()
}

// FetchCatalog is one phase of a catalog fetch
type FetchCatalog struct {
	Result async.Result[[]models.Ingredient]
}

// ActionName includes the phase so that logs and metrics tell them apart
func (a FetchCatalog) ActionName() string { return "catalog/fetch/" + a.Result.Phase.String() }

func (FetchCatalog) catalogAction() {}

// Reduce applies a to s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case FetchCatalog:
		switch a.Result.Phase {
		case async.Pending:
			s.IsLoading = true
			s.Error = ""
		case async.Succeeded:
			s.Ingredients = a.Result.Payload
			s.IsLoading = false
		case async.Failed:
			s.IsLoading = false
			s.Error = a.Result.ReasonOr(FallbackError)
		}
		return s
	}
	panic(fmt.Sprintf("catalog: unhandled action %T", a))
}

// API is the part of the backend client the catalog needs
type API interface {
	FetchCatalog(ctx context.Context) ([]models.Ingredient, error)
}

// Fetch loads the full ingredient list.
func Fetch(ctx context.Context, api API) ([]models.Ingredient, error) {
	ingredients, err := api.FetchCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if ingredients == nil {
		ingredients = []models.Ingredient{}
	}
	return ingredients, nil
}

// ByID finds a cached ingredient.
func ByID(s State, id string) (models.Ingredient, bool) {
	for _, ing := range s.Ingredients {
		if ing.ID == id {
			return ing, true
		}
	}
	return models.Ingredient{}, false
}

// ByType returns the cached ingredients of type t in catalog order.
func ByType(s State, t models.IngredientType) []models.Ingredient {
	var out []models.Ingredient
	for _, ing := range s.Ingredients {
		if ing.Type == t {
			out = append(out, ing)
		}
	}
	return out
}
