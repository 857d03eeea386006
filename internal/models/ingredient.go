package models

import "fmt"

// Ingredient represents a catalog entry that can be placed in a burger
type Ingredient struct {
	ID            string         `json:"_id"`
	Name          string         `json:"name"`
	Type          IngredientType `json:"type"`
	Proteins      int            `json:"proteins"`
	Fat           int            `json:"fat"`
	Carbohydrates int            `json:"carbohydrates"`
	Calories      int            `json:"calories"`
	Price         int            `json:"price"`
	Image         string         `json:"image"`
	ImageMobile   string         `json:"image_mobile"`
	ImageLarge    string         `json:"image_large"`
}

// IngredientType represents the category of an ingredient
type IngredientType string

const (
	IngredientBun   IngredientType = "bun"
	IngredientSauce IngredientType = "sauce"
	IngredientMain  IngredientType = "main"
)

// Valid reports whether t is one of the known ingredient types
func (t IngredientType) Valid() bool {
	switch t {
	case IngredientBun, IngredientSauce, IngredientMain:
		return true
	}
	return false
}

// IsBun checks if the ingredient occupies the bun slot
func (i Ingredient) IsBun() bool {
	return i.Type == IngredientBun
}

// ValidateIngredient validates a catalog ingredient
func ValidateIngredient(item *Ingredient) error {
	if item.ID == "" {
		return fmt.Errorf("ingredient id is required")
	}
	if item.Name == "" {
		return fmt.Errorf("ingredient name is required")
	}
	if !item.Type.Valid() {
		return fmt.Errorf("ingredient %s has unknown type %q", item.ID, item.Type)
	}
	if item.Price < 0 {
		return fmt.Errorf("ingredient %s price must not be negative", item.ID)
	}
	return nil
}

// ConstructedIngredient is an ingredient placed in a construction. InstanceID
// tells apart repeated uses of the same catalog ingredient.
type ConstructedIngredient struct {
	Ingredient
	InstanceID string `json:"id"`
}
