// Package construction holds the burger being assembled by the customer: one
// bun slot and an ordered list of fillings. It performs no I/O; every change is
// a pure reduction of State by an Action.
package construction

import (
	"fmt"

	"stellarburger/internal/models"
)

// State is the in-progress burger
type State struct {
	Bun   *models.Ingredient
	Items []models.ConstructedIngredient
}

// Initial returns the empty construction.
func Initial() State {
	return State{Items: []models.ConstructedIngredient{}}
}

// Action is a change to the construction
type Action interface {
	ActionName() string
	constructionAction()
}

// SetBun replaces the bun slot
type SetBun struct {
	Ingredient models.Ingredient
}

// AddItem appends a filling. Build it with NewAddItem so that the instance id
// is minted outside the reducer.
type AddItem struct {
	Item models.ConstructedIngredient
}

// RemoveItem drops the filling with the given instance id
type RemoveItem struct {
	InstanceID string
}

// MoveItem takes the filling at From and reinserts it at To, where To indexes
// the list after the removal.
type MoveItem struct {
	From int
	To   int
}

// Reset empties the construction
type Reset struct{}

func (SetBun) ActionName() string     { return "construction/setBun" }
func (AddItem) ActionName() string    { return "construction/addItem" }
func (RemoveItem) ActionName() string { return "construction/removeItem" }
func (MoveItem) ActionName() string   { return "construction/moveItem" }
func (Reset) ActionName() string      { return "construction/reset" }

func (SetBun) constructionAction()     {}
func (AddItem) constructionAction()    {}
func (RemoveItem) constructionAction() {}
func (MoveItem) constructionAction()   {}
func (Reset) constructionAction()      {}

// NewAddItem wraps ingredient with a fresh instance id taken from src.
func NewAddItem(src IDSource, ingredient models.Ingredient) AddItem {
	return AddItem{Item: models.ConstructedIngredient{
		Ingredient: ingredient,
		InstanceID: src.NextID(),
	}}
}

// Reduce applies a to s and returns the new state. s is never modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetBun:
		bun := a.Ingredient
		return State{Bun: &bun, Items: s.Items}
	case AddItem:
		items := make([]models.ConstructedIngredient, 0, len(s.Items)+1)
		items = append(items, s.Items...)
		items = append(items, a.Item)
		return State{Bun: s.Bun, Items: items}
	case RemoveItem:
		for i, item := range s.Items {
			if item.InstanceID != a.InstanceID {
				continue
			}
			items := make([]models.ConstructedIngredient, 0, len(s.Items)-1)
			items = append(items, s.Items[:i]...)
			items = append(items, s.Items[i+1:]...)
			return State{Bun: s.Bun, Items: items}
		}
		return s
	case MoveItem:
		return State{Bun: s.Bun, Items: move(s.Items, a.From, a.To)}
	case Reset:
		return Initial()
	}
	panic(fmt.Sprintf("construction: unhandled action %T", a))
}

func move(items []models.ConstructedIngredient, from, to int) []models.ConstructedIngredient {
	if from < 0 || from >= len(items) {
		panic(fmt.Sprintf("construction: move from index %d out of range [0,%d)", from, len(items)))
	}
	// to addresses the list after removal, so it may equal len(items)-1 at most
	if to < 0 || to >= len(items) {
		panic(fmt.Sprintf("construction: move to index %d out of range [0,%d)", to, len(items)))
	}
	moved := items[from]
	rest := make([]models.ConstructedIngredient, 0, len(items))
	rest = append(rest, items[:from]...)
	rest = append(rest, items[from+1:]...)

	out := make([]models.ConstructedIngredient, 0, len(items))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	return out
}
