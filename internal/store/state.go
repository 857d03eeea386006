// Package store aggregates the storefront slices behind a single dispatch
// sink. Reads go through snapshots and selectors; writes go through typed
// actions.
package store

import (
	"fmt"

	"stellarburger/internal/catalog"
	"stellarburger/internal/construction"
	"stellarburger/internal/feed"
	"stellarburger/internal/orders"
	"stellarburger/internal/session"
)

// Slice names used in logs and metrics
const (
	SliceSession      = "session"
	SliceCatalog      = "catalog"
	SliceOrder        = "order"
	SliceFeed         = "feed"
	SliceConstruction = "construction"
)

// State is a snapshot of every slice
type State struct {
	Session      session.State
	Catalog      catalog.State
	Order        orders.State
	Feed         feed.State
	Construction construction.State
}

// Initial returns the state of a freshly started storefront.
func Initial() State {
	return State{
		Session:      session.Initial(),
		Catalog:      catalog.Initial(),
		Order:        orders.Initial(),
		Feed:         feed.Initial(),
		Construction: construction.Initial(),
	}
}

// Action is any slice action. Each one belongs to exactly one slice.
type Action interface {
	ActionName() string
}

// Reduce routes a to the slice that owns it.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case session.Action:
		s.Session = session.Reduce(s.Session, a)
	case catalog.Action:
		s.Catalog = catalog.Reduce(s.Catalog, a)
	case orders.Action:
		s.Order = orders.Reduce(s.Order, a)
	case feed.Action:
		s.Feed = feed.Reduce(s.Feed, a)
	case construction.Action:
		s.Construction = construction.Reduce(s.Construction, a)
	default:
		panic(fmt.Sprintf("store: action %T belongs to no slice", a))
	}
	return s
}

func sliceOf(a Action) string {
	switch a.(type) {
	case session.Action:
		return SliceSession
	case catalog.Action:
		return SliceCatalog
	case orders.Action:
		return SliceOrder
	case feed.Action:
		return SliceFeed
	case construction.Action:
		return SliceConstruction
	}
	return "unknown"
}
