// Package favorites holds the pure list mutations behind the favorites
// endpoints. Orchestration (load user, mutate, write the whole list back)
// lives in the services package.
package favorites

import "github.com/mlodewijk/modcat/internal/server/models"

// Add appends fav to the list and returns the result. The input slice is not
// modified. No uniqueness check is performed: two adds for the same module id
// produce two entries, and callers that want de-duplication must pre-check.
func Add(list []models.Favorite, fav models.Favorite) []models.Favorite {
	out := make([]models.Favorite, 0, len(list)+1)
	out = append(out, list...)
	out = append(out, fav)
	return out
}

// Remove drops every entry whose ModuleID equals moduleID, preserving the
// order of the remaining entries. Removing an id that is not present is a
// no-op, not an error.
func Remove(list []models.Favorite, moduleID string) []models.Favorite {
	out := make([]models.Favorite, 0, len(list))
	for _, fav := range list {
		if fav.ModuleID != moduleID {
			out = append(out, fav)
		}
	}
	return out
}

// Contains reports whether the list already holds an entry for moduleID.
// The engine itself never enforces uniqueness; this helper exists for
// callers that pre-check on their side.
func Contains(list []models.Favorite, moduleID string) bool {
	for _, fav := range list {
		if fav.ModuleID == moduleID {
			return true
		}
	}
	return false
}
