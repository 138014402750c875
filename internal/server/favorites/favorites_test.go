package favorites

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlodewijk/modcat/internal/server/models"
)

func fav(moduleID string) models.Favorite {
	return models.Favorite{
		ModuleID:    moduleID,
		AddedAt:     time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC),
		ModuleName:  "Intro",
		StudyCredit: 5,
		Location:    "Breda",
	}
}

func TestAdd_AppendsWithoutMutatingInput(t *testing.T) {
	orig := []models.Favorite{fav("m1")}

	out := Add(orig, fav("m2"))

	require.Len(t, out, 2)
	assert.Equal(t, "m1", out[0].ModuleID)
	assert.Equal(t, "m2", out[1].ModuleID)
	assert.Len(t, orig, 1, "input slice must stay untouched")
}

func TestAdd_AdmitsDuplicates(t *testing.T) {
	list := Add(nil, fav("m1"))
	list = Add(list, fav("m1"))

	require.Len(t, list, 2)
	assert.Equal(t, "m1", list[0].ModuleID)
	assert.Equal(t, "m1", list[1].ModuleID)
}

func TestRemove_DropsEveryMatch(t *testing.T) {
	list := []models.Favorite{fav("m1"), fav("m2"), fav("m1")}

	out := Remove(list, "m1")

	require.Len(t, out, 1)
	assert.Equal(t, "m2", out[0].ModuleID)
}

func TestRemove_AbsentIDIsNoop(t *testing.T) {
	list := []models.Favorite{fav("m1"), fav("m2")}

	out := Remove(list, "m3")

	assert.Equal(t, list, out)
}

func TestRemove_EmptyList(t *testing.T) {
	out := Remove(nil, "m1")
	assert.Empty(t, out)
}

func TestAddRemove_RoundTrip(t *testing.T) {
	start := []models.Favorite{fav("m1"), fav("m2")}

	out := Remove(Add(start, fav("m9")), "m9")

	assert.Equal(t, start, out)
}

func TestContains(t *testing.T) {
	list := []models.Favorite{fav("m1")}

	assert.True(t, Contains(list, "m1"))
	assert.False(t, Contains(list, "m2"))
	assert.False(t, Contains(nil, "m1"))
}
