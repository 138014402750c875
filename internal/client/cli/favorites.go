package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mlodewijk/modcat/internal/client/models"
	"github.com/mlodewijk/modcat/internal/client/session"
)

func (a *App) ListFavorites(ctx context.Context) {
	if !a.isLoggedIn() {
		fmt.Println("Not logged in")
		return
	}

	user, err := a.session.RefreshProfile(ctx)
	if err != nil {
		log.Printf("error fetching favorites: %v", err)
		return
	}

	if len(user.Favorites) == 0 {
		fmt.Println("No favorites yet")
		return
	}

	for _, fav := range user.Favorites {
		fmt.Printf("%s  %-30s  %d EC  %s  (added %s)\n",
			fav.ModuleID, fav.ModuleName, fav.StudyCredit, fav.Location,
			fav.AddedAt.Format("2006-01-02"))
	}
}

func (a *App) AddFavorite(ctx context.Context) {
	if !a.isLoggedIn() {
		fmt.Println("Not logged in")
		return
	}

	moduleID, err := GetSimpleText(a.reader, "Enter module id", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	moduleName, err := GetSimpleText(a.reader, "Enter module name", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	studyCredit, err := GetInt(a.reader, "Enter study credits", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	location, err := GetSimpleText(a.reader, "Enter location", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	fav := models.Favorite{
		ModuleID:    moduleID,
		ModuleName:  moduleName,
		StudyCredit: studyCredit,
		Location:    location,
	}

	user, err := a.session.AddFavorite(ctx, fav)
	if err != nil {
		if errors.Is(err, session.ErrMutationInFlight) {
			log.Println("A change for this module is already in progress")
		} else {
			log.Printf("error adding favorite: %v", err)
		}
		return
	}

	log.Printf("Added %s; %d favorite(s) total", moduleID, len(user.Favorites))
}

func (a *App) RemoveFavorite(ctx context.Context, moduleID string) {
	if !a.isLoggedIn() {
		fmt.Println("Not logged in")
		return
	}

	user, err := a.session.RemoveFavorite(ctx, moduleID)
	if err != nil {
		if errors.Is(err, session.ErrMutationInFlight) {
			log.Println("A change for this module is already in progress")
		} else {
			log.Printf("error removing favorite: %v", err)
		}
		return
	}

	log.Printf("Removed %s; %d favorite(s) left", moduleID, len(user.Favorites))
}
