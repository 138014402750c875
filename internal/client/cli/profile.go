package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mlodewijk/modcat/internal/client/api"
)

func (a *App) Profile(ctx context.Context) {
	if !a.isLoggedIn() {
		fmt.Println("Not logged in")
		return
	}

	user, err := a.session.RefreshProfile(ctx)
	if err != nil {
		log.Printf("error fetching profile: %v", err)
		return
	}

	fmt.Printf("Name:      %s\n", user.FullName())
	fmt.Printf("Email:     %s\n", user.Email)
	fmt.Printf("Favorites: %d\n", len(user.Favorites))
	fmt.Printf("Member since: %s\n", user.CreatedAt.Format("2006-01-02"))
}

func (a *App) UpdateEmail(ctx context.Context) {
	if !a.isLoggedIn() {
		fmt.Println("Not logged in")
		return
	}

	email, err := GetSimpleText(a.reader, "Enter new email", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	user, err := a.session.UpdateEmail(ctx, email)
	if err != nil {
		if errors.Is(err, api.ErrConflict) {
			log.Println("This email is already in use")
		} else {
			log.Printf("error updating email: %v", err)
		}
		return
	}

	log.Printf("Email updated to %s", user.Email)
}
