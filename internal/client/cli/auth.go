package cli

import (
	"context"
	"errors"
	"log"

	"github.com/mlodewijk/modcat/internal/client/api"
)

func (a *App) Register(ctx context.Context) {

	firstname, err := GetSimpleText(a.reader, "Enter first name", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	lastname, err := GetSimpleText(a.reader, "Enter last name", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	password, err := GetPassword(a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if err := a.session.Register(ctx, firstname, lastname, email, password); err != nil {
		if errors.Is(err, api.ErrConflict) {
			log.Println("An account with this email already exists")
		} else {
			log.Printf("Registration unsuccessful: %s", err.Error())
		}
		return
	}

	log.Println("Registration successful")
}

func (a *App) Login(ctx context.Context) {

	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	password, err := GetPassword(a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if err := a.session.Login(ctx, email, password); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			log.Println("Invalid credentials")
		} else if errors.Is(err, api.ErrUnavailable) {
			log.Println("Server unavailable, try again later")
		} else {
			log.Printf("Login unsuccessful: %s", err.Error())
		}
		return
	}

	log.Println("Login successful")
}

// Logout drops the local session. The server keeps no session state, so
// there is nothing to call.
func (a *App) Logout(ctx context.Context) {
	if err := a.session.Logout(ctx); err != nil {
		log.Printf("error: %v", err)
	}
}
