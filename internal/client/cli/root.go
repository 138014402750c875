package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	snap := a.session.Current()
	if !snap.LoggedIn {
		return ""
	}
	return fmt.Sprintf("(%s)", snap.User.Email)
}

// Root runs the interactive command loop until EOF or "exit".
func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to the modcat CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	// Announce session transitions, e.g. a forced logout after a 401.
	events := a.session.Subscribe()
	go func() {
		for snap := range events {
			if snap.LoggedIn {
				log.Printf("Signed in as %s", snap.User.Email)
			} else {
				log.Println("Signed out")
			}
		}
	}()

	for {
		fmt.Printf("modcat %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: profile, email, (l)ist, add, remove, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, exit")
			}

		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "profile":
			a.Profile(ctx)
		case "email":
			a.UpdateEmail(ctx)
		case "l", "list":
			a.ListFavorites(ctx)
		case "add":
			a.AddFavorite(ctx)
		case "remove":
			if len(args) == 0 {
				fmt.Println("Usage: remove <module_id>")
				continue
			}
			a.RemoveFavorite(ctx, args[0])
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
