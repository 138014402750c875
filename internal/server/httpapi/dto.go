package httpapi

import (
	"time"

	"github.com/mlodewijk/modcat/internal/server/models"
)

// Request bodies.

type registerRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateEmailRequest struct {
	Email string `json:"email"`
}

type addFavoriteRequest struct {
	ModuleID    string `json:"module_id"`
	ModuleName  string `json:"module_name"`
	StudyCredit int    `json:"studycredit"`
	Location    string `json:"location"`
}

// toFavorite builds the snapshot to store; AddedAt is stamped by the service.
func (r addFavoriteRequest) toFavorite() models.Favorite {
	return models.Favorite{
		ModuleID:    r.ModuleID,
		ModuleName:  r.ModuleName,
		StudyCredit: r.StudyCredit,
		Location:    r.Location,
	}
}

// Response bodies. The password hash never appears in any of them.

// authUser is the slim user object returned from register and login.
type authUser struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
}

type authResponse struct {
	AccessToken string   `json:"access_token"`
	User        authUser `json:"user"`
}

// userResponse is the full user object returned from profile and mutations.
type userResponse struct {
	Firstname string            `json:"firstname"`
	Lastname  string            `json:"lastname"`
	Email     string            `json:"email"`
	Favorites []models.Favorite `json:"favorites"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toAuthResponse(token string, u *models.User) authResponse {
	return authResponse{
		AccessToken: token,
		User:        authUser{Firstname: u.Firstname, Lastname: u.Lastname, Email: u.Email},
	}
}

func toUserResponse(u *models.User) userResponse {
	favs := u.Favorites
	if favs == nil {
		favs = []models.Favorite{}
	}
	return userResponse{
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Email:     u.Email,
		Favorites: favs,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
