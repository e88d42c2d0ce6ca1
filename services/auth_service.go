package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/techagentng/greenloop/config"
	"github.com/techagentng/greenloop/db"
	apiError "github.com/techagentng/greenloop/errors"
	"github.com/techagentng/greenloop/mailingservices"
	"github.com/techagentng/greenloop/models"
	"github.com/techagentng/greenloop/services/jwt"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// AuthService handles signup, login and the identity-provider flow.
type AuthService interface {
	SignupUser(user *models.User) (*models.User, error)
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	GoogleLoginUser(ctx context.Context, code string) (*models.LoginResponse, *apiError.Error)
	GoogleAuthURL(state string) string
	GetUserProfile(userID uint) (*models.User, error)
	SendEmailForPasswordReset(forgot *models.ForgotPassword) *apiError.Error
	ResetPassword(reset *models.ResetPassword, token string) *apiError.Error
}

type authService struct {
	Config   *config.Config
	authRepo db.AuthRepository
	mail     *mailingservices.Mailgun
	oauth    *oauth2.Config
}

// NewAuthService instantiates an authService. The OAuth client is built
// once here and injected, never held as package state.
func NewAuthService(authRepo db.AuthRepository, mail *mailingservices.Mailgun, conf *config.Config) AuthService {
	return &authService{
		Config:   conf,
		authRepo: authRepo,
		mail:     mail,
		oauth: &oauth2.Config{
			ClientID:     conf.GoogleClientID,
			ClientSecret: conf.GoogleClientSecret,
			RedirectURL:  conf.GoogleRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (a *authService) SignupUser(user *models.User) (*models.User, error) {
	if err := models.ConformInput(user); err != nil {
		log.Warnf("error conforming signup input: %v", err)
	}
	if err := a.authRepo.IsEmailExist(user.Email); err != nil {
		return nil, apiError.New("email already in use", http.StatusConflict)
	}
	if err := models.ValidatePassword(user.Password); err != nil {
		return nil, apiError.ValidationError(err.Error())
	}
	if err := user.HashPassword(); err != nil {
		return nil, err
	}
	user.IsEmailActive = true

	createdUser, err := a.authRepo.CreateUser(user)
	if err != nil {
		return nil, err
	}
	createdUser.HashedPassword = ""
	return createdUser, nil
}

func (a *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	if err := models.ConformInput(loginRequest); err != nil {
		log.Warnf("error conforming login input: %v", err)
	}

	foundUser, err := a.authRepo.FindUserByEmail(loginRequest.Email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apiError.New("invalid email or password", http.StatusUnauthorized)
		}
		log.Errorf("error finding user by email: %v", err)
		return nil, apiError.New("internal server error", http.StatusInternalServerError)
	}

	if err := foundUser.VerifyPassword(loginRequest.Password); err != nil {
		return nil, apiError.New("invalid email or password", http.StatusUnauthorized)
	}

	return a.buildLoginResponse(foundUser)
}

// GoogleAuthURL returns the provider URL the client is redirected to.
func (a *authService) GoogleAuthURL(state string) string {
	return a.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GoogleLoginUser exchanges the provider code, reads the profile, and
// find-or-creates the user by email. That find-or-create is the whole
// contract with the identity provider.
func (a *authService) GoogleLoginUser(ctx context.Context, code string) (*models.LoginResponse, *apiError.Error) {
	token, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		log.Errorf("error exchanging google auth code: %v", err)
		return nil, apiError.New("could not complete google sign-in", http.StatusUnauthorized)
	}

	client := a.oauth.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		log.Errorf("error fetching google user info: %v", err)
		return nil, apiError.New("could not complete google sign-in", http.StatusUnauthorized)
	}
	defer resp.Body.Close()

	var profile struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil || profile.Email == "" {
		log.Errorf("error decoding google user info: %v", err)
		return nil, apiError.New("could not complete google sign-in", http.StatusUnauthorized)
	}

	user, err := a.authRepo.FindOrCreateSocialUser(&models.CreateSocialUserParams{
		Email:    profile.Email,
		Fullname: profile.Name,
		IsSocial: true,
	})
	if err != nil {
		log.Errorf("error creating social user: %v", err)
		return nil, apiError.New("internal server error", http.StatusInternalServerError)
	}

	return a.buildLoginResponse(user)
}

func (a *authService) buildLoginResponse(user *models.User) (*models.LoginResponse, *apiError.Error) {
	accessToken, _, err := jwt.GenerateTokenPair(user.Email, a.Config.JWTSecret, user.ID)
	if err != nil {
		log.Errorf("error generating token pair: %v", err)
		return nil, apiError.New("internal server error", http.StatusInternalServerError)
	}

	return &models.LoginResponse{
		UserResponse: models.UserResponse{
			ID:       user.ID,
			Fullname: user.Fullname,
			Username: user.Username,
			Email:    user.Email,
		},
		AccessToken: accessToken,
	}, nil
}

func (a *authService) GetUserProfile(userID uint) (*models.User, error) {
	user, err := a.authRepo.FindUserByID(userID)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

func (a *authService) SendEmailForPasswordReset(forgot *models.ForgotPassword) *apiError.Error {
	user, err := a.authRepo.FindUserByEmail(forgot.Email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apiError.New("user not found", http.StatusNotFound)
		}
		return apiError.New("internal server error", http.StatusInternalServerError)
	}

	token, err := generateResetToken()
	if err != nil {
		return apiError.New("failed to generate reset token", http.StatusInternalServerError)
	}
	if err := a.authRepo.UpdateUserResetToken(user.Email, token); err != nil {
		return apiError.New("internal server error", http.StatusInternalServerError)
	}

	resetLink := fmt.Sprintf("%s/password/reset/%s", a.Config.BaseUrl, token)
	if err := a.mail.SendResetPassword(user.Email, resetLink); err != nil {
		log.Errorf("error sending reset password mail: %v", err)
		return apiError.New("connection to mail service interrupted", http.StatusInternalServerError)
	}
	return nil
}

func (a *authService) ResetPassword(reset *models.ResetPassword, token string) *apiError.Error {
	if reset.Password != reset.ConfirmPassword {
		return apiError.New("passwords do not match", http.StatusBadRequest)
	}
	if err := models.ValidatePassword(reset.Password); err != nil {
		return apiError.New(err.Error(), http.StatusBadRequest)
	}

	user, err := a.authRepo.FindUserByResetToken(token)
	if err != nil {
		return apiError.New("invalid or expired reset token", http.StatusUnauthorized)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reset.Password), bcrypt.DefaultCost)
	if err != nil {
		return apiError.New("internal server error", http.StatusInternalServerError)
	}
	if err := a.authRepo.UpdatePassword(string(hashed), user.Email); err != nil {
		return apiError.New("internal server error", http.StatusInternalServerError)
	}
	return nil
}

func generateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
