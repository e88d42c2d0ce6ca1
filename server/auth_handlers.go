package server

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	errs "github.com/techagentng/greenloop/errors"
	"github.com/techagentng/greenloop/models"
	"github.com/techagentng/greenloop/server/response"
)

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := c.ShouldBindJSON(&user); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ValidationError(err.Error()))
			return
		}

		createdUser, err := s.AuthService.SignupUser(&user)
		if err != nil {
			response.JSON(c, "", errs.StatusFor(err), nil, err)
			return
		}

		if s.Mail != nil && s.Mail.Client != nil {
			if err := s.Mail.SendWelcome(createdUser.Email, createdUser.Fullname); err != nil {
				log.Warnf("error sending welcome mail: %v", err)
			}
		}

		response.JSON(c, "Signup successful", http.StatusCreated, createdUser, nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest models.LoginRequest
		if err := c.ShouldBindJSON(&loginRequest); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ValidationError(err.Error()))
			return
		}

		loginResponse, apiErr := s.AuthService.LoginUser(&loginRequest)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Login successful", http.StatusOK, loginResponse, nil)
	}
}

func (s *Server) HandleGoogleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := generateOAuthState()
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("internal server error", http.StatusInternalServerError))
			return
		}
		c.SetCookie("oauth_state", state, 600, "/", "", false, true)
		c.Redirect(http.StatusTemporaryRedirect, s.AuthService.GoogleAuthURL(state))
	}
}

func (s *Server) HandleGoogleCallback() gin.HandlerFunc {
	return func(c *gin.Context) {
		storedState, err := c.Cookie("oauth_state")
		if err != nil || storedState == "" || storedState != c.Query("state") {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("invalid oauth state", http.StatusUnauthorized))
			return
		}

		code := c.Query("code")
		if code == "" {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("missing authorization code", http.StatusBadRequest))
			return
		}

		loginResponse, apiErr := s.AuthService.GoogleLoginUser(c.Request.Context(), code)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Login successful", http.StatusOK, loginResponse, nil)
	}
}

func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenCtx, ok := c.Get("access_token")
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("access token not found in context", http.StatusInternalServerError))
			return
		}
		accessToken, ok := tokenCtx.(string)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("internal server error", http.StatusInternalServerError))
			return
		}

		if err := s.AuthRepository.AddToBlackList(&models.Blacklist{Token: accessToken}); err != nil {
			response.JSON(c, "Logout failed", http.StatusInternalServerError, nil, errs.New("internal server error", http.StatusInternalServerError))
			return
		}
		response.JSON(c, "Logout successful", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("userID not found in context", http.StatusInternalServerError))
			return
		}

		user, err := s.AuthService.GetUserProfile(userID)
		if err != nil {
			response.JSON(c, "", errs.StatusFor(err), nil, err)
			return
		}
		response.JSON(c, "", http.StatusOK, user, nil)
	}
}

func (s *Server) HandleForgotPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var forgot models.ForgotPassword
		if err := c.ShouldBindJSON(&forgot); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ValidationError(err.Error()))
			return
		}

		if apiErr := s.AuthService.SendEmailForPasswordReset(&forgot); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Reset Password Link Sent Successfully", http.StatusOK, nil, nil)
	}
}

func (s *Server) ResetPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var reset models.ResetPassword
		if err := c.ShouldBindJSON(&reset); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ValidationError(err.Error()))
			return
		}

		if apiErr := s.AuthService.ResetPassword(&reset, c.Param("token")); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Password Reset Successfully", http.StatusOK, nil, nil)
	}
}

func generateOAuthState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
