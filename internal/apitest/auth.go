package apitest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Iron-Ham/fintrack/internal/models"
)

func (s *Server) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	fieldErrs := map[string][]string{}
	required := map[string]string{
		"username":         req.Username,
		"email":            req.Email,
		"password":         req.Password,
		"password_confirm": req.PasswordConfirm,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			fieldErrs[field] = []string{"This field may not be blank."}
		}
	}
	if req.Password != req.PasswordConfirm {
		fieldErrs["password"] = append(fieldErrs["password"], "Password fields didn't match.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, req.Email) {
			fieldErrs["email"] = append(fieldErrs["email"], "user with this email already exists.")
		}
		if u.Username == req.Username {
			fieldErrs["username"] = append(fieldErrs["username"], "A user with that username already exists.")
		}
	}
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, fieldErrs)
		return
	}

	u := s.addUser(models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}, req.Password)

	c.JSON(http.StatusCreated, models.AuthResponse{
		User:    u,
		Tokens:  s.issue(u.ID),
		Message: "User registered successfully!",
	})
}

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, req.Email) && u.password == req.Password {
			c.JSON(http.StatusOK, models.AuthResponse{
				User:    u.User,
				Tokens:  s.issue(u.ID),
				Message: "Login successful!",
			})
			return
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{"Invalid credentials"}})
}

func (s *Server) refreshToken(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Refresh == "" {
		c.JSON(http.StatusBadRequest, gin.H{"refresh": []string{"This field is required."}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.refresh[req.Refresh]
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Token is invalid or expired", "code": "token_not_valid"})
		return
	}
	// Rotate: the presented refresh token is spent.
	delete(s.refresh, req.Refresh)
	tokens := s.issue(userID)
	c.JSON(http.StatusOK, models.RefreshResponse{Access: tokens.Access, Refresh: tokens.Refresh})
}

func (s *Server) logout(c *gin.Context) {
	var req models.LogoutRequest
	_ = c.ShouldBindJSON(&req)

	s.mu.Lock()
	delete(s.refresh, req.RefreshToken)
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": "Logout successful!"})
}

func (s *Server) profile(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.users[currentUser(c)].User)
}

func (s *Server) updateProfile(c *gin.Context) {
	var upd models.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.users[currentUser(c)]
	if upd.Email != "" {
		for id, other := range s.users {
			if id != u.ID && strings.EqualFold(other.Email, upd.Email) {
				c.JSON(http.StatusBadRequest, gin.H{"email": []string{"user with this email already exists."}})
				return
			}
		}
		u.Email = upd.Email
	}
	if upd.Username != "" {
		u.Username = upd.Username
	}
	if upd.FirstName != "" {
		u.FirstName = upd.FirstName
	}
	if upd.LastName != "" {
		u.LastName = upd.LastName
	}
	c.JSON(http.StatusOK, u.User)
}

func (s *Server) changePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.users[currentUser(c)]
	if u.password != req.OldPassword {
		c.JSON(http.StatusBadRequest, gin.H{"old_password": []string{"Old password is incorrect."}})
		return
	}
	if req.NewPassword != req.NewPasswordConfirm {
		c.JSON(http.StatusBadRequest, gin.H{"new_password": []string{"Password fields didn't match."}})
		return
	}
	u.password = req.NewPassword
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully!"})
}
