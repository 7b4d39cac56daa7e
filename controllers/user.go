package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"mobistore/errs"
	"mobistore/models"
	"mobistore/store"
	"mobistore/utils"
)

// UserController handles registration and login.
type UserController struct {
	users     *store.Users
	jwtSecret []byte
	log       *zap.Logger
}

func NewUserController(users *store.Users, jwtSecret []byte, log *zap.Logger) *UserController {
	return &UserController{users: users, jwtSecret: jwtSecret, log: log}
}

// Register creates a new account with the "user" role.
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Phone     string `json:"phone"`
		Address   string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.Error(w, errs.Validation("invalid request body"))
		return
	}
	if body.Username == "" || body.Email == "" || body.Password == "" {
		utils.Error(w, errs.Validation("username, email and password are required"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.Error(w, errs.Internal("failed to create user", err))
		return
	}

	user := &models.User{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Username:  body.Username,
		Email:     strings.ToLower(body.Email),
		Phone:     body.Phone,
		Password:  string(hashed),
		Role:      models.RoleUser,
		Address:   body.Address,
		CreatedAt: time.Now().UTC(),
	}

	_, err = uc.users.Insert(r.Context(), user)
	if errors.Is(err, store.ErrDuplicate) {
		utils.Error(w, errs.Conflict("email already registered"))
		return
	}
	if err != nil {
		uc.log.Error("register failed", zap.Error(err))
		utils.Error(w, errs.Internal("failed to create user", err))
		return
	}

	utils.Msg(w, http.StatusCreated, "User Created")
}

// Login verifies credentials and issues a token carrying {id, role}.
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.Error(w, errs.Validation("invalid request body"))
		return
	}

	user, err := uc.users.FindByEmail(r.Context(), strings.ToLower(creds.Email))
	if errors.Is(err, store.ErrNotFound) {
		utils.Error(w, errs.NotFound("user not found"))
		return
	}
	if err != nil {
		uc.log.Error("login failed", zap.Error(err))
		utils.Error(w, errs.Internal("login failed", err))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		utils.Error(w, errs.Auth("wrong password"))
		return
	}

	token, err := utils.GenerateToken(uc.jwtSecret, user.ID.Hex(), user.Role)
	if err != nil {
		utils.Error(w, errs.Internal("login failed", err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"role":  user.Role,
		"user": map[string]string{
			"_id":       user.ID.Hex(),
			"firstName": user.FirstName,
			"lastName":  user.LastName,
			"email":     user.Email,
			"phone":     user.Phone,
			"username":  user.Username,
		},
	})
}

// GoogleLogin creates or returns an OAuth account and issues a token. OAuth
// users get an unusable random password.
func (uc *UserController) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.Error(w, errs.Validation("invalid request body"))
		return
	}
	if body.Email == "" {
		utils.Error(w, errs.Validation("email required"))
		return
	}
	email := strings.ToLower(body.Email)

	user, err := uc.users.FindByEmail(r.Context(), email)
	if errors.Is(err, store.ErrNotFound) {
		user, err = uc.createOAuthUser(r, email, body.Username)
	}
	if err != nil {
		uc.log.Error("google login failed", zap.Error(err))
		utils.Error(w, errs.Internal("login failed", err))
		return
	}

	token, err := utils.GenerateToken(uc.jwtSecret, user.ID.Hex(), user.Role)
	if err != nil {
		utils.Error(w, errs.Internal("login failed", err))
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"token": token, "role": user.Role})
}

func (uc *UserController) createOAuthUser(r *http.Request, email, username string) (*models.User, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(raw)), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if username == "" {
		username = strings.Split(email, "@")[0]
	}
	user := &models.User{
		Username:  username,
		Email:     email,
		Password:  string(hashed),
		Role:      models.RoleUser,
		CreatedAt: time.Now().UTC(),
	}

	id, err := uc.users.Insert(r.Context(), user)
	if errors.Is(err, store.ErrDuplicate) {
		// Concurrent first login with the same email; use the winner.
		return uc.users.FindByEmail(r.Context(), email)
	}
	if err != nil {
		return nil, err
	}
	user.ID = id
	return user, nil
}
