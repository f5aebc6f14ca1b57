package api

import (
	"net/http"

	"github.com/dukerupert/bookworld/internal/domain"
	"github.com/dukerupert/bookworld/internal/handler"
	"github.com/dukerupert/bookworld/internal/middleware"
	"github.com/dukerupert/bookworld/internal/service"
)

// AuthHandler handles sign-up, sign-in and profile routes.
type AuthHandler struct {
	auth  service.AuthService
	users domain.UserService
}

func NewAuthHandler(auth service.AuthService, users domain.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type googleRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

func signedIn(w http.ResponseWriter, r *http.Request, status int, message string, res *service.AuthResult) {
	handler.JSON(w, r, status, handler.M{
		"message":   message,
		"token":     res.Token,
		"expiresAt": res.ExpiresAt,
		"user":      res.User,
	})
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterParams
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	res, err := h.auth.Register(r.Context(), req)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	signedIn(w, r, http.StatusCreated, "Registration successful", res)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	signedIn(w, r, http.StatusOK, "Login successful", res)
}

// Google handles POST /api/auth/google
func (h *AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	var req googleRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	res, err := h.auth.SignInWithGoogle(r.Context(), req.IDToken)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	signedIn(w, r, http.StatusOK, "Login successful", res)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"user": user})
}

// UpdateProfile handles PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req domain.UpdateProfileParams
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.OK(w, r, handler.M{"message": "Profile updated successfully", "user": user})
}

// UploadProfileImage handles POST /api/auth/profile/image
func (h *AuthHandler) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	upload, err := handler.ReadImage(r, "image")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	defer upload.Close()

	user, err := h.users.UploadProfileImage(r.Context(), userID, upload.Filename, upload.ContentType, upload.Body)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	middleware.GetLogger(r.Context()).Info("profile image uploaded", "size", upload.Size)
	handler.OK(w, r, handler.M{
		"message":  "Profile image uploaded successfully",
		"imageUrl": user.ProfileImage,
		"user":     user,
	})
}
