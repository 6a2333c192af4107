// ABOUTME: User account handlers: registration, sessions, profile, channels
// ABOUTME: Session cookies are HttpOnly and scoped to match token lifetimes

package api

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tubecast/tubecast/internal/auth"
	"github.com/tubecast/tubecast/internal/media"
	"github.com/tubecast/tubecast/internal/store"
)

// Username validation regex: starts with a letter, alphanumeric + underscores, 3-32 characters
var usernameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]{2,31}$`)

// emailRegex is a light sanity check, not a full RFC 5322 parser.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLength = 8

type userResponse struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func renderUser(u *store.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
		CreatedAt:     u.CreatedAt,
	}
}

type sessionResponse struct {
	User         userResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// setSessionCookies attaches both tokens as HttpOnly cookies so browser
// clients need not touch the tokens at all.
func (s *Server) setSessionCookies(w http.ResponseWriter, pair *auth.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessCookieName,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(s.accessTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     auth.RefreshCookieName,
		Value:    pair.RefreshToken,
		Path:     "/api/v1/users",
		MaxAge:   int(s.refreshTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: auth.AccessCookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	http.SetCookie(w, &http.Cookie{Name: auth.RefreshCookieName, Value: "", Path: "/api/v1/users", MaxAge: -1, HttpOnly: true})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

func (r *registerRequest) validate() string {
	r.Username = strings.ToLower(strings.TrimSpace(r.Username))
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FullName = strings.TrimSpace(r.FullName)

	switch {
	case !usernameRegex.MatchString(r.Username):
		return "username must be 3-32 characters, lowercase letters, digits, underscores"
	case !emailRegex.MatchString(r.Email):
		return "invalid email address"
	case r.FullName == "":
		return "full_name is required"
	case len(r.Password) < minPasswordLength:
		return "password must be at least 8 characters"
	}
	return ""
}

// handleRegister accepts a JSON body, or a multipart form when the new
// account comes with avatar/cover images attached.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	multipart := strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
	if multipart {
		req = registerRequest{
			Username: r.FormValue("username"),
			Email:    r.FormValue("email"),
			FullName: r.FormValue("full_name"),
			Password: r.FormValue("password"),
		}
	} else if err := decodeJSON(r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		s.sendJSONError(w, http.StatusBadRequest, msg)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.sendError(w, err)
		return
	}

	now := time.Now().UTC()
	user := &store.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var blobs []string
	if multipart {
		if url, err := s.saveFormImage(r, media.KindAvatar, "avatar"); err != nil {
			s.removeBlobs(blobs)
			s.sendError(w, err)
			return
		} else if url != "" {
			user.AvatarURL = url
			blobs = append(blobs, url)
		}
		if url, err := s.saveFormImage(r, media.KindCover, "cover"); err != nil {
			s.removeBlobs(blobs)
			s.sendError(w, err)
			return
		} else if url != "" {
			user.CoverImageURL = url
			blobs = append(blobs, url)
		}
	}

	if err := s.store.CreateUser(r.Context(), user); err != nil {
		s.removeBlobs(blobs)
		s.sendError(w, err)
		return
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	s.writeJSON(w, http.StatusCreated, renderUser(user))
}

// saveFormImage stores an optional multipart image field. Returns "" when
// the field is absent.
func (s *Server) saveFormImage(r *http.Request, kind media.Kind, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", nil
	}
	defer file.Close()

	blob, err := s.media.Save(r.Context(), kind, header.Filename, file)
	if err != nil {
		return "", err
	}
	return blob.URL, nil
}

// removeBlobs deletes uploads that lost their owning record.
func (s *Server) removeBlobs(urls []string) {
	for _, u := range urls {
		if err := s.media.Remove(u); err != nil {
			s.logger.Warn("failed to remove blob", "url", u, "error", err)
		}
	}
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Identifier == "" || req.Password == "" {
		s.sendJSONError(w, http.StatusBadRequest, "identifier and password are required")
		return
	}

	user, pair, err := s.authn.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		s.sendError(w, err)
		return
	}

	s.setSessionCookies(w, pair)
	s.writeJSON(w, http.StatusOK, sessionResponse{
		User:         renderUser(user.Sanitized()),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// handleRefresh accepts the refresh token from the cookie or the JSON body.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie(auth.RefreshCookieName); err == nil {
		token = c.Value
	}
	if token == "" {
		var req refreshRequest
		if err := decodeJSON(r, &req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		s.sendJSONError(w, http.StatusUnauthorized, "missing refresh token")
		return
	}

	pair, err := s.authn.Refresh(r.Context(), token)
	if err != nil {
		s.clearSessionCookies(w)
		s.sendError(w, err)
		return
	}

	s.setSessionCookies(w, pair)
	s.writeJSON(w, http.StatusOK, map[string]string{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	id := auth.MustFromContext(r.Context())
	if err := s.authn.Logout(r.Context(), id.UserID()); err != nil {
		s.sendError(w, err)
		return
	}
	s.clearSessionCookies(w)
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		s.sendJSONError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	id := auth.MustFromContext(r.Context())
	if err := s.authn.ChangePassword(r.Context(), id.UserID(), req.OldPassword, req.NewPassword); err != nil {
		s.sendError(w, err)
		return
	}
	s.clearSessionCookies(w)
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id := auth.MustFromContext(r.Context())
	s.writeJSON(w, http.StatusOK, renderUser(id.User))
}

type updateProfileRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := auth.MustFromContext(r.Context())
	user, err := s.store.GetUser(r.Context(), id.UserID())
	if err != nil {
		s.sendError(w, err)
		return
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			s.sendJSONError(w, http.StatusBadRequest, "full_name cannot be empty")
			return
		}
		user.FullName = name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if !emailRegex.MatchString(email) {
			s.sendJSONError(w, http.StatusBadRequest, "invalid email address")
			return
		}
		user.Email = email
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateUser(r.Context(), user); err != nil {
		s.sendError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, renderUser(user))
}

func (s *Server) handleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	s.updateUserImage(w, r, media.KindAvatar, "avatar")
}

func (s *Server) handleUpdateCover(w http.ResponseWriter, r *http.Request) {
	s.updateUserImage(w, r, media.KindCover, "cover")
}

// updateUserImage stores a multipart image upload and swaps the URL on the
// user record, removing the previous blob once the new one is persisted.
func (s *Server) updateUserImage(w http.ResponseWriter, r *http.Request, kind media.Kind, field string) {
	id := auth.MustFromContext(r.Context())
	user, err := s.store.GetUser(r.Context(), id.UserID())
	if err != nil {
		s.sendError(w, err)
		return
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, field+" file is required")
		return
	}
	defer file.Close()

	blob, err := s.media.Save(r.Context(), kind, header.Filename, file)
	if err != nil {
		s.sendError(w, err)
		return
	}

	oldURL := user.AvatarURL
	if kind == media.KindCover {
		oldURL = user.CoverImageURL
	}
	if kind == media.KindCover {
		user.CoverImageURL = blob.URL
	} else {
		user.AvatarURL = blob.URL
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateUser(r.Context(), user); err != nil {
		s.removeBlobs([]string{blob.URL})
		s.sendError(w, err)
		return
	}
	if oldURL != "" {
		if err := s.media.Remove(oldURL); err != nil {
			s.logger.Warn("failed to remove old image", "url", oldURL, "error", err)
		}
	}
	s.writeJSON(w, http.StatusOK, renderUser(user))
}

func (s *Server) handleWatchHistory(w http.ResponseWriter, r *http.Request) {
	id := auth.MustFromContext(r.Context())
	_, limit := parsePagination(r)

	videos, err := s.store.ListWatchHistory(r.Context(), id.UserID(), limit)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"videos": renderVideos(videos)})
}

type channelResponse struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	FullName        string `json:"full_name"`
	AvatarURL       string `json:"avatar_url,omitempty"`
	CoverImageURL   string `json:"cover_image_url,omitempty"`
	SubscriberCount int64  `json:"subscriber_count"`
	IsSubscribed    bool   `json:"is_subscribed"`
}

// handleChannelProfile is a public view of another user's channel. The
// is_subscribed flag is only meaningful for signed-in viewers.
func (s *Server) handleChannelProfile(w http.ResponseWriter, r *http.Request) {
	username := strings.ToLower(r.PathValue("username"))

	user, err := s.store.GetUserByUsername(r.Context(), username)
	if err != nil {
		s.sendError(w, err)
		return
	}

	subs, err := s.store.CountSubscribers(r.Context(), user.ID)
	if err != nil {
		s.sendError(w, err)
		return
	}

	resp := channelResponse{
		ID:              user.ID,
		Username:        user.Username,
		FullName:        user.FullName,
		AvatarURL:       user.AvatarURL,
		CoverImageURL:   user.CoverImageURL,
		SubscriberCount: subs,
	}
	if viewer := auth.FromContext(r.Context()); viewer != nil {
		subscribed, err := s.store.IsSubscribed(r.Context(), viewer.UserID(), user.ID)
		if err != nil {
			s.sendError(w, err)
			return
		}
		resp.IsSubscribed = subscribed
	}
	s.writeJSON(w, http.StatusOK, resp)
}
