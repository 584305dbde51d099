package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/infinity-booking/provider-ui/internal/logger"
	"github.com/infinity-booking/provider-ui/internal/ui/routes"
	"github.com/infinity-booking/provider-ui/internal/ui/session"
	"github.com/infinity-booking/provider-ui/internal/ui/types"
)

const minPasswordLength = 6

// HandleLoginPost authenticates the provider with the booking API and stores the token and provider record in the session cookies
func (h *HandlerService) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	data := h.pageData(r, routes.Login)
	data.Form = map[string]string{"email": email}

	if email == "" || password == "" {
		data.Error = "Please enter your email and password."
		h.render(w, r, "login", data)
		return
	}

	res, err := h.ApiClient.Login(r.Context(), email, password)
	if err != nil {
		msg, _ := h.apiFailure(w, r, err, "Authentication failed")
		data.Error = msg
		h.render(w, r, "login", data)
		return
	}

	if err := h.Sessions.Save(w, res.Token, res.Provider); err != nil {
		reqLogger.Error("Failed to set session cookies", slog.String("error", err.Error()))
		data.Error = genericErrorMessage
		h.render(w, r, "login", data)
		return
	}

	// Login successful - add provider log attribute to context so it is included in the final request log
	_ = logger.ContextWithLogAttrs(r.Context(),
		slog.String("provider_id", res.Provider.ID),
	)

	h.redirect(w, r, routes.ProviderHome, "")
}

// HandleRegisterPost creates a provider account and sends the provider to the login page
func (h *HandlerService) HandleRegisterPost(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, routes.Register)
	data.Form = formValues(r, "full_name", "business_name", "email", "phone")

	input := types.RegisterRequest{
		FullName:     strings.TrimSpace(r.FormValue("full_name")),
		BusinessName: strings.TrimSpace(r.FormValue("business_name")),
		Email:        strings.TrimSpace(r.FormValue("email")),
		Phone:        strings.TrimSpace(r.FormValue("phone")),
		Password:     r.FormValue("password"),
	}

	if input.FullName == "" || input.Email == "" || input.Phone == "" || input.Password == "" {
		data.Error = "Please fill in all required fields."
		h.render(w, r, "register", data)
		return
	}
	if msg := checkNewPassword(input.Password, r.FormValue("confirm_password")); msg != "" {
		data.Error = msg
		h.render(w, r, "register", data)
		return
	}

	if err := h.ApiClient.Register(r.Context(), input); err != nil {
		msg, _ := h.apiFailure(w, r, err, "Registration failed")
		data.Error = msg
		h.render(w, r, "register", data)
		return
	}

	h.redirect(w, r, routes.Login, "registered")
}

func (h *HandlerService) HandleForgotPasswordPost(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, routes.ForgotPassword)
	email := strings.TrimSpace(r.FormValue("email"))
	data.Form = map[string]string{"email": email}

	if email == "" {
		data.Error = "Please enter your email address."
		h.render(w, r, "forgot_password", data)
		return
	}

	if err := h.ApiClient.ForgotPassword(r.Context(), email); err != nil {
		msg, _ := h.apiFailure(w, r, err, "Password reset request failed")
		data.Error = msg
		h.render(w, r, "forgot_password", data)
		return
	}

	h.redirect(w, r, routes.ForgotPassword, "reset-link-sent")
}

type resetPasswordView struct {
	Token string
}

func (h *HandlerService) ResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, routes.ResetPassword)
	data.Data = resetPasswordView{Token: chi.URLParam(r, "token")}
	h.render(w, r, "reset_password", data)
}

func (h *HandlerService) HandleResetPasswordPost(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	password := r.FormValue("password")

	data := h.pageData(r, routes.ResetPassword)
	data.Data = resetPasswordView{Token: token}

	if msg := checkNewPassword(password, r.FormValue("confirm_password")); msg != "" {
		data.Error = msg
		h.render(w, r, "reset_password", data)
		return
	}

	if err := h.ApiClient.ResetPassword(r.Context(), token, password); err != nil {
		msg, _ := h.apiFailure(w, r, err, "Password reset failed")
		data.Error = msg
		h.render(w, r, "reset_password", data)
		return
	}

	h.redirect(w, r, routes.Login, "password-reset")
}

// HandleLogout ends the session. The API keeps no server side session so only the cookies are removed.
func (h *HandlerService) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w)
	h.redirect(w, r, routes.Login, "logged-out")
}

type authTestView struct {
	APIBaseURL    string
	HasToken      bool
	HasProvider   bool
	TokenStatus   string
	Authenticated bool
}

// AuthTestPage shows what the guard sees for the current request
func (h *HandlerService) AuthTestPage(w http.ResponseWriter, r *http.Request) {
	view := authTestView{
		APIBaseURL:  h.ApiClient.BaseURL(),
		TokenStatus: session.TokenMissing.String(),
	}
	if s, ok := session.ContextSession(r.Context()); ok {
		view.HasToken = s.Token != ""
		view.HasProvider = s.Provider != nil
		view.TokenStatus = s.Status.String()
		view.Authenticated = s.Authenticated()
	}

	data := h.pageData(r, routes.AuthTest)
	data.Data = view
	h.render(w, r, "auth_test", data)
}

// checkNewPassword returns a message for the provider when the new password cannot be used
func checkNewPassword(password, confirm string) string {
	switch {
	case password == "" || confirm == "":
		return "Please enter and confirm the new password."
	case len(password) < minPasswordLength:
		return "Password must be at least 6 characters long."
	case password != confirm:
		return "Passwords do not match."
	}
	return ""
}
