package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/infinity-booking/provider-ui/internal/logger"
	"github.com/infinity-booking/provider-ui/internal/ui/client"
	"github.com/infinity-booking/provider-ui/internal/ui/routes"
	"github.com/infinity-booking/provider-ui/internal/ui/session"
	"github.com/infinity-booking/provider-ui/internal/ui/templates"
)

type HandlerService struct {
	ApiClient   *client.Client
	Sessions    *session.Manager
	Templates   *templates.Renderer
	Environment string
}

const genericErrorMessage = "An error occurred. Please try again."

// notices shown after a post-redirect-get, keyed by the value of the notice query parameter.
// Only these messages can be displayed so the query string cannot inject text into a page.
var notices = map[string]string{
	"registered":      "Registration successful. You can now log in.",
	"reset-link-sent": "If the email is registered you will receive a password reset link shortly.",
	"password-reset":  "Your password has been reset. Please log in with your new password.",
	"logged-out":      "You have been logged out.",
	"session-expired": "Your session has ended. Please log in again.",
	"profile-saved":   "Your profile has been updated.",
	"password-saved":  "Your password has been changed.",
	"service-created": "Service created.",
	"slot-created":    "Time slot added.",
	"booking-updated": "Booking updated.",
	"message-sent":    "Message sent.",
	"feedback-sent":   "Thank you for your feedback.",
	"contact-sent":    "Thank you for contacting us. We will get back to you soon.",
}

// Pages returns the handlers for every named route in routes.Table
func (h *HandlerService) Pages() map[string]routes.Page {
	return map[string]routes.Page{
		routes.AuthTest: {Get: h.AuthTestPage},

		routes.Home:           {Get: h.staticPage(routes.Home, "home")},
		routes.About:          {Get: h.staticPage(routes.About, "about")},
		routes.HowItWorks:     {Get: h.staticPage(routes.HowItWorks, "how_it_works")},
		routes.HelpCenter:     {Get: h.staticPage(routes.HelpCenter, "help_center")},
		routes.PrivacyPolicy:  {Get: h.staticPage(routes.PrivacyPolicy, "privacy_policy")},
		routes.TermsOfService: {Get: h.staticPage(routes.TermsOfService, "terms_of_service")},
		routes.Contact:        {Get: h.staticPage(routes.Contact, "contact"), Post: h.HandleContactPost},
		routes.Feedback:       {Get: h.staticPage(routes.Feedback, "feedback"), Post: h.HandleFeedbackPost},
		routes.Providers:      {Get: h.ProvidersPage},

		routes.Login:          {Get: h.staticPage(routes.Login, "login"), Post: h.HandleLoginPost},
		routes.Register:       {Get: h.staticPage(routes.Register, "register"), Post: h.HandleRegisterPost},
		routes.ForgotPassword: {Get: h.staticPage(routes.ForgotPassword, "forgot_password"), Post: h.HandleForgotPasswordPost},
		routes.ResetPassword:  {Get: h.ResetPasswordPage, Post: h.HandleResetPasswordPost},
		routes.Logout:         {Post: h.HandleLogout},

		routes.ProviderHome:      {Get: h.ProviderHomePage},
		routes.ProviderProfile:   {Get: h.ProfilePage, Post: h.HandleProfilePost},
		routes.ProviderServices:  {Get: h.ServicesPage, Post: h.HandleServicePost},
		routes.ServiceDetails:    {Get: h.ServiceDetailsPage},
		routes.TimeSlots:         {Get: h.TimeSlotsPage, Post: h.HandleTimeSlotPost},
		routes.ProviderBookings:  {Get: h.BookingsPage, Post: h.HandleBookingStatusPost},
		routes.ProviderEarnings:  {Get: h.EarningsPage},
		routes.ProviderMessages:  {Get: h.MessagesPage, Post: h.HandleMessagePost},
		routes.ProviderAnalytics: {Get: h.AnalyticsPage},
		routes.ProviderReviews:   {Get: h.ReviewsPage},
		routes.ProviderSettings:  {Get: h.staticPage(routes.ProviderSettings, "settings"), Post: h.HandlePasswordPost},
	}
}

// staticPage renders a page that needs no data from the API
func (h *HandlerService) staticPage(route, page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, page, h.pageData(r, route))
	}
}

// pageData returns the data shared by every page: the environment, the route, the logged in provider and the notice (if any)
func (h *HandlerService) pageData(r *http.Request, route string) templates.PageData {
	data := templates.PageData{
		Environment: h.Environment,
		Route:       route,
		Notice:      notices[r.URL.Query().Get("notice")],
	}
	if s, ok := session.ContextSession(r.Context()); ok && s.Authenticated() {
		data.Provider = s.Provider
	}
	return data
}

func (h *HandlerService) render(w http.ResponseWriter, r *http.Request, page string, data templates.PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	component := h.Templates.Page(page, data)
	if err := component.Render(r.Context(), w); err != nil {
		reqLogger := logger.ContextRequestLogger(r.Context())
		reqLogger.Error("Failed to render page", slog.String("page", page), slog.String("error", err.Error()))
	}
}

// redirect sends the browser to the named route, optionally with a notice
func (h *HandlerService) redirect(w http.ResponseWriter, r *http.Request, target string, notice string, params ...string) {
	path := routes.URL(target, params...)
	if notice != "" {
		path += "?" + url.Values{"notice": {notice}}.Encode()
	}
	routes.Redirect(w, r, path)
}

// apiFailure logs a failed API call and returns the message to show to the provider.
//
// When the API rejects the token of a logged in provider the session is cleared and the browser is sent to the login page;
// done is then true and the caller must not write a response.
func (h *HandlerService) apiFailure(w http.ResponseWriter, r *http.Request, err error, while string) (message string, done bool) {
	reqLogger := logger.ContextRequestLogger(r.Context())
	reqLogger.Error(while, slog.String("error", err.Error()))

	ce, ok := client.AsClientError(err)
	if !ok {
		return genericErrorMessage, false
	}

	if ce.IsUnauthorized() {
		if s, ok := session.ContextSession(r.Context()); ok && s.Authenticated() {
			reqLogger.Info("provider token rejected by the API - ending session",
				slog.String("provider_id", s.Provider.ID),
			)
			h.Sessions.Clear(w)
			h.redirect(w, r, routes.Login, "session-expired")
			return "", true
		}
	}

	return ce.UserError(), false
}

// formValues returns the submitted values of the named fields so a failed form can be shown again.
// Password fields are never echoed back.
func formValues(r *http.Request, names ...string) map[string]string {
	values := make(map[string]string, len(names))
	for _, name := range names {
		values[name] = r.FormValue(name)
	}
	return values
}
