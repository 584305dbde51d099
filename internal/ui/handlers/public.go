package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/infinity-booking/provider-ui/internal/ui/routes"
	"github.com/infinity-booking/provider-ui/internal/ui/types"
)

type providersView struct {
	Search    string
	Providers []types.Provider
}

// ProvidersPage lists the providers registered with the booking API, optionally filtered by the search query parameter
func (h *HandlerService) ProvidersPage(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	data := h.pageData(r, routes.Providers)

	providers, err := h.ApiClient.ListProviders(r.Context(), search)
	if err != nil {
		msg, done := h.apiFailure(w, r, err, "Failed to fetch providers")
		if done {
			return
		}
		data.Error = msg
	}

	data.Data = providersView{Search: search, Providers: providers}
	h.render(w, r, "providers", data)
}

func (h *HandlerService) HandleContactPost(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, routes.Contact)
	data.Form = formValues(r, "name", "email", "subject", "message")

	input := types.ContactInput{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Email:   strings.TrimSpace(r.FormValue("email")),
		Subject: strings.TrimSpace(r.FormValue("subject")),
		Message: strings.TrimSpace(r.FormValue("message")),
	}
	if input.Name == "" || input.Email == "" || input.Message == "" {
		data.Error = "Please fill in your name, email and message."
		h.render(w, r, "contact", data)
		return
	}

	if err := h.ApiClient.SendContact(r.Context(), input); err != nil {
		msg, done := h.apiFailure(w, r, err, "Failed to send contact message")
		if done {
			return
		}
		data.Error = msg
		h.render(w, r, "contact", data)
		return
	}

	h.redirect(w, r, routes.Contact, "contact-sent")
}

func (h *HandlerService) HandleFeedbackPost(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, routes.Feedback)
	data.Form = formValues(r, "name", "email", "message")

	rating, err := strconv.Atoi(r.FormValue("rating"))
	if err != nil || rating < 1 || rating > 5 {
		data.Error = "Please choose a rating between 1 and 5."
		h.render(w, r, "feedback", data)
		return
	}

	input := types.FeedbackInput{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Email:   strings.TrimSpace(r.FormValue("email")),
		Rating:  rating,
		Message: strings.TrimSpace(r.FormValue("message")),
	}
	if input.Message == "" {
		data.Error = "Please enter your feedback."
		h.render(w, r, "feedback", data)
		return
	}

	if err := h.ApiClient.SubmitFeedback(r.Context(), input); err != nil {
		msg, done := h.apiFailure(w, r, err, "Failed to submit feedback")
		if done {
			return
		}
		data.Error = msg
		h.render(w, r, "feedback", data)
		return
	}

	h.redirect(w, r, routes.Feedback, "feedback-sent")
}
