package handlers

import (
	"net/http"
	"strings"

	"github.com/infinity-booking/provider-ui/internal/ui/routes"
	"github.com/infinity-booking/provider-ui/internal/ui/types"
	"golang.org/x/sync/errgroup"
)

// statuses offered in the bookings filter, in workflow order
var bookingStatuses = []types.BookingStatus{
	types.BookingPending,
	types.BookingConfirmed,
	types.BookingCompleted,
	types.BookingCancelled,
}

// allowed status changes, a booking can only move forward in the workflow
var bookingTransitions = map[types.BookingStatus][]types.BookingStatus{
	types.BookingPending:   {types.BookingConfirmed, types.BookingCancelled},
	types.BookingConfirmed: {types.BookingCompleted, types.BookingCancelled},
}

type bookingsView struct {
	Status   string
	Statuses []types.BookingStatus
	Bookings []types.Booking
}

// BookingsPage lists the provider's bookings. The status query parameter filters the list; unknown values are ignored.
func (h *HandlerService) BookingsPage(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, routes.ProviderBookings)

	status := types.BookingStatus(r.URL.Query().Get("status"))
	if !types.ValidBookingStatuses[status] {
		status = ""
	}

	bookings, err := h.ApiClient.ListBookings(r.Context(), status)
	if err != nil {
		msg, done := h.apiFailure(w, r, err, "Failed to fetch bookings")
		if done {
			return
		}
		data.Error = msg
	}

	data.Data = bookingsView{
		Status:   string(status),
		Statuses: bookingStatuses,
		Bookings: bookings,
	}
	h.render(w, r, "bookings", data)
}

// HandleBookingStatusPost confirms, completes or cancels a booking
func (h *HandlerService) HandleBookingStatusPost(w http.ResponseWriter, r *http.Request) {
	bookingID := strings.TrimSpace(r.FormValue("booking_id"))
	current := types.BookingStatus(r.FormValue("current_status"))
	status := types.BookingStatus(r.FormValue("status"))

	data := h.pageData(r, routes.ProviderBookings)

	if bookingID == "" || !canTransition(current, status) {
		data.Error = "This booking can not be changed to " + types.FormatLabel(string(status)) + "."
		data.Data = bookingsView{Statuses: bookingStatuses}
		h.render(w, r, "bookings", data)
		return
	}

	if err := h.ApiClient.UpdateBookingStatus(r.Context(), bookingID, status); err != nil {
		msg, done := h.apiFailure(w, r, err, "Failed to update booking status")
		if done {
			return
		}
		data.Error = msg
		data.Data = bookingsView{Statuses: bookingStatuses}
		h.render(w, r, "bookings", data)
		return
	}

	h.redirect(w, r, routes.ProviderBookings, "booking-updated")
}

// canTransition reports whether a booking in status from may be moved to status to
func canTransition(from, to types.BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (h *HandlerService) EarningsPage(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, routes.ProviderEarnings)

	earnings, err := h.ApiClient.GetEarnings(r.Context())
	if err != nil {
		msg, done := h.apiFailure(w, r, err, "Failed to fetch earnings")
		if done {
			return
		}
		data.Error = msg
		h.render(w, r, "earnings", data)
		return
	}

	data.Data = earnings
	h.render(w, r, "earnings", data)
}

func (h *HandlerService) MessagesPage(w http.ResponseWriter, r *http.Request) {
	h.renderMessages(w, r, "", nil)
}

func (h *HandlerService) renderMessages(w http.ResponseWriter, r *http.Request, errMsg string, form map[string]string) {
	data := h.pageData(r, routes.ProviderMessages)
	data.Error = errMsg
	data.Form = form

	messages, err := h.ApiClient.ListMessages(r.Context())
	if err != nil {
		msg, done := h.apiFailure(w, r, err, "Failed to fetch messages")
		if done {
			return
		}
		if data.Error == "" {
			data.Error = msg
		}
	}

	data.Data = messages
	h.render(w, r, "messages", data)
}

func (h *HandlerService) HandleMessagePost(w http.ResponseWriter, r *http.Request) {
	form := formValues(r, "to", "subject", "body")

	input := types.MessageInput{
		To:      strings.TrimSpace(form["to"]),
		Subject: strings.TrimSpace(form["subject"]),
		Body:    strings.TrimSpace(form["body"]),
	}
	if input.To == "" || input.Subject == "" || input.Body == "" {
		h.renderMessages(w, r, "Please fill in all fields.", form)
		return
	}

	if err := h.ApiClient.SendMessage(r.Context(), input); err != nil {
		msg, done := h.apiFailure(w, r, err, "Failed to send message")
		if done {
			return
		}
		h.renderMessages(w, r, msg, form)
		return
	}

	h.redirect(w, r, routes.ProviderMessages, "message-sent")
}

// AnalyticsPage derives the analytics summary from the provider's bookings and reviews
func (h *HandlerService) AnalyticsPage(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, routes.ProviderAnalytics)

	var (
		bookings []types.Booking
		reviews  []types.Review
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		bookings, err = h.ApiClient.ListBookings(ctx, "")
		return err
	})
	g.Go(func() (err error) {
		reviews, err = h.ApiClient.ListReviews(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		msg, done := h.apiFailure(w, r, err, "Failed to load analytics")
		if done {
			return
		}
		data.Error = msg
		h.render(w, r, "analytics", data)
		return
	}

	summary := types.NewAnalyticsSummary(bookings, reviews)
	data.Data = &summary
	h.render(w, r, "analytics", data)
}

type reviewsView struct {
	Average float64
	Reviews []types.Review
}

func (h *HandlerService) ReviewsPage(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, routes.ProviderReviews)

	reviews, err := h.ApiClient.ListReviews(r.Context())
	if err != nil {
		msg, done := h.apiFailure(w, r, err, "Failed to fetch reviews")
		if done {
			return
		}
		data.Error = msg
		h.render(w, r, "reviews", data)
		return
	}

	data.Data = reviewsView{
		Average: types.NewAnalyticsSummary(nil, reviews).AverageRating,
		Reviews: reviews,
	}
	h.render(w, r, "reviews", data)
}
