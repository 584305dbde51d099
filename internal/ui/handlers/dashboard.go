package handlers

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/infinity-booking/provider-ui/internal/logger"
	"github.com/infinity-booking/provider-ui/internal/ui/routes"
	"github.com/infinity-booking/provider-ui/internal/ui/session"
	"github.com/infinity-booking/provider-ui/internal/ui/types"
	"golang.org/x/sync/errgroup"
)

const upcomingBookingsLimit = 5

type providerHomeView struct {
	ServiceCount int
	PendingCount int
	Upcoming     []types.Booking
	Earnings     *types.EarningsSummary
}

// ProviderHomePage shows the dashboard summary. The services, bookings and earnings are fetched concurrently.
func (h *HandlerService) ProviderHomePage(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, routes.ProviderHome)

	var (
		services []types.Service
		bookings []types.Booking
		earnings *types.EarningsSummary
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		services, err = h.ApiClient.ListServices(ctx)
		return err
	})
	g.Go(func() (err error) {
		bookings, err = h.ApiClient.ListBookings(ctx, "")
		return err
	})
	g.Go(func() (err error) {
		earnings, err = h.ApiClient.GetEarnings(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		msg, done := h.apiFailure(w, r, err, "Failed to load dashboard")
		if done {
			return
		}
		data.Error = msg
		h.render(w, r, "provider_home", data)
		return
	}

	data.Data = newProviderHomeView(services, bookings, earnings)
	h.render(w, r, "provider_home", data)
}

func newProviderHomeView(services []types.Service, bookings []types.Booking, earnings *types.EarningsSummary) providerHomeView {
	view := providerHomeView{
		ServiceCount: len(services),
		Earnings:     earnings,
	}

	for _, b := range bookings {
		switch b.Status {
		case types.BookingPending:
			view.PendingCount++
			view.Upcoming = append(view.Upcoming, b)
		case types.BookingConfirmed:
			view.Upcoming = append(view.Upcoming, b)
		}
	}

	// dates are YYYY-MM-DD and times HH:MM so string order is chronological
	sort.SliceStable(view.Upcoming, func(i, j int) bool {
		a, b := view.Upcoming[i], view.Upcoming[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.StartTime < b.StartTime
	})
	if len(view.Upcoming) > upcomingBookingsLimit {
		view.Upcoming = view.Upcoming[:upcomingBookingsLimit]
	}
	return view
}

var profileFields = []string{"full_name", "business_name", "phone", "location", "bio"}

func (h *HandlerService) ProfilePage(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, routes.ProviderProfile)

	profile, err := h.ApiClient.GetProfile(r.Context())
	if err != nil {
		msg, done := h.apiFailure(w, r, err, "Failed to fetch profile")
		if done {
			return
		}
		data.Error = msg
		// fall back to the record kept in the session
		if data.Provider != nil {
			data.Form = profileForm(*data.Provider)
		}
		h.render(w, r, "profile", data)
		return
	}

	data.Form = profileForm(*profile)
	h.render(w, r, "profile", data)
}

// HandleProfilePost saves the profile and refreshes the loggedProvider cookie so the new name shows up straight away
func (h *HandlerService) HandleProfilePost(w http.ResponseWriter, r *http.Request) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	data := h.pageData(r, routes.ProviderProfile)
	data.Form = formValues(r, profileFields...)

	input := types.ProfileUpdate{
		FullName:     strings.TrimSpace(r.FormValue("full_name")),
		BusinessName: strings.TrimSpace(r.FormValue("business_name")),
		Phone:        strings.TrimSpace(r.FormValue("phone")),
		Location:     strings.TrimSpace(r.FormValue("location")),
		Bio:          strings.TrimSpace(r.FormValue("bio")),
	}
	if input.FullName == "" {
		data.Error = "Please enter your full name."
		h.render(w, r, "profile", data)
		return
	}

	updated, err := h.ApiClient.UpdateProfile(r.Context(), input)
	if err != nil {
		msg, done := h.apiFailure(w, r, err, "Failed to update profile")
		if done {
			return
		}
		data.Error = msg
		h.render(w, r, "profile", data)
		return
	}

	// the API may answer with an acknowledgement instead of the provider record
	if updated.ID == "" {
		if s, ok := session.ContextSession(r.Context()); ok && s.Provider != nil {
			merged := *s.Provider
			merged.FullName = input.FullName
			merged.BusinessName = input.BusinessName
			merged.Phone = input.Phone
			merged.Location = input.Location
			merged.Bio = input.Bio
			updated = &merged
		}
	}

	if updated.ID != "" {
		if err := h.Sessions.UpdateProvider(w, *updated); err != nil {
			reqLogger.Error("Failed to refresh provider cookie", slog.String("error", err.Error()))
		}
	}

	h.redirect(w, r, routes.ProviderProfile, "profile-saved")
}

func profileForm(p types.Provider) map[string]string {
	return map[string]string{
		"full_name":     p.FullName,
		"business_name": p.BusinessName,
		"phone":         p.Phone,
		"location":      p.Location,
		"bio":           p.Bio,
	}
}

// HandlePasswordPost changes the password from the settings page
func (h *HandlerService) HandlePasswordPost(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, routes.ProviderSettings)

	current := r.FormValue("current_password")
	if current == "" {
		data.Error = "Please enter your current password."
		h.render(w, r, "settings", data)
		return
	}

	next := r.FormValue("new_password")
	if msg := checkNewPassword(next, r.FormValue("confirm_password")); msg != "" {
		data.Error = msg
		h.render(w, r, "settings", data)
		return
	}

	if err := h.ApiClient.ChangePassword(r.Context(), types.PasswordChange{CurrentPassword: current, NewPassword: next}); err != nil {
		msg, done := h.apiFailure(w, r, err, "Failed to change password")
		if done {
			return
		}
		data.Error = msg
		h.render(w, r, "settings", data)
		return
	}

	h.redirect(w, r, routes.ProviderSettings, "password-saved")
}
