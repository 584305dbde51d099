package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/infinity-booking/provider-ui/internal/ui/routes"
	"github.com/infinity-booking/provider-ui/internal/ui/templates"
	"github.com/infinity-booking/provider-ui/internal/ui/types"
	"golang.org/x/sync/errgroup"
)

var serviceFields = []string{"title", "category", "price", "duration", "description"}

func (h *HandlerService) ServicesPage(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, routes.ProviderServices)
	h.renderServices(w, r, data)
}

// renderServices fetches the provider's services and renders the services page with data
func (h *HandlerService) renderServices(w http.ResponseWriter, r *http.Request, data templates.PageData) {
	services, err := h.ApiClient.ListServices(r.Context())
	if err != nil {
		msg, done := h.apiFailure(w, r, err, "Failed to fetch services")
		if done {
			return
		}
		if data.Error == "" {
			data.Error = msg
		}
	}
	data.Data = services
	h.render(w, r, "services", data)
}

// HandleServicePost creates a service and opens its details page
func (h *HandlerService) HandleServicePost(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, routes.ProviderServices)
	data.Form = formValues(r, serviceFields...)

	input, msg := parseServiceInput(r)
	if msg != "" {
		data.Error = msg
		h.renderServices(w, r, data)
		return
	}

	created, err := h.ApiClient.CreateService(r.Context(), input)
	if err != nil {
		msg, done := h.apiFailure(w, r, err, "Failed to create service")
		if done {
			return
		}
		data.Error = msg
		h.renderServices(w, r, data)
		return
	}

	if created.ID == "" {
		h.redirect(w, r, routes.ProviderServices, "service-created")
		return
	}
	h.redirect(w, r, routes.ServiceDetails, "service-created", "id", created.ID)
}

// parseServiceInput validates the new service form, returning a message for the provider when it is invalid
func parseServiceInput(r *http.Request) (types.ServiceInput, string) {
	input := types.ServiceInput{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if input.Title == "" || input.Category == "" {
		return input, "Please enter a title and a category."
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("price")), 64)
	if err != nil || price < 0 {
		return input, "Please enter a valid price."
	}
	input.Price = price

	duration, err := strconv.Atoi(strings.TrimSpace(r.FormValue("duration")))
	if err != nil || duration <= 0 {
		return input, "Please enter the duration in minutes."
	}
	input.Duration = duration

	return input, ""
}

func (h *HandlerService) ServiceDetailsPage(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, routes.ServiceDetails)

	service, err := h.ApiClient.GetService(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		msg, done := h.apiFailure(w, r, err, "Failed to fetch service")
		if done {
			return
		}
		data.Error = msg
		h.render(w, r, "service_details", data)
		return
	}

	data.Data = service
	h.render(w, r, "service_details", data)
}

type timeSlotsView struct {
	ServiceID string
	Service   *types.Service
	Slots     []types.TimeSlot
}

func (h *HandlerService) TimeSlotsPage(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, routes.TimeSlots)
	h.renderTimeSlots(w, r, data)
}

// renderTimeSlots fetches the service and its slots concurrently and renders the time slots page
func (h *HandlerService) renderTimeSlots(w http.ResponseWriter, r *http.Request, data templates.PageData) {
	view := timeSlotsView{ServiceID: chi.URLParam(r, "id")}

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		view.Service, err = h.ApiClient.GetService(ctx, view.ServiceID)
		return err
	})
	g.Go(func() (err error) {
		view.Slots, err = h.ApiClient.ListTimeSlots(ctx, view.ServiceID)
		return err
	})

	if err := g.Wait(); err != nil {
		msg, done := h.apiFailure(w, r, err, "Failed to fetch time slots")
		if done {
			return
		}
		if data.Error == "" {
			data.Error = msg
		}
	}

	data.Data = view
	h.render(w, r, "time_slots", data)
}

// HandleTimeSlotPost publishes one time slot for the service
func (h *HandlerService) HandleTimeSlotPost(w http.ResponseWriter, r *http.Request) {
	serviceID := chi.URLParam(r, "id")

	data := h.pageData(r, routes.TimeSlots)
	data.Form = formValues(r, "date", "start_time", "end_time")

	slot, msg := parseTimeSlot(r, time.Now())
	if msg != "" {
		data.Error = msg
		h.renderTimeSlots(w, r, data)
		return
	}

	if err := h.ApiClient.CreateTimeSlots(r.Context(), serviceID, []types.TimeSlot{slot}); err != nil {
		msg, done := h.apiFailure(w, r, err, "Failed to create time slot")
		if done {
			return
		}
		data.Error = msg
		h.renderTimeSlots(w, r, data)
		return
	}

	h.redirect(w, r, routes.TimeSlots, "slot-created", "id", serviceID)
}

// parseTimeSlot validates the time slot form. The date can not be in the past and the slot must end after it starts.
func parseTimeSlot(r *http.Request, now time.Time) (types.TimeSlot, string) {
	slot := types.TimeSlot{
		Date:      strings.TrimSpace(r.FormValue("date")),
		StartTime: strings.TrimSpace(r.FormValue("start_time")),
		EndTime:   strings.TrimSpace(r.FormValue("end_time")),
	}

	day, err := time.Parse(time.DateOnly, slot.Date)
	if err != nil {
		return slot, "Please enter a valid date."
	}
	today, _ := time.Parse(time.DateOnly, now.Format(time.DateOnly))
	if day.Before(today) {
		return slot, "Time slots can not be in the past."
	}

	start, err := time.Parse("15:04", slot.StartTime)
	if err != nil {
		return slot, "Please enter a valid start time."
	}
	end, err := time.Parse("15:04", slot.EndTime)
	if err != nil {
		return slot, "Please enter a valid end time."
	}
	if !end.After(start) {
		return slot, "The end time must be after the start time."
	}

	return slot, ""
}
