package types

import "sort"

// AnalyticsSummary is computed by the UI server from the provider's bookings and reviews
type AnalyticsSummary struct {
	TotalBookings    int
	ByStatus         map[BookingStatus]int
	CompletionRate   float64 // percentage of non-cancelled bookings that were completed
	CancellationRate float64 // percentage of all bookings that were cancelled
	Revenue          float64 // sum of completed booking amounts
	AverageRating    float64
	ReviewCount      int
	TopServices      []ServiceCount
}

type ServiceCount struct {
	Title string
	Count int
}

const topServicesLimit = 5

func NewAnalyticsSummary(bookings []Booking, reviews []Review) AnalyticsSummary {
	s := AnalyticsSummary{
		TotalBookings: len(bookings),
		ByStatus:      make(map[BookingStatus]int, len(ValidBookingStatuses)),
		ReviewCount:   len(reviews),
	}

	perService := make(map[string]int)
	for _, b := range bookings {
		s.ByStatus[b.Status]++
		if b.Status == BookingCompleted {
			s.Revenue += b.Amount
		}
		perService[b.ServiceTitle]++
	}

	if s.TotalBookings > 0 {
		cancelled := s.ByStatus[BookingCancelled]
		s.CancellationRate = percent(cancelled, s.TotalBookings)
		s.CompletionRate = percent(s.ByStatus[BookingCompleted], s.TotalBookings-cancelled)
	}

	if len(reviews) > 0 {
		total := 0
		for _, r := range reviews {
			total += r.Rating
		}
		s.AverageRating = float64(total) / float64(len(reviews))
	}

	for title, count := range perService {
		s.TopServices = append(s.TopServices, ServiceCount{Title: title, Count: count})
	}
	sort.Slice(s.TopServices, func(i, j int) bool {
		if s.TopServices[i].Count != s.TopServices[j].Count {
			return s.TopServices[i].Count > s.TopServices[j].Count
		}
		return s.TopServices[i].Title < s.TopServices[j].Title
	})
	if len(s.TopServices) > topServicesLimit {
		s.TopServices = s.TopServices[:topServicesLimit]
	}

	return s
}

func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) * 100 / float64(whole)
}
