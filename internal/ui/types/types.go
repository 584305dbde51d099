package types

import "github.com/infinity-booking/provider-ui/internal/apperrors"

// =============================================================================
// AUTHENTICATION TYPES
// =============================================================================

// Provider is the logged-in provider record kept in the loggedProvider cookie
type Provider struct {
	ID           string `json:"_id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	BusinessName string `json:"businessName,omitempty"`
	Bio          string `json:"bio,omitempty"`
	Location     string `json:"location,omitempty"`
	Avatar       string `json:"avatar,omitempty"`
	Verified     bool   `json:"isVerified,omitempty"`
}

// DisplayName prefers the business name over the provider's own name
func (p Provider) DisplayName() string {
	if p.BusinessName != "" {
		return p.BusinessName
	}
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}

// LoginResponse is returned by the booking API after a successful provider login
type LoginResponse struct {
	Token    string   `json:"token"`
	Provider Provider `json:"provider"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	BusinessName string `json:"businessName,omitempty"`
	Password     string `json:"password"`
}

type ProfileUpdate struct {
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	BusinessName string `json:"businessName"`
	Bio          string `json:"bio"`
	Location     string `json:"location"`
}

type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ErrorResponse is the error payload sent by the booking API
type ErrorResponse struct {
	Code    apperrors.ErrorCode `json:"code,omitempty"`
	Message string              `json:"message"`
}

// =============================================================================
// SERVICES & TIME SLOTS
// =============================================================================

type Service struct {
	ID          string  `json:"_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"` // minutes
	Active      bool    `json:"isActive"`
}

type ServiceInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"`
}

// TimeSlot is a bookable window of a service. Date is YYYY-MM-DD, times are HH:MM.
type TimeSlot struct {
	ID        string `json:"_id,omitempty"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Booked    bool   `json:"isBooked,omitempty"`
}

type TimeSlotsInput struct {
	Slots []TimeSlot `json:"slots"`
}

// =============================================================================
// BOOKINGS, EARNINGS, MESSAGES & REVIEWS
// =============================================================================

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

var ValidBookingStatuses = map[BookingStatus]bool{
	BookingPending:   true,
	BookingConfirmed: true,
	BookingCompleted: true,
	BookingCancelled: true,
}

type Booking struct {
	ID            string        `json:"_id"`
	ServiceID     string        `json:"serviceId"`
	ServiceTitle  string        `json:"serviceTitle"`
	CustomerName  string        `json:"customerName"`
	CustomerEmail string        `json:"customerEmail"`
	Date          string        `json:"date"`
	StartTime     string        `json:"startTime"`
	Status        BookingStatus `json:"status"`
	Amount        float64       `json:"amount"`
	CreatedAt     string        `json:"createdAt"`
}

type BookingStatusUpdate struct {
	Status BookingStatus `json:"status"`
}

type EarningsSummary struct {
	Total        float64         `json:"total"`
	ThisMonth    float64         `json:"thisMonth"`
	Pending      float64         `json:"pending"`
	Currency     string          `json:"currency"`
	Transactions []EarningsEntry `json:"transactions"`
}

type EarningsEntry struct {
	BookingID string  `json:"bookingId"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"`
	Status    string  `json:"status"`
}

type Message struct {
	ID        string `json:"_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Read      bool   `json:"isRead"`
	CreatedAt string `json:"createdAt"`
}

type MessageInput struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type Review struct {
	ID           string `json:"_id"`
	CustomerName string `json:"customerName"`
	ServiceTitle string `json:"serviceTitle"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	CreatedAt    string `json:"createdAt"`
}

// =============================================================================
// PUBLIC FORMS
// =============================================================================

type FeedbackInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Rating  int    `json:"rating"`
	Message string `json:"message"`
}

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}
