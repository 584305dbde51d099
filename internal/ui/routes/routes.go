// Package routes declares the UI route table: every page has a name, a path and meta data read by the guard.
//
// Redirects and links are built from route names (see URL), never from literal paths.
package routes

import (
	"fmt"
	"net/url"
	"strings"
)

// route names
const (
	AuthTest       = "AuthTest"
	Home           = "Home"
	About          = "About"
	Contact        = "Contact"
	HowItWorks     = "HowItWorks"
	Providers      = "Providers"
	Login          = "Login"
	Register       = "Register"
	ForgotPassword = "ForgotPassword"
	ResetPassword  = "ResetPassword"
	HelpCenter     = "HelpCenter"
	PrivacyPolicy  = "PrivacyPolicy"
	TermsOfService = "TermsOfService"
	Feedback       = "Feedback"
	Logout         = "Logout"

	ProviderHome      = "ProviderHome"
	ProviderProfile   = "ProviderProfile"
	ProviderServices  = "ProviderServices"
	ServiceDetails    = "ServiceDetails"
	TimeSlots         = "TimeSlots"
	ProviderBookings  = "ProviderBookings"
	ProviderEarnings  = "ProviderEarnings"
	ProviderMessages  = "ProviderMessages"
	ProviderAnalytics = "ProviderAnalytics"
	ProviderReviews   = "ProviderReviews"
	ProviderSettings  = "ProviderSettings"
)

// Meta is read by the guard on every navigation. Children inherit the meta of their parent.
type Meta struct {
	RequiresProvider bool
}

type Route struct {
	Name       string
	Path       string // relative to the parent for child routes, chi syntax for params ({id})
	RedirectTo string // name of the route to redirect to; routes with a redirect have no page
	Meta       Meta
	Children   []Route
}

// Table is the UI route table
var Table = []Route{
	{Name: AuthTest, Path: "/auth-test"},

	{
		Path: "/",
		Children: []Route{
			{Name: Home, Path: ""},
			{Name: About, Path: "about"},
			{Name: Contact, Path: "contact"},
			{Name: HowItWorks, Path: "how-it-works"},
			{Name: Providers, Path: "providers"},
			{Name: Login, Path: "login"},
			{Name: Register, Path: "register"},
			{Name: ForgotPassword, Path: "forgot-password"},
			{Name: ResetPassword, Path: "reset-password/{token}"},

			// footer pages
			{Name: HelpCenter, Path: "help-center"},
			{Name: PrivacyPolicy, Path: "privacy-policy"},
			{Name: TermsOfService, Path: "terms-of-service"},
			{Name: Feedback, Path: "feedback"},
		},
	},

	// provider dashboard
	{
		Path: "/provider",
		Meta: Meta{RequiresProvider: true},
		Children: []Route{
			{Path: "", RedirectTo: ProviderHome},
			{Name: ProviderHome, Path: "home"},
			{Name: ProviderProfile, Path: "profile"},
			{Name: ProviderServices, Path: "services"},
			{Name: ServiceDetails, Path: "services/{id}"},
			{Name: TimeSlots, Path: "services/{id}/time-slots"},
			{Name: ProviderBookings, Path: "bookings"},
			{Name: ProviderEarnings, Path: "earnings"},
			{Name: ProviderMessages, Path: "messages"},
			{Name: ProviderAnalytics, Path: "analytics"},
			{Name: ProviderReviews, Path: "reviews"},
			{Name: ProviderSettings, Path: "settings"},
		},
	},

	{Name: Logout, Path: "/logout", Meta: Meta{RequiresProvider: true}},
}

// Flatten resolves child paths against their parents and propagates meta.
// Parent routes without a name are only containers and are not returned.
func Flatten(table []Route) []Route {
	var out []Route
	flatten(table, "", Meta{}, &out)
	return out
}

func flatten(table []Route, parentPath string, parentMeta Meta, out *[]Route) {
	for _, r := range table {
		resolved := r
		resolved.Path = joinPath(parentPath, r.Path)
		resolved.Meta.RequiresProvider = r.Meta.RequiresProvider || parentMeta.RequiresProvider
		resolved.Children = nil

		if r.Name != "" || r.RedirectTo != "" {
			*out = append(*out, resolved)
		}
		if len(r.Children) > 0 {
			flatten(r.Children, resolved.Path, resolved.Meta, out)
		}
	}
}

func joinPath(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	default:
		return strings.TrimRight(parent, "/") + "/" + child
	}
}

var byName = index(Flatten(Table))

func index(routes []Route) map[string]Route {
	m := make(map[string]Route, len(routes))
	for _, r := range routes {
		if r.Name != "" {
			m[r.Name] = r
		}
	}
	return m
}

// Lookup returns the resolved route with the given name
func Lookup(name string) (Route, bool) {
	r, ok := byName[name]
	return r, ok
}

// URL builds the path of a named route. params are key/value pairs filling the path params, e.g.
//
//	URL(ServiceDetails, "id", serviceID)
//
// Unknown route names and missing params are programming errors and panic.
func URL(name string, params ...string) string {
	r, ok := Lookup(name)
	if !ok {
		panic(fmt.Sprintf("routes: unknown route name %q", name))
	}
	if len(params)%2 != 0 {
		panic(fmt.Sprintf("routes: odd number of params for route %q", name))
	}

	path := r.Path
	for i := 0; i < len(params); i += 2 {
		path = strings.ReplaceAll(path, "{"+params[i]+"}", url.PathEscape(params[i+1]))
	}
	if strings.Contains(path, "{") {
		panic(fmt.Sprintf("routes: missing params for route %q (%s)", name, path))
	}
	return path
}
