package constants

// Static route constants
const (
	PublicRoute   = "/"
	LoginRoute    = "/login"
	RegisterRoute = "/register"
	BookingRoute  = "/booking/new"
)
