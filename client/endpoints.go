package client

// Endpoint path constants
// All API paths are defined here to ensure consistency and prevent typos
const (
	// Auth endpoints - these must never carry a bearer token from a prior session
	RouteSessions     = "/api/sessions"
	RouteUsers        = "/api/users"
	RouteRefreshToken = "/api/refresh-token"

	// Posts & comments
	RoutePosts    = "/api/posts"
	RouteComments = "/api/comments"

	// Challenges
	RouteChallenges = "/api/challenges"

	// Waste goals & logs
	RouteLogs = "/api/logs"

	// Notifications, feedback, reports
	RouteNotifications = "/api/notifications"
	RouteFeedback      = "/api/feedback"
	RouteReports       = "/api/reports"
)
