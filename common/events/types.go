package events

const (
	// Streams
	FirstBloodEventsStream = "FIRSTBLOOD_EVENTS"

	// Events
	FirstBloodAwarded         = "events.firstblood.awarded"
	FirstBloodReportGenerated = "events.firstblood.reportGenerated"

	// Event Wildcards
	FirstBloodEventsWildcard = "events.firstblood.*"
)
