package notification

// Jellyseerr webhook notification types.
const (
	NotificationMediaPending   = "MEDIA_PENDING"
	NotificationMediaApproved  = "MEDIA_APPROVED"
	NotificationMediaAvailable = "MEDIA_AVAILABLE"
	NotificationMediaDeclined  = "MEDIA_DECLINED"
	NotificationMediaFailed    = "MEDIA_FAILED"
	NotificationTest           = "TEST_NOTIFICATION"
)

// JellyseerrWebhookPayload represents the JSON body sent by Jellyseerr
// webhooks configured with the default payload template.
type JellyseerrWebhookPayload struct {
	NotificationType string            `json:"notification_type"`
	Event            string            `json:"event,omitempty"`
	Subject          string            `json:"subject"`
	Message          string            `json:"message,omitempty"`
	Image            string            `json:"image,omitempty"`
	Media            *JellyseerrMedia  `json:"media,omitempty"`
	Request          *JellyseerrReq    `json:"request,omitempty"`
	Issue            *JellyseerrIssue  `json:"issue,omitempty"`
	Extra            []JellyseerrExtra `json:"extra,omitempty"`
}

// JellyseerrMedia holds media metadata from a Jellyseerr webhook.
type JellyseerrMedia struct {
	MediaType string `json:"media_type,omitempty"`
	TmdbID    string `json:"tmdbId,omitempty"`
	TvdbID    string `json:"tvdbId,omitempty"`
	Status    string `json:"status,omitempty"`
	Status4k  string `json:"status4k,omitempty"`
}

// JellyseerrReq holds request metadata from a Jellyseerr webhook.
type JellyseerrReq struct {
	RequestID           string `json:"request_id,omitempty"`
	RequestedByUsername string `json:"requestedBy_username,omitempty"`
	RequestedByEmail    string `json:"requestedBy_email,omitempty"`
}

// JellyseerrIssue holds issue metadata from a Jellyseerr webhook.
type JellyseerrIssue struct {
	IssueID            string `json:"issue_id,omitempty"`
	IssueType          string `json:"issue_type,omitempty"`
	IssueStatus        string `json:"issue_status,omitempty"`
	ReportedByUsername string `json:"reportedBy_username,omitempty"`
}

// JellyseerrExtra is a free-form name/value pair attached to some events.
type JellyseerrExtra struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Title returns the best available display title from the payload.
func (p *JellyseerrWebhookPayload) Title() string {
	if p.Subject != "" {
		return p.Subject
	}
	return p.Event
}

// Requester returns the requesting user's name when present.
func (p *JellyseerrWebhookPayload) Requester() string {
	if p.Request == nil {
		return ""
	}
	return p.Request.RequestedByUsername
}
