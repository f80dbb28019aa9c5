package types

// NotificationTemplate identifies a message template understood by the
// notification collaborator.
type NotificationTemplate string

const (
	TemplateRenewalReminder NotificationTemplate = "renewal-reminder"
	TemplateMembershipEnded NotificationTemplate = "membership-ended"
)
