package notification

import "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"

// Message templates as string constants, rendered with html/template.
var emailTemplates = map[types.NotificationTemplate]emailTemplate{
	types.TemplateRenewalReminder: {
		subject: "Your tribe pass expires soon",
		body: `<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; font-size: 14px; line-height: 1.6; color: #333;">
    <p>Hey!</p>
    <p>Your pass for <strong>{{.community_name}}</strong> expires on {{.expires_at}}.</p>
    {{if .auto_renew}}
    <p>Auto-renew is on, so we'll take care of it. Nothing to do on your side.</p>
    {{else}}
    <p>Renew before then to keep your access and perks. It only takes a minute.</p>
    {{end}}
    <p>See you in the tribe!</p>
</body>
</html>`,
	},
	types.TemplateMembershipEnded: {
		subject: "Your tribe pass has expired",
		body: `<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; font-size: 14px; line-height: 1.6; color: #333;">
    <p>Hey,</p>
    <p>Your pass for <strong>{{.community_name}}</strong> has expired and your access has ended.</p>
    <p>You can rejoin any time by picking up a new pass.</p>
</body>
</html>`,
	},
}

type emailTemplate struct {
	subject string
	body    string
}
