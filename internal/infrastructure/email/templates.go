package email

import (
	"fmt"
	"strings"
)

type emailTemplate struct {
	Subject   string
	HTMLBody  string
	PlainBody string
}

// templates holds the notification bodies. Placeholders use {{var}} syntax
// and are substituted from the sanitized variable map.
var templates = map[string]emailTemplate{
	"premium_welcome": {
		Subject: "Welcome to {{plan_name}}",
		HTMLBody: `<html><body>
<h2>Welcome aboard, {{name}}!</h2>
<p>Your {{plan_name}} subscription is now active.</p>
<p>You have full access to training modules, comp guides and the community.</p>
</body></html>`,
		PlainBody: `Welcome aboard, {{name}}!

Your {{plan_name}} subscription is now active.
You have full access to training modules, comp guides and the community.`,
	},
	"subscription_cancelled": {
		Subject: "Your subscription has been cancelled",
		HTMLBody: `<html><body>
<h2>Sorry to see you go, {{name}}</h2>
<p>Your subscription has been cancelled and your account moved to the free plan.</p>
<p>You can resubscribe at any time from your billing settings.</p>
</body></html>`,
		PlainBody: `Sorry to see you go, {{name}}

Your subscription has been cancelled and your account moved to the free plan.
You can resubscribe at any time from your billing settings.`,
	},
	"payment_receipt": {
		Subject: "Payment received",
		HTMLBody: `<html><body>
<h2>Thanks, {{name}}</h2>
<p>We received your payment of {{amount}}.</p>
</body></html>`,
		PlainBody: `Thanks, {{name}}

We received your payment of {{amount}}.`,
	},
	"payment_failed": {
		Subject: "Payment failed",
		HTMLBody: `<html><body>
<h2>Payment problem, {{name}}</h2>
<p>Your latest payment failed. Please update your payment method to keep your subscription active.</p>
</body></html>`,
		PlainBody: `Payment problem, {{name}}

Your latest payment failed. Please update your payment method to keep your subscription active.`,
	},
	"addon_purchased": {
		Subject: "Your {{addon_name}} addon is active",
		HTMLBody: `<html><body>
<h2>Good news, {{name}}</h2>
<p>Your {{addon_name}} addon has been activated.</p>
</body></html>`,
		PlainBody: `Good news, {{name}}

Your {{addon_name}} addon has been activated.`,
	},
}

// renderTemplate substitutes {{var}} placeholders in the named template.
func renderTemplate(name string, vars map[string]string) (subject, htmlBody, plainBody string, err error) {
	tmpl, ok := templates[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template: %s", name)
	}
	subject = substitute(tmpl.Subject, vars)
	htmlBody = substitute(tmpl.HTMLBody, vars)
	plainBody = substitute(tmpl.PlainBody, vars)
	return subject, htmlBody, plainBody, nil
}

func substitute(text string, vars map[string]string) string {
	for k, v := range vars {
		text = strings.ReplaceAll(text, "{{"+k+"}}", v)
	}
	return text
}
