package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	subject, htmlBody, plainBody, err := renderTemplate("premium_welcome", map[string]string{
		"name":      "Jane",
		"plan_name": "Premium",
	})
	require.NoError(t, err)

	assert.Equal(t, "Welcome to Premium", subject)
	assert.Contains(t, htmlBody, "Welcome aboard, Jane!")
	assert.Contains(t, plainBody, "Welcome aboard, Jane!")
}

func TestRenderTemplateUnknown(t *testing.T) {
	_, _, _, err := renderTemplate("nonexistent", nil)
	assert.Error(t, err)
}

func TestRenderTemplateMissingVarLeavesPlaceholder(t *testing.T) {
	subject, _, _, err := renderTemplate("payment_receipt", map[string]string{"name": "Jane"})
	require.NoError(t, err)
	assert.Equal(t, "Payment received", subject)
}

func TestAllTemplatesRender(t *testing.T) {
	vars := map[string]string{
		"name":       "Jane",
		"plan_name":  "Premium",
		"amount":     "29.00 usd",
		"addon_name": "Chat Bot",
	}
	for name := range templates {
		_, htmlBody, plainBody, err := renderTemplate(name, vars)
		require.NoError(t, err, name)
		assert.NotContains(t, htmlBody, "{{", name)
		assert.NotContains(t, plainBody, "{{", name)
	}
}
