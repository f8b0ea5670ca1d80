package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextForKnownCodes(t *testing.T) {
	assert.Equal(t, "Very High", PriorityText("1", "en"))
	assert.Equal(t, "Sehr hoch", PriorityText("1", "de"))
	assert.Equal(t, "Störmeldung", NotificationTypeText("M2", "DE"))
	assert.Equal(t, "Inspection Order", OrderTypeText("PM03", "en"))
}

func TestTextForUnknownCodeIsIdentity(t *testing.T) {
	domains := map[string]Domain{
		"priority":          Priority,
		"notification_type": NotificationType,
		"order_type":        OrderType,
	}
	codes := []string{"", "9", "ZZ99", "PM01 ", "m1", "ä"}
	for name, d := range domains {
		for _, lang := range []string{"en", "de", "fr", ""} {
			for _, code := range codes {
				assert.Equal(t, code, d.TextFor(code, lang), "%s/%s/%q", name, lang, code)
			}
		}
	}
}

func TestTextForUnknownLanguageFallsBackToDefault(t *testing.T) {
	assert.Equal(t, "High", PriorityText("2", "fr"))
	assert.Equal(t, "Maintenance Order", OrderTypeText("PM01", ""))
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("de"))
	assert.True(t, Supported("EN"))
	assert.False(t, Supported("fr"))
	assert.False(t, Supported(""))
}
