package config

import (
	"os"

	"github.com/spf13/viper"
)

// EnvSlackWebhookURL is read when notify.slack_webhook_url is unset.
const EnvSlackWebhookURL = "SLACK_WEBHOOK_URL"

// SlackWebhookURL returns the run-summary webhook, or "" when notifications are off.
func SlackWebhookURL(v *viper.Viper) string {
	return firstNonEmpty(v.GetString("notify.slack_webhook_url"), os.Getenv(EnvSlackWebhookURL))
}
