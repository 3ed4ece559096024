package main

import (
	"fmt"

	"github.com/slack-go/slack"
)

// PostRunSummary posts the short run summary to the configured report
// channel.
func PostRunSummary(api *slack.Client, channelID, summary string) error {
	_, _, err := api.PostMessage(channelID, slack.MsgOptionText(summary, false))
	if err != nil {
		return fmt.Errorf("posting run summary: %w", err)
	}
	return nil
}
