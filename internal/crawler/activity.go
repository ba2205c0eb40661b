package crawler

import (
	"context"

	"github.com/thep200/github-user-crawler/pkg/log"
)

const pushEvent = "PushEvent"

// LastPublicActivity returns the time of the newest public push, or of the
// newest public event of any kind when there is no push. Failures give "".
func LastPublicActivity(ctx context.Context, logger log.Logger, api UserAPI, login string) string {
	events, err := api.PublicEvents(ctx, login)
	if err != nil {
		logger.Warn(ctx, "Public events unavailable for %s: %v", login, err)
		return ""
	}
	if len(events) == 0 {
		return ""
	}
	for _, event := range events {
		if event.Type == pushEvent {
			return event.CreatedAt
		}
	}
	return events[0].CreatedAt
}
