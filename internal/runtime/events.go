package runtime

import (
	"time"

	"github.com/richfrem/quoteagent/pkg/domain"
)

func newEventBase(t domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      t,
		SessionID: sessionID,
	}
}
