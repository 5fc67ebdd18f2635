package notifications

import (
	"context"

	"github.com/9ssi7/exponent"
)

// PushSender abstracts the push transport so handlers can be tested without
// talking to Expo. The types are the exponent SDK's own.
type PushSender interface {
	Publish(ctx context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error)
	PublishSingle(ctx context.Context, msg *exponent.Message) ([]*exponent.MessageResponse, error)
}
