package natsjetstream

import (
	"context"
	"fmt"

	apperrors "github.com/burakmert236/firstblood/common/errors"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"google.golang.org/protobuf/proto"
)

// PayloadTypeHeader carries the full protobuf name of the message body.
const PayloadTypeHeader = "Firstblood-Payload-Type"

type msgPublisher interface {
	PublishMsg(ctx context.Context, msg *nats.Msg, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

type Publisher struct {
	js msgPublisher
}

func NewPublisher(client *Client) *Publisher {
	return &Publisher{js: client.js}
}

// PublishProto publishes msg on subject. msgID becomes the JetStream
// deduplication id, so republishing the same id inside the stream's
// duplicate window stores the message once.
func (p *Publisher) PublishProto(ctx context.Context, subject, msgID string, msg proto.Message) *apperrors.AppError {
	data, err := proto.Marshal(msg)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeObjectMarshalError, "failed to marshal proto message")
	}

	out := nats.NewMsg(subject)
	out.Data = data
	out.Header.Set(jetstream.MsgIDHeader, msgID)
	out.Header.Set(PayloadTypeHeader, string(msg.ProtoReflect().Descriptor().FullName()))

	if _, err := p.js.PublishMsg(ctx, out); err != nil {
		return apperrors.Wrap(err, apperrors.CodeEventPublishError,
			fmt.Sprintf("failed to publish message %s on %s", msgID, subject))
	}
	return nil
}
