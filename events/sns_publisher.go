package events

import (
	"context"

	"github.com/veekshithcb/Qkartbackend/models"
	aws_pkg "github.com/veekshithcb/Qkartbackend/pkg/aws"
)

type SNSPublisher struct {
	client   aws_pkg.SNSPublisher
	topicArn string
}

func NewSNSPublisher(client aws_pkg.SNSPublisher, topicArn string) *SNSPublisher {
	return &SNSPublisher{client: client, topicArn: topicArn}
}

func (p *SNSPublisher) PublishCheckout(ctx context.Context, event models.CheckoutEvent) error {
	data, err := encode(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, aws_pkg.Message{
		TopicArn:   p.topicArn,
		Body:       data,
		Attributes: map[string]string{"event": event.Event},
		GroupKey:   event.UserID,
	})
}
