package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretsAPI struct {
	calls int
	value *string
	err   error
}

func (f *fakeSecretsAPI) GetSecretValue(_ context.Context, _ *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: f.value}, nil
}

func TestSecretsClient_CachesUntilTTL(t *testing.T) {
	api := &fakeSecretsAPI{value: sdkaws.String(`{"JWT_SECRET":"s3cr3t"}`)}
	now := time.Unix(1700000000, 0)
	c := &SecretsClient{client: api, ttl: time.Minute, now: func() time.Time { return now }, cache: map[string]cachedSecret{}}

	values, err := c.GetSecretValues(context.Background(), "qkart/CART_SERVICE")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", values["JWT_SECRET"])

	_, err = c.GetSecretValues(context.Background(), "qkart/CART_SERVICE")
	require.NoError(t, err)
	assert.Equal(t, 1, api.calls)

	now = now.Add(2 * time.Minute)
	_, err = c.GetSecretValues(context.Background(), "qkart/CART_SERVICE")
	require.NoError(t, err)
	assert.Equal(t, 2, api.calls)
}

func TestSecretsClient_Errors(t *testing.T) {
	tests := map[string]*fakeSecretsAPI{
		"api error":     {err: errors.New("AccessDeniedException")},
		"binary only":   {},
		"not an object": {value: sdkaws.String(`"plain"`)},
	}
	for name, api := range tests {
		t.Run(name, func(t *testing.T) {
			c := &SecretsClient{client: api, now: time.Now, cache: map[string]cachedSecret{}}
			_, err := c.GetSecretValues(context.Background(), "qkart/CART_SERVICE")
			assert.Error(t, err)
		})
	}
}

type fakeSNSAPI struct {
	input *sns.PublishInput
}

func (f *fakeSNSAPI) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	return &sns.PublishOutput{}, nil
}

func TestSNSClient_Publish(t *testing.T) {
	api := &fakeSNSAPI{}
	c := &SNSClient{client: api}

	err := c.Publish(context.Background(), Message{
		TopicArn:   "arn:aws:sns:us-east-1:000000000000:checkout-events",
		Body:       []byte(`{"event":"checkout.completed"}`),
		Attributes: map[string]string{"event": "checkout.completed"},
		GroupKey:   "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"event":"checkout.completed"}`, *api.input.Message)
	assert.Equal(t, "checkout.completed", *api.input.MessageAttributes["event"].StringValue)
	assert.Nil(t, api.input.MessageGroupId)
}

func TestSNSClient_FIFOTopicGetsGroup(t *testing.T) {
	api := &fakeSNSAPI{}
	c := &SNSClient{client: api}

	require.NoError(t, c.Publish(context.Background(), Message{
		TopicArn: "arn:aws:sns:us-east-1:000000000000:checkout-events.fifo",
		Body:     []byte("{}"),
		GroupKey: "user-1",
	}))
	require.NotNil(t, api.input.MessageGroupId)
	assert.Equal(t, "user-1", *api.input.MessageGroupId)
}

func TestSNSClient_RequiresTopic(t *testing.T) {
	c := &SNSClient{client: &fakeSNSAPI{}}
	assert.Error(t, c.Publish(context.Background(), Message{Body: []byte("{}")}))
}
