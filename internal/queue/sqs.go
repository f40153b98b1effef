// Package queue implements the SQS-backed message source the dispatcher
// polls for upload notifications.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/aws/smithy-go"

	"github.com/sevigo/vidflow/internal/core"
)

// API is the slice of the SQS client the source needs. Narrowing the SDK
// client to an interface keeps the source testable without a live queue.
type API interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	GetQueueAttributes(ctx context.Context, params *sqs.GetQueueAttributesInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error)
}

// Source implements core.MessageSource against a single SQS queue.
type Source struct {
	client   API
	queueURL string
	logger   *slog.Logger
}

// NewSource creates a message source for the given queue URL.
func NewSource(client API, queueURL string, logger *slog.Logger) *Source {
	return &Source{
		client:   client,
		queueURL: queueURL,
		logger:   logger,
	}
}

// Poll long-polls the queue for up to wait and returns whatever arrived,
// which may be nothing.
func (s *Source) Poll(ctx context.Context, maxMessages int32, wait time.Duration) ([]core.RawMessage, error) {
	out, err := s.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(s.queueURL),
		MaxNumberOfMessages: maxMessages,
		WaitTimeSeconds:     int32(wait / time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("receiving queue messages: %w", err)
	}

	messages := make([]core.RawMessage, 0, len(out.Messages))
	for _, msg := range out.Messages {
		if msg.Body == nil || msg.ReceiptHandle == nil {
			s.logger.Warn("skipping queue message without body or receipt handle", "message_id", aws.ToString(msg.MessageId))
			continue
		}
		messages = append(messages, core.RawMessage{
			Body:          *msg.Body,
			ReceiptHandle: *msg.ReceiptHandle,
		})
	}
	return messages, nil
}

// Ack deletes the message behind receiptHandle. A handle the queue no longer
// recognizes counts as success: the message is already gone, which is
// exactly what an ack wants.
func (s *Source) Ack(ctx context.Context, receiptHandle string) error {
	_, err := s.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(s.queueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ReceiptHandleIsInvalid" {
			s.logger.Debug("receipt handle already invalid, treating ack as done")
			return nil
		}
		return &core.AckError{Err: err}
	}
	return nil
}

// ApproximateDepth reports the queue's approximate number of visible
// messages, as exposed by its attributes.
func (s *Source) ApproximateDepth(ctx context.Context) (int, error) {
	out, err := s.client.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl:       aws.String(s.queueURL),
		AttributeNames: []sqstypes.QueueAttributeName{sqstypes.QueueAttributeNameApproximateNumberOfMessages},
	})
	if err != nil {
		return 0, fmt.Errorf("reading queue attributes: %w", err)
	}

	raw, ok := out.Attributes[string(sqstypes.QueueAttributeNameApproximateNumberOfMessages)]
	if !ok {
		return 0, fmt.Errorf("queue did not report %s", sqstypes.QueueAttributeNameApproximateNumberOfMessages)
	}
	depth, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing queue depth %q: %w", raw, err)
	}
	return depth, nil
}
