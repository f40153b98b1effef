package core

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StorageEvent mirrors the "object uploaded" notification the object store
// publishes to the queue. Unknown fields are ignored; only the source bucket
// and object key of each record matter here.
type StorageEvent struct {
	Records []StorageEventRecord `json:"records"`
}

// StorageEventRecord is one record of a StorageEvent.
type StorageEventRecord struct {
	S3 StorageEntity `json:"s3"`
}

// StorageEntity names the bucket and object a record refers to.
type StorageEntity struct {
	Bucket StorageBucket `json:"bucket"`
	Object StorageObject `json:"object"`
}

// StorageBucket identifies the source bucket.
type StorageBucket struct {
	Name string `json:"name"`
}

// StorageObject identifies the uploaded object.
type StorageObject struct {
	Key string `json:"key"`
}

// JobsFromStorageEvent transforms a raw notification body into the
// dispatcher's internal job representation. It acts as an anti-corruption
// layer: a payload with N records yields N independent pending jobs, all
// borrowing the receipt handle of the message that carried them. Malformed
// JSON or a record missing its bucket or key yields a DecodeError and no
// jobs at all.
func JobsFromStorageEvent(body []byte, receiptHandle string) ([]*Job, error) {
	var event StorageEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, &DecodeError{Reason: "payload is not valid JSON", Err: err}
	}

	jobs := make([]*Job, 0, len(event.Records))
	for i, record := range event.Records {
		if record.S3.Bucket.Name == "" {
			return nil, &DecodeError{Reason: fmt.Sprintf("record %d is missing the source bucket name", i)}
		}
		if record.S3.Object.Key == "" {
			return nil, &DecodeError{Reason: fmt.Sprintf("record %d is missing the object key", i)}
		}

		jobs = append(jobs, &Job{
			ID:            uuid.NewString(),
			Bucket:        record.S3.Bucket.Name,
			Key:           record.S3.Object.Key,
			ReceiptHandle: receiptHandle,
			Status:        JobPending,
			ReceivedAt:    time.Now(),
		})
	}
	return jobs, nil
}
