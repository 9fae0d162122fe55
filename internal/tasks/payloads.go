package tasks

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeImageCleanup = "image:cleanup"
)

// ImageCleanupPayload names the object-storage key to remove.
type ImageCleanupPayload struct {
	ObjectKey string `json:"object_key"`
}

// NewImageCleanupTask 构造一个清理旧头像对象的任务。
func NewImageCleanupTask(objectKey string) (*asynq.Task, error) {
	payload, err := json.Marshal(ImageCleanupPayload{ObjectKey: objectKey})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeImageCleanup, payload), nil
}

// Enqueuer 将清理任务投递到队列。
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer 构造 Enqueuer。
func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueImageCleanup 投递一个头像清理任务。
func (e *Enqueuer) EnqueueImageCleanup(ctx context.Context, objectKey string) error {
	task, err := NewImageCleanupTask(objectKey)
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task, asynq.MaxRetry(5))
	return err
}
