package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"resumehub/internal/tasks"
)

// ObjectDeleter is the slice of the storage client the worker needs.
type ObjectDeleter interface {
	DeleteObject(ctx context.Context, objectKey string) error
}

// ImageCleanupHandler 处理旧头像对象的删除任务。
// Deletion is idempotent: a key that is already gone counts as success, so
// retries never pile up on orphaned tasks.
type ImageCleanupHandler struct {
	storage ObjectDeleter
	logger  *slog.Logger
}

// NewImageCleanupHandler 构造 ImageCleanupHandler。
func NewImageCleanupHandler(storage ObjectDeleter, logger *slog.Logger) *ImageCleanupHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageCleanupHandler{storage: storage, logger: logger}
}

// ProcessTask 实现 asynq.Handler。
func (h *ImageCleanupHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload tasks.ImageCleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal image cleanup payload: %w", err)
	}
	if payload.ObjectKey == "" {
		return nil
	}

	if err := h.storage.DeleteObject(ctx, payload.ObjectKey); err != nil {
		h.logger.Error("delete stale image failed",
			slog.String("object_key", payload.ObjectKey),
			slog.Any("error", err),
		)
		return err
	}

	h.logger.Info("stale image removed", slog.String("object_key", payload.ObjectKey))
	return nil
}
