package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"

	"resumehub/internal/tasks"
)

type fakeDeleter struct {
	deleted []string
	err     error
}

func (f *fakeDeleter) DeleteObject(_ context.Context, objectKey string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func TestProcessTaskDeletesObject(t *testing.T) {
	deleter := &fakeDeleter{}
	handler := NewImageCleanupHandler(deleter, nil)

	task, err := tasks.NewImageCleanupTask("profile-images/6/old.png")
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := handler.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("process task: %v", err)
	}
	if len(deleter.deleted) != 1 || deleter.deleted[0] != "profile-images/6/old.png" {
		t.Errorf("deleted = %v", deleter.deleted)
	}
}

func TestProcessTaskSkipsEmptyKey(t *testing.T) {
	deleter := &fakeDeleter{}
	handler := NewImageCleanupHandler(deleter, nil)

	task, err := tasks.NewImageCleanupTask("")
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := handler.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("process task: %v", err)
	}
	if len(deleter.deleted) != 0 {
		t.Errorf("deleted = %v, want none", deleter.deleted)
	}
}

func TestProcessTaskPropagatesStorageError(t *testing.T) {
	storageErr := errors.New("minio down")
	handler := NewImageCleanupHandler(&fakeDeleter{err: storageErr}, nil)

	task, err := tasks.NewImageCleanupTask("profile-images/6/old.png")
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := handler.ProcessTask(context.Background(), task); !errors.Is(err, storageErr) {
		t.Errorf("got %v, want storage error so asynq retries", err)
	}
}

func TestProcessTaskRejectsBadPayload(t *testing.T) {
	handler := NewImageCleanupHandler(&fakeDeleter{}, nil)

	task := asynq.NewTask(tasks.TypeImageCleanup, []byte("not-json"))
	if err := handler.ProcessTask(context.Background(), task); err == nil {
		t.Error("expected error for malformed payload")
	}
}
