package services

import (
	"context"
	"testing"
)

func TestTaskTypeNotification_Constant(t *testing.T) {
	if TaskTypeNotification != "notification:moderation" {
		t.Errorf("TaskTypeNotification = %q, expected %q", TaskTypeNotification, "notification:moderation")
	}
}

func TestNotificationTask_Structure(t *testing.T) {
	task := NotificationTask{
		ReviewID:  1,
		Recipient: "teacher@example.com",
		Decision:  "flagged",
		Reason:    "contains personal contact information",
	}

	if task.ReviewID != 1 {
		t.Errorf("ReviewID = %d, expected 1", task.ReviewID)
	}
	if task.Recipient != "teacher@example.com" {
		t.Errorf("Recipient = %q, expected %q", task.Recipient, "teacher@example.com")
	}
	if task.Decision != "flagged" {
		t.Errorf("Decision = %q, expected %q", task.Decision, "flagged")
	}
	if task.Reason != "contains personal contact information" {
		t.Errorf("Reason = %q, unexpected value", task.Reason)
	}
}

func TestNotificationTask_ApprovedHasNoReason(t *testing.T) {
	task := NotificationTask{
		ReviewID:  7,
		Recipient: "user@example.com",
		Decision:  "approved",
	}

	if task.Decision != "approved" {
		t.Errorf("Decision = %q, expected %q", task.Decision, "approved")
	}
	if task.Reason != "" {
		t.Errorf("Reason should be empty for approvals, got %q", task.Reason)
	}
}

func TestSyncQueue_New(t *testing.T) {
	queue := NewSyncQueue()
	if queue == nil {
		t.Error("NewSyncQueue should not return nil")
	}
}

func TestSyncQueue_IsAsync(t *testing.T) {
	queue := NewSyncQueue()
	if queue.IsAsync() {
		t.Error("SyncQueue.IsAsync() should return false")
	}
}

func TestSyncQueue_Close(t *testing.T) {
	queue := NewSyncQueue()
	err := queue.Close()
	if err != nil {
		t.Errorf("SyncQueue.Close() should return nil, got %v", err)
	}
}

func TestSyncQueue_EnqueueWithoutProcessor(t *testing.T) {
	queue := NewSyncQueue()
	task := &NotificationTask{
		ReviewID:  1,
		Recipient: "user@example.com",
	}

	err := queue.Enqueue(task)
	if err != nil {
		t.Errorf("Enqueue without processor should not error, got %v", err)
	}
}

func TestSyncQueue_SetProcessor(t *testing.T) {
	queue := NewSyncQueue()

	queue.SetProcessor(func(ctx context.Context, task *NotificationTask) error {
		return nil
	})

	if queue.processor == nil {
		t.Error("processor should be set")
	}
}

func TestAsyncQueue_IsAsync(t *testing.T) {
	queue := &AsyncQueue{}
	if !queue.IsAsync() {
		t.Error("AsyncQueue.IsAsync() should return true")
	}
}
