package session

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func noop(ctx context.Context) error { return nil }

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()

	for i := 0; i < 10; i++ {
		q.Push(Task{Label: fmt.Sprintf("cmd-%d", i), Op: noop})
	}
	if q.Len() != 10 {
		t.Fatalf("Len = %d, want 10", q.Len())
	}

	for i := 0; i < 10; i++ {
		task, ok := q.Pop(time.Millisecond)
		if !ok {
			t.Fatalf("Pop %d returned empty", i)
		}
		want := fmt.Sprintf("cmd-%d", i)
		if task.Label != want {
			t.Errorf("Pop %d = %q, want %q", i, task.Label, want)
		}
	}
}

func TestQueue_PopTimesOutWhenEmpty(t *testing.T) {
	q := NewQueue()

	start := time.Now()
	_, ok := q.Pop(20 * time.Millisecond)
	if ok {
		t.Fatal("Pop on empty queue returned a task")
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("Pop returned after %v, want ~20ms wait", elapsed)
	}
}

func TestQueue_PushWakesWaitingPop(t *testing.T) {
	q := NewQueue()

	done := make(chan Task, 1)
	go func() {
		task, ok := q.Pop(time.Second)
		if ok {
			done <- task
		}
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	q.Push(Task{Label: "wake", Op: noop})

	select {
	case task, ok := <-done:
		if !ok || task.Label != "wake" {
			t.Errorf("got %q ok=%v, want wake/true", task.Label, ok)
		}
	case <-time.After(time.Second):
		t.Fatal("Pop never woke up")
	}
}
