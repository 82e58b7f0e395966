package engine

import "testing"

func TestEventInvokeAll(t *testing.T) {
	var e Event
	calls := 0
	e.AddListener(func() { calls++ })
	e.AddListener(func() { calls++ })
	e.AddListener(nil)

	e.Invoke()

	if calls != 2 {
		t.Errorf("Expected 2 calls, got %d", calls)
	}
	if e.GetListenerCount() != 2 {
		t.Errorf("Expected 2 listeners, got %d", e.GetListenerCount())
	}
}

func TestEventRemoveListener(t *testing.T) {
	var e EventWithArg[int]
	var got []int
	first := e.AddListener(func(v int) { got = append(got, v) })
	e.AddListener(func(v int) { got = append(got, v*10) })

	if !e.RemoveListener(first) {
		t.Fatal("RemoveListener should report success")
	}
	if e.RemoveListener(first) {
		t.Error("Removing twice should fail")
	}

	e.Invoke(3)
	if len(got) != 1 || got[0] != 30 {
		t.Errorf("Expected [30], got %v", got)
	}
}

func TestEventRemoveDuringInvoke(t *testing.T) {
	var e EventWithArg[string]
	calls := 0
	var id ListenerID
	id = e.AddListener(func(string) {
		calls++
		e.RemoveListener(id)
	})
	e.AddListener(func(string) { calls++ })

	e.Invoke("a")
	if calls != 2 {
		t.Errorf("Expected both listeners to run, got %d calls", calls)
	}

	e.Invoke("b")
	if calls != 3 {
		t.Errorf("Expected removed listener to stay removed, got %d calls", calls)
	}
}
