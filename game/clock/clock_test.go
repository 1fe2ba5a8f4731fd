package clock

import (
	"testing"
	"time"
)

func TestFake_FiresInDeadlineOrder(t *testing.T) {
	fake := NewFake(epoch)
	var order []string

	fake.AfterFunc(3*time.Second, func() { order = append(order, "third") })
	fake.AfterFunc(time.Second, func() { order = append(order, "first") })
	fake.AfterFunc(2*time.Second, func() { order = append(order, "second") })

	fake.Advance(5 * time.Second)

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("expected %d callbacks, got %v", len(want), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("callback %d: expected %s, got %s", i, want[i], order[i])
		}
	}
	if !fake.Now().Equal(epoch.Add(5 * time.Second)) {
		t.Errorf("unexpected fake time %v", fake.Now())
	}
}

func TestFake_StopPreventsCallback(t *testing.T) {
	fake := NewFake(epoch)
	called := false
	timer := fake.AfterFunc(time.Second, func() { called = true })

	if !timer.Stop() {
		t.Fatal("first Stop should report true")
	}
	if timer.Stop() {
		t.Error("second Stop should report false")
	}
	fake.Advance(time.Minute)
	if called {
		t.Error("stopped timer fired")
	}
	if fake.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", fake.Pending())
	}
}

func TestFake_CallbackMaySchedule(t *testing.T) {
	fake := NewFake(epoch)
	count := 0
	fake.AfterFunc(time.Second, func() {
		count++
		fake.AfterFunc(time.Second, func() { count++ })
	})

	fake.Advance(time.Second)
	if count != 1 {
		t.Fatalf("expected 1 call, got %d", count)
	}
	fake.Advance(time.Second)
	if count != 2 {
		t.Errorf("expected nested timer to fire, got %d", count)
	}
}

func TestReal_AfterFunc(t *testing.T) {
	done := make(chan struct{})
	Real{}.AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("real timer did not fire")
	}
}
