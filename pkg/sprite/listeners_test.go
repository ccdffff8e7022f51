package sprite

import "testing"

func TestListenerSet_OrderAndUnsubscribe(t *testing.T) {
	var l listenerSet[int]
	var got []string

	l.add(func(v int) { got = append(got, "a") })
	cancelB := l.add(func(v int) { got = append(got, "b") })
	l.add(func(v int) { got = append(got, "c") })

	l.notify(1)
	cancelB()
	cancelB()
	l.notify(2)

	want := []string{"a", "b", "c", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestListenerSet_UnsubscribeDuringNotify(t *testing.T) {
	var l listenerSet[int]
	calls := 0
	var cancel func()
	cancel = l.add(func(int) {
		calls++
		cancel()
	})

	l.notify(1)
	l.notify(2)
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDisplayFrame_Clamps(t *testing.T) {
	s := &Sprite{sheet: Sheet{Columns: 4, Rows: 2, Frames: 8}}

	tests := []struct {
		value float64
		want  int
	}{
		{-0.5, 0},
		{0, 0},
		{3.9999999999999996, 4},
		{3.5, 3},
		{7, 7},
		{7.9, 7},
		{12, 7},
	}
	for _, tt := range tests {
		if got := s.displayFrame(tt.value); got != tt.want {
			t.Errorf("displayFrame(%v) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestStatus_Text(t *testing.T) {
	for _, st := range []Status{StatusIdle, StatusPlaying, StatusStopped, StatusCompleted} {
		text, err := st.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Status
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s): %v", text, err)
		}
		if back != st {
			t.Errorf("expected %v, got %v", st, back)
		}
	}
	var st Status
	if err := st.UnmarshalText([]byte("paused")); err == nil {
		t.Error("expected error for unknown status")
	}
}
