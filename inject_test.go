package bubblepop

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/phanxgames/bubblepop/internal/logging"
)

func TestInjectClickPops(t *testing.T) {
	s := seededScene(1)
	s.bubbles = []*Bubble{testBubble(100, 100, 30, 30)}

	var pops int
	s.OnPop(func(PopContext) { pops++ })

	s.InjectClick(100, 100)
	if len(s.injectQueue) != 2 {
		t.Fatalf("expected 2 queued events, got %d", len(s.injectQueue))
	}

	// Frame 1: press
	s.processInput()
	if !s.bubbles[0].Pressed() {
		t.Error("press frame should mark the bubble")
	}
	if pops != 0 {
		t.Error("pop should not fire on press frame")
	}

	// Frame 2: release
	s.processInput()
	if len(s.injectQueue) != 0 {
		t.Fatalf("expected 0 remaining events, got %d", len(s.injectQueue))
	}
	if pops != 1 || s.Len() != 2 {
		t.Errorf("pops = %d, Len = %d, want 1, 2", pops, s.Len())
	}
}

func TestInjectPressAndReleaseSeparately(t *testing.T) {
	s := seededScene(1)
	s.bubbles = []*Bubble{testBubble(100, 100, 30, 30), testBubble(300, 300, 30, 30)}

	s.InjectPress(100, 100)
	s.InjectRelease(300, 300)
	s.processInput()
	s.processInput()

	if s.Len() != 2 {
		t.Errorf("release over a different bubble popped: Len = %d", s.Len())
	}
	if !s.bubbles[0].Pressed() {
		t.Error("first bubble should still be marked")
	}
}

func TestRepeatedPressIsEdgeTriggered(t *testing.T) {
	s := seededScene(1)
	s.bubbles = []*Bubble{testBubble(100, 100, 30, 30)}

	s.processPointer(0, 100, 100, true, MouseButtonLeft)
	s.bubbles[0].pressed = false
	// Held button: no new press edge.
	s.processPointer(0, 100, 100, true, MouseButtonLeft)
	if s.bubbles[0].Pressed() {
		t.Error("holding the button must not re-mark bubbles")
	}
}

func TestReleaseLogsButton(t *testing.T) {
	var buf bytes.Buffer
	s := seededScene(1)
	s.SetLogger(logging.New(logging.LevelDebug, &buf))
	s.bubbles = []*Bubble{testBubble(100, 100, 30, 30)}

	s.processPointer(0, 100, 100, true, MouseButtonRight)
	s.processPointer(0, 100, 100, false, MouseButtonRight)

	out := buf.String()
	if !strings.Contains(out, "pointer release") {
		t.Fatalf("no release line in log:\n%s", out)
	}
	for _, want := range []string{"button=right", "popped=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

type popupClock struct{ t time.Time }

func (c *popupClock) now() time.Time { return c.t }

func visiblePopupScene(t *testing.T) (*Scene, *popupClock) {
	t.Helper()
	clock := &popupClock{t: time.Unix(1_700_000_000, 0)}
	s := NewScene()
	s.SetSeed(1)
	s.SetPopup(NewPopup(nil, WithClock(clock.now), WithInterval(time.Minute)))
	s.Reset(640, 480)
	clock.t = clock.t.Add(time.Minute)
	s.popup.Update()
	if !s.popup.Visible() {
		t.Fatal("popup should be visible after the interval")
	}
	return s, clock
}

func TestPopupCapturesPointer(t *testing.T) {
	s, _ := visiblePopupScene(t)
	s.bubbles = []*Bubble{testBubble(320, 240, 30, 30)}

	s.InjectClick(320, 240)
	s.processInput()
	s.processInput()
	if s.Len() != 1 {
		t.Errorf("click on the popup panel popped a bubble")
	}
	if s.bubbles[0].Pressed() {
		t.Error("press on the popup panel marked a bubble")
	}
}

func TestPopupCloseAndGenerateButtons(t *testing.T) {
	s, _ := visiblePopupScene(t)

	btn := s.popup.button
	s.InjectClick(btn.X+btn.Width/2, btn.Y+btn.Height/2)
	s.processInput()
	s.processInput()
	if got := s.popup.Message(); got != FallbackThought {
		t.Errorf("Message = %q, want fallback", got)
	}
	if s.popup.Loading() {
		t.Error("fallback should end loading")
	}

	cl := s.popup.close
	s.InjectClick(cl.X+cl.Width/2, cl.Y+cl.Height/2)
	s.processInput()
	s.processInput()
	if s.popup.Visible() {
		t.Error("close control should dismiss the popup")
	}
}

func TestPopupReleaseOffControlDoesNothing(t *testing.T) {
	s, _ := visiblePopupScene(t)
	cl := s.popup.close
	s.InjectPress(cl.X+cl.Width/2, cl.Y+cl.Height/2)
	s.InjectRelease(0, 0)
	s.processInput()
	s.processInput()
	if !s.popup.Visible() {
		t.Error("release away from the close control should not dismiss")
	}
}

func TestBubblesPopAfterDismiss(t *testing.T) {
	s, _ := visiblePopupScene(t)
	s.popup.Dismiss()
	s.bubbles = []*Bubble{testBubble(320, 240, 30, 30)}
	s.InjectClick(320, 240)
	s.processInput()
	s.processInput()
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}
