package bubblepop

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/bubblepop/internal/logging"
)

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// HitCircle is a circular hit area.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside the circle. Points on the
// circumference are outside.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy < c.Radius*c.Radius
}

// --- Per-pointer state ---

type pointerState struct {
	down         bool
	lastX, lastY float64
	button       MouseButton // button captured at press time
	popupCapture bool        // the press landed on the popup panel
}

// --- Handler registry ---

// PopContext describes a single pop delivered to OnPop handlers.
type PopContext struct {
	// Release position that triggered the pop.
	X, Y float64
	// Popped is a copy of the bubble as it was when released.
	Popped Bubble
	// Children are copies of the two bubbles that replaced it.
	Children [2]Bubble
	// Count is the population after the split.
	Count int
}

type popHandler struct {
	id uint32
	fn func(PopContext)
}

type handlerRegistry struct {
	pop    []popHandler
	nextID uint32
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id  uint32
	reg *handlerRegistry
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	s := h.reg.pop
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = popHandler{}
			h.reg.pop = s[:len(s)-1]
			return
		}
	}
}

// OnPop registers a scene-level callback fired once per popped bubble,
// after the split has been applied.
func (s *Scene) OnPop(fn func(PopContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.pop = append(s.handlers.pop, popHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers}
}

// --- Input processing ---

// processInput is called from Scene.Update to handle mouse and touch input.
// While synthetic events are queued, device input is ignored.
func (s *Scene) processInput() {
	if s.processInjectedInput() {
		return
	}
	s.processMousePointer()
	s.processTouchPointers()
}

// processMousePointer handles mouse input (pointer 0).
func (s *Scene) processMousePointer() {
	mx, my := ebiten.CursorPosition()

	var pressed bool
	var button MouseButton
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)

	if left || right || middle {
		pressed = true
		if left {
			button = MouseButtonLeft
		} else if right {
			button = MouseButtonRight
		} else {
			button = MouseButtonMiddle
		}
	}

	s.processPointer(0, float64(mx), float64(my), pressed, button)
}

// processTouchPointers handles touch input (pointers 1-9).
func (s *Scene) processTouchPointers() {
	touchIDs := ebiten.AppendTouchIDs(s.prevTouchIDs[:0])
	s.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := s.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		s.processPointer(slot, float64(tx), float64(ty), true, MouseButtonLeft)
	}

	// Release any touch slots that are no longer active, at their last
	// known position.
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && !activeSlots[i] {
			ps := &s.pointers[i]
			if ps.down {
				s.processPointer(i, ps.lastX, ps.lastY, false, MouseButtonLeft)
			}
			s.touchUsed[i] = false
			s.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (s *Scene) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && s.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !s.touchUsed[i] {
			s.touchUsed[i] = true
			s.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processPointer runs the press/release state machine for a single pointer.
// Presses that start on a visible popup panel stay with the popup until
// release; everything else goes to the bubbles.
func (s *Scene) processPointer(pointerID int, x, y float64, pressed bool, button MouseButton) {
	ps := &s.pointers[pointerID]

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.popupCapture = s.popup != nil && s.popup.Captures(x, y)
		if ps.popupCapture {
			s.popup.press(x, y)
		} else {
			s.PointerDown(x, y)
		}
	case !pressed && ps.down:
		if ps.popupCapture {
			s.popup.release(x, y)
		} else {
			n := s.PointerUp(x, y)
			s.logger.Debug(s.ctx(), "pointer release",
				logging.F("pointer", pointerID), logging.F("button", ps.button), logging.F("popped", n))
		}
		ps.down = false
		ps.popupCapture = false
	}
	ps.lastX = x
	ps.lastY = y
}
