package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/phanxgames/bubblepop"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

type stubGenerator struct{ text string }

func (g stubGenerator) Generate(context.Context, string) (string, error) { return g.text, nil }

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var _ = Describe("Model", func() {
	var (
		scene *bubblepop.Scene
		m     *Model
	)

	BeforeEach(func() {
		scene = bubblepop.NewScene()
		scene.SetSeed(1)
		m = New(scene)
	})

	It("shows a placeholder until the terminal size is known", func() {
		Expect(m.View()).To(Equal("Initializing…"))
		Expect(scene.Len()).To(BeZero())
	})

	Context("after a window size message", func() {
		BeforeEach(func() {
			m.Update(tea.WindowSizeMsg{Width: 80, Height: 25})
		})

		It("resets the scene to the canvas in pixels", func() {
			Expect(scene.Len()).To(Equal(15))
			Expect(scene.Bounds().Width).To(Equal(80 * cellW))
			Expect(scene.Bounds().Height).To(Equal(24 * cellH))
		})

		It("renders one line per canvas row plus the status line", func() {
			lines := strings.Split(m.View(), "\n")
			Expect(lines).To(HaveLen(25))
			Expect(lines[24]).To(ContainSubstring("bubbles 15"))
		})

		It("advances the simulation on every tick", func() {
			_, cmd := m.Update(tickMsg(time.Now()))
			Expect(cmd).NotTo(BeNil())
			Expect(scene.Ticks()).To(Equal(uint64(1)))
		})

		It("samples the population every half second", func() {
			for i := 0; i < sampleEvery*3; i++ {
				m.Update(tickMsg(time.Now()))
			}
			Expect(m.History()).To(Equal([]float64{15, 15, 15}))
		})

		It("pops a bubble on press and release over it", func() {
			for i := 0; i < 90; i++ {
				m.Update(tickMsg(time.Now()))
			}
			b := scene.Bubbles()[0]
			col, row := int(b.X/cellW), int(b.Y/cellH)

			m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
			m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionRelease})

			Expect(scene.Len()).To(BeNumerically(">", 15))
			Expect(scene.Pops()).To(BeNumerically(">=", 1))
		})

		It("does not pop on release without a press", func() {
			m.Update(tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionRelease})
			Expect(scene.Len()).To(Equal(15))
		})

		It("repopulates on r", func() {
			for i := 0; i < 90; i++ {
				m.Update(tickMsg(time.Now()))
			}
			b := scene.Bubbles()[0]
			col, row := int(b.X/cellW), int(b.Y/cellH)
			m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
			m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionRelease})

			m.Update(key("r"))
			Expect(scene.Len()).To(Equal(15))
		})

		It("toggles the history plot and shrinks the canvas", func() {
			m.Update(key("h"))
			Expect(scene.Bounds().Height).To(Equal(float64(24-graphHeight-2) * cellH))
			Expect(m.View()).To(ContainSubstring("collecting population samples"))
		})

		It("quits on q", func() {
			_, cmd := m.Update(key("q"))
			Expect(cmd).NotTo(BeNil())
			Expect(cmd()).To(Equal(tea.Quit()))
		})
	})

	Context("with a popup", func() {
		var clock *fakeClock

		BeforeEach(func() {
			clock = &fakeClock{t: time.Unix(1_700_000_000, 0)}
			scene.SetPopup(bubblepop.NewPopup(stubGenerator{text: "Bubbles are **brief**."},
				bubblepop.WithClock(clock.now), bubblepop.WithInterval(time.Minute)))
			m.Update(tea.WindowSizeMsg{Width: 80, Height: 25})
		})

		It("shows the popup once the interval elapses", func() {
			clock.t = clock.t.Add(time.Minute)
			m.Update(tickMsg(clock.t))
			Expect(scene.Popup().Visible()).To(BeTrue())
			Expect(m.View()).To(ContainSubstring("wasted"))
		})

		It("ignores the mouse while the popup is up", func() {
			clock.t = clock.t.Add(time.Minute)
			m.Update(tickMsg(clock.t))
			b := scene.Bubbles()[0]
			col, row := int(b.X/cellW), int(b.Y/cellH)
			m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
			m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionRelease})
			Expect(scene.Pops()).To(BeZero())
		})

		It("generates on g and applies the thought on a later tick", func() {
			clock.t = clock.t.Add(time.Minute)
			m.Update(tickMsg(clock.t))
			m.Update(key("g"))
			Expect(scene.Popup().Loading()).To(BeTrue())

			Eventually(func() bool {
				m.Update(tickMsg(clock.t))
				return scene.Popup().Loading()
			}).Should(BeFalse())
			Expect(scene.Popup().Message()).To(Equal("Bubbles are **brief**."))
			Expect(m.View()).To(ContainSubstring("brief"))
		})

		It("dismisses on esc", func() {
			clock.t = clock.t.Add(time.Minute)
			m.Update(tickMsg(clock.t))
			m.Update(key("esc"))
			Expect(scene.Popup().Visible()).To(BeFalse())
		})
	})
})

var _ = Describe("hslToHex", func() {
	DescribeTable("matches reference colors",
		func(h, s, l float64, want string) {
			Expect(hslToHex(h, s, l)).To(Equal(want))
		},
		Entry("red", 0.0, 1.0, 0.5, "#FF0000"),
		Entry("pastel red", 0.0, 1.0, 0.75, "#FF8080"),
		Entry("pastel green", 120.0, 1.0, 0.75, "#80FF80"),
		Entry("pastel blue", 240.0, 1.0, 0.75, "#8080FF"),
		Entry("negative hue wraps", -120.0, 1.0, 0.5, "#0000FF"),
		Entry("full turn wraps", 360.0, 1.0, 0.5, "#FF0000"),
	)
})
