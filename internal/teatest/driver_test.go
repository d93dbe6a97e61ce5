package teatest

import (
	"strconv"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type loadedMsg int

// counter loads a start value in Init and counts key presses.
type counter struct {
	n     int
	width int
}

func (c counter) Init() tea.Cmd {
	return func() tea.Msg { return loadedMsg(10) }
}

func (c counter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
	case loadedMsg:
		c.n = int(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "+", " ":
			c.n++
		case "down":
			c.n--
		case "enter":
			c.n = 0
		case "q":
			return c, tea.Quit
		case "b":
			return c, tea.Batch(
				func() tea.Msg { return loadedMsg(100) },
				nil,
			)
		}
	}
	return c, nil
}

func (c counter) View() string {
	return "count " + strconv.Itoa(c.n)
}

func TestDriver_InitAndKeys(t *testing.T) {
	d := New(t, counter{}, WithSize(80, 24))
	assert.Equal(t, 80, d.Model.(counter).width)

	d.DrainInit()
	d.AssertViewContains("count 10")

	d.Press("++")
	d.PressSpace()
	d.PressDown()
	d.AssertViewContains("count 12")
}

func TestDriver_EnterResets(t *testing.T) {
	d := New(t, counter{})
	d.DrainInit()

	d.PressEnter()
	d.AssertViewContains("count 0")
	d.PressKey('+')
	assert.Equal(t, "count 1", d.View())
}

func TestDriver_Batch(t *testing.T) {
	d := New(t, counter{})

	d.PressKey('b')
	d.AssertViewContains("count 100")
}

func TestDriver_QuitStopsInput(t *testing.T) {
	d := New(t, counter{})

	d.PressKey('q')
	assert.True(t, d.Quitting)

	d.PressKey('+')
	assert.Equal(t, "count 0", d.View())
}
