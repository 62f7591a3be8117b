package console

import (
	"fmt"
	"strings"

	"github.com/jroimartin/gocui"
)

// Gui console writes into the translations view of the gocui
// frontend. View updates have to go through gocui.Update, hence the
// channel and the pump goroutine.
type Gui struct {
	consoleOut chan string // string channel, to which the console data is sent to
	g          *gocui.Gui  // main gocui GUI object
	v          *gocui.View // gocui view the console writes to
}

// NewGui returns a pointer to the new console and runs the initialization procedure:
func NewGui(g *gocui.Gui) *Gui {
	c := new(Gui)
	c.consoleOut = make(chan string)
	c.g = g
	c.v, _ = g.View("translations")
	c.initGui()
	return c
}

// initGui starts the output pump
func (c *Gui) initGui() {
	go func() {
		for {
			s := <-c.consoleOut
			c.g.Update(func(g *gocui.Gui) error {
				fmt.Fprintf(c.v, "%s", s)
				return nil
			})
		}
	}()
}

// WriteConsole displays a string on the console
func (c *Gui) WriteConsole(msg string) error {
	for _, line := range strings.Split(msg, "\n") {
		if line != "" {
			c.consoleOut <- line + "\n"
			c.v.MoveCursor(0, 1, true)
		}
	}
	return nil
}
