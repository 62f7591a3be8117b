package console

import (
	"os"
	"strings"
)

// Simple console type definition
type Simple struct {
	consoleOut chan string // string channel, to which the console data is sent to
}

// NewSimple returns a pointer to the new console and runs the initialization procedure:
func NewSimple() *Simple {
	c := new(Simple)
	c.consoleOut = make(chan string)
	c.initSimple()
	return c
}

// initSimple starts the output pump
func (c *Simple) initSimple() {
	go func() {
		for {
			s := <-c.consoleOut
			os.Stdout.Write([]byte(s))
		}
	}()
}

// WriteConsole displays a string on the console
func (c *Simple) WriteConsole(msg string) error {
	for _, line := range strings.Split(msg, "\n") {
		if line != "" {
			c.consoleOut <- line + "\n"
		}
	}
	return nil
}
