package console

/*
Status console of the memory unit. The idea is to run the console in a
goroutine: the machine pushes translation results and status lines
into a string channel and the console pumps them out, to stdout or to
a gocui view, so the core never waits for the terminal.
*/

// Console is the output surface the machine writes to. Both console
// flavors implement it.
type Console interface {
	WriteConsole(msg string) error
}
