package main

import (
	"flag"
	"fmt"
	"time"

	"log"

	"svm/console"
	"svm/logger"
	"svm/vaddr"
	"svm/vm"

	"github.com/jroimartin/gocui"
)

/**
svm models a two level, segmented and paged virtual memory unit:
batch address translation with demand paging and LFU eviction, plus a
contiguous block allocator on the same frame pool. Runs either as a
plain batch filter or under a gocui status display.
*/

var (
	initFile    = flag.String("init", "init-dp.txt", "segment and page table init file")
	inputFile   = flag.String("input", "input-dp.txt", "virtual addresses to translate, single line")
	outputFile  = flag.String("output", "output.txt", "translation results file")
	consoleType = flag.String("console", "simple", "console type: simple or gui")
	debugMode   = flag.Bool("debug", false, "trace translations and allocations")
	logFile     = flag.String("logfile", "", "log file path, empty for stdout")
)

func main() {
	flag.Parse()
	logg := logger.New(*logFile)

	switch *consoleType {
	case "simple":
		runSimple(logg)
	case "gui":
		runGui(logg)
	default:
		logg.Fatalf("unknown console type: %s", *consoleType)
	}
}

// batch mode: load the tables, translate the input line, report.
func runSimple(logg *log.Logger) {
	sys := vm.New(console.NewSimple(), *debugMode, logg)
	if err := sys.LoadInitFile(*initFile); err != nil {
		logg.Fatalf("init: %v", err)
	}
	if err := sys.ProcessAddresses(*inputFile, *outputFile); err != nil {
		logg.Fatalf("batch: %v", err)
	}
	logg.Printf("done: %s", sys.Stats())
}

// gui mode: same batch run, watched through the gocui views.
func runGui(logg *log.Logger) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Panicln("Couldn't create gui!")
	}
	defer g.Close()

	g.SetManagerFunc(layout)

	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		log.Panicln(err)
	}

	// start the machine once the views exist
	g.Update(func(g *gocui.Gui) error {
		return startMachine(g, logg)
	})

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		log.Panicln(err)
	}
}

// startMachine wires the machine to the views and runs the batch in
// the background, so the main loop keeps serving the display.
func startMachine(g *gocui.Gui, logg *log.Logger) error {
	statusView, err := g.View("status")
	if err != nil {
		return err
	}
	statusView.Clear()
	fmt.Fprintf(statusView, "Starting virtual memory unit..\n")

	cons := console.NewGui(g)
	sys := vm.New(cons, *debugMode, logg)
	sys.OnResult = func(va vaddr.VA, pa int32) {
		_ = cons.WriteConsole(fmt.Sprintf("%s -> %d\n", va, pa))
	}

	go func() {
		if err := sys.LoadInitFile(*initFile); err != nil {
			logg.Printf("init: %v", err)
			_ = cons.WriteConsole(fmt.Sprintf("init failed: %v\n", err))
			return
		}
		_ = cons.WriteConsole(sys.DumpSegments())
		if err := sys.ProcessAddresses(*inputFile, *outputFile); err != nil {
			logg.Printf("batch: %v", err)
			_ = cons.WriteConsole(fmt.Sprintf("batch failed: %v\n", err))
			return
		}
		logg.Printf("done: %s", sys.Stats())
	}()

	updateStatus(sys, g)
	return nil
}

// updateStatus refreshes the frame pool and statistics display.
// has to run in a goroutine -> gocui allows updating the view only
// through the Update function
func updateStatus(sys *vm.System, g *gocui.Gui) {
	ticker := time.NewTicker(time.Second * 1)

	go func() {
		i := 0
		for range ticker.C {
			g.Update(func(g *gocui.Gui) error {
				v, err := g.View("frames")
				if err != nil {
					return err
				}
				v.Clear()
				fmt.Fprintf(v, "%s\n%s", sys.DumpPool(), sys.RecentEvents())

				s, err := g.View("status")
				if err != nil {
					return err
				}
				s.Clear()
				fmt.Fprintf(s, "%s <t: %d>", sys.Stats(), i)
				return nil
			})
			i++
		}
	}()
}

// gocui layout
func layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	// up -> translation results
	if v, err := g.SetView("translations", 0, 0, maxX-1, maxY-13); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Translations"
	}

	// middle -> frame pool and recent fault service events
	if v, err := g.SetView("frames", 0, maxY-12, maxX-1, maxY-4); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Frame pool"
	}
	// down -> status
	if v, err := g.SetView("status", 0, maxY-3, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Status"
	}
	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
