package vm

import (
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"

	"svm/vaddr"
)

// ProcessAddresses translates one line of decimal virtual addresses
// from inPath and writes the results to outPath: one space joined
// line, the physical address for every hit and -1 for every fault, in
// input order.
func (sys *System) ProcessAddresses(inPath, outPath string) error {
	data, err := ioutil.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading address file: %w", err)
	}
	line := strings.SplitN(string(data), "\n", 2)[0]

	tokens := strings.Fields(line)
	results := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.ParseUint(tok, 10, 32)
		if err != nil {
			return fmt.Errorf("bad virtual address %q", tok)
		}
		va := vaddr.VA(n)
		pa, terr := sys.Mmu.Translate(va)
		if terr != nil {
			pa = -1
		}
		results = append(results, strconv.Itoa(int(pa)))
		if sys.OnResult != nil {
			sys.OnResult(va, pa)
		}
	}

	if err := ioutil.WriteFile(outPath, []byte(strings.Join(results, " ")), 0644); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}

	sys.log.Printf("batch: %d addresses, results in %s", len(tokens), outPath)
	_ = sys.console.WriteConsole(fmt.Sprintf("%d addresses translated, results in %s.\n",
		len(tokens), outPath))
	return nil
}
