// vector_gen regenerates the .hashes golden files next to EPCIS test
// documents. Review the diff before committing: a changed hash means the
// canonical form changed.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"xdao.co/epcis/canon"
	"xdao.co/epcis/eventhash"
)

func main() {
	dir := pflag.String("dir", "eventhash/testdata", "directory holding *.jsonld documents")
	check := pflag.Bool("check", false, "report stale golden files instead of rewriting them")
	pflag.Parse()

	docs, err := filepath.Glob(filepath.Join(*dir, "*.jsonld"))
	if err != nil {
		panic(err)
	}
	stale := 0
	for _, path := range docs {
		want, err := hashes(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			os.Exit(1)
		}
		golden := strings.TrimSuffix(path, ".jsonld") + ".hashes"
		have, _ := os.ReadFile(golden)
		if string(have) == want {
			continue
		}
		if *check {
			fmt.Printf("stale: %s\n", golden)
			stale++
			continue
		}
		if err := os.WriteFile(golden, []byte(want), 0o644); err != nil {
			panic(err)
		}
		fmt.Printf("wrote %s\n", golden)
	}
	if stale > 0 {
		os.Exit(1)
	}
}

func hashes(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	doc, err := canon.Decode(f)
	if err != nil {
		return "", err
	}
	results, err := eventhash.HashDocument(doc)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, r := range results {
		b.WriteString(r.Hash)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
