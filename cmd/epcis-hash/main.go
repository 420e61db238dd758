package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "hash":
		return cmdHash(args[1:], in, out, errOut, false)
	case "prehash":
		return cmdHash(args[1:], in, out, errOut, true)
	case "cid":
		return cmdCID(args[1:], in, out, errOut)
	case "assign-ids":
		return cmdAssignIDs(args[1:], in, out, errOut)
	case "lookup":
		return cmdLookup(args[1:], out, errOut)
	case "normalize-id":
		return cmdNormalizeID(args[1:], out, errOut)
	case "check-digit":
		return cmdCheckDigit(args[1:], out, errOut)
	case "remote":
		return cmdRemote(args[1:], in, out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "epcis-hash: CBV 2.0 event hashes for EPCIS 2.0 events")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  epcis-hash hash [--format text|json|yaml|cbor] [--prehash] [--archive] <file|->")
	fmt.Fprintln(w, "  epcis-hash prehash <file|->")
	fmt.Fprintln(w, "  epcis-hash cid <file|->")
	fmt.Fprintln(w, "  epcis-hash assign-ids [--overwrite] <file|->")
	fmt.Fprintln(w, "  epcis-hash lookup <event-hash>")
	fmt.Fprintln(w, "  epcis-hash normalize-id [--lenient] <uri> [<uri> ...]")
	fmt.Fprintln(w, "  epcis-hash check-digit [--length N] <digits>")
	fmt.Fprintln(w, "  epcis-hash remote (hash|prehash|get) --addr <host:port> <file|-|event-hash>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Common flags:")
	fmt.Fprintln(w, "  --config <file>              YAML config (default: $EPCIS_HASH_CONFIG)")
	fmt.Fprintln(w, "  --mode strict|lenient        override the configured mode")
	fmt.Fprintln(w, "  --context <json|uri|@file>   namespace context for custom fields")
	fmt.Fprintln(w, "  --include-error-declaration  hash errorDeclaration too")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - input is one event or an EPCIS document (JSON, comments allowed)")
	fmt.Fprintln(w, "  - a document's @context applies to all of its events")
	fmt.Fprintln(w, "  - cid prints the CIDv1 (raw, sha2-256) carrying each event hash")
}
