package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"xdao.co/epcis/canon"
	"xdao.co/epcis/cidutil"
	"xdao.co/epcis/compliance"
	"xdao.co/epcis/config"
	"xdao.co/epcis/dlink"
	"xdao.co/epcis/eventhash"
	"xdao.co/epcis/hashsvc"
)

// hashFlags are shared by every command that canonicalizes events.
type hashFlags struct {
	configPath string
	mode       string
	context    string
	includeErr bool
}

func (h *hashFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&h.configPath, "config", "", "YAML config file (default $"+config.EnvVar+")")
	fs.StringVar(&h.mode, "mode", "", "strict or lenient (overrides config)")
	fs.StringVar(&h.context, "context", "", "namespace context: JSON, a bare URI, or @file")
	fs.BoolVar(&h.includeErr, "include-error-declaration", false, "include errorDeclaration in the pre-hash")
}

// setup loads the config and applies flag overrides.
func (h *hashFlags) setup(fs *pflag.FlagSet) (*config.Config, []eventhash.Option, any, error) {
	cfg, err := config.Load(h.configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	opts := cfg.Options()
	if h.mode != "" {
		m, err := compliance.ParseMode(h.mode)
		if err != nil {
			return nil, nil, nil, err
		}
		opts.Mode = m
	}
	if fs.Changed("include-error-declaration") {
		opts.IncludeErrorDeclaration = h.includeErr
	}
	ctx := cfg.Context
	if h.context != "" {
		ctx, err = parseContext(h.context)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return cfg, []eventhash.Option{
		eventhash.WithMode(opts.Mode),
		eventhash.WithErrorDeclaration(opts.IncludeErrorDeclaration),
	}, ctx, nil
}

func parseContext(s string) (any, error) {
	if path, ok := strings.CutPrefix(s, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read context: %w", err)
		}
		return canon.DecodeValue(b)
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, nil
	}
	switch trimmed[0] {
	case '{', '[', '"':
		return canon.DecodeValue([]byte(trimmed))
	default:
		return trimmed, nil
	}
}

func readInput(name string, in io.Reader) (canon.Node, error) {
	if name == "-" {
		return canon.Decode(in)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return canon.Decode(f)
}

// hashInput hashes every event of doc, applying ctx beneath the document's
// own @context.
func hashInput(doc canon.Node, ctx any, opts []eventhash.Option) ([]eventhash.Result, error) {
	if ctx == nil {
		return eventhash.HashDocument(doc, opts...)
	}
	events, err := eventhash.Events(doc)
	if err != nil {
		return nil, err
	}
	b := eventhash.NewBuilder(opts...)
	full := []any{ctx}
	if doc["epcisBody"] != nil && doc["@context"] != nil {
		full = append(full, doc["@context"])
	}
	results := make([]eventhash.Result, 0, len(events))
	for i, ev := range events {
		pre, err := b.PreHash(ev, full)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		id, _ := ev["eventID"].(string)
		results = append(results, eventhash.Result{Index: i, EventID: id, Hash: eventhash.Hash(pre), PreHash: pre})
	}
	return results, nil
}

func cmdHash(args []string, in io.Reader, out, errOut io.Writer, preOnly bool) int {
	name := "hash"
	if preOnly {
		name = "prehash"
	}
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(errOut)
	var hf hashFlags
	hf.register(fs)
	format := fs.String("format", "text", "output format: text, json, yaml or cbor")
	withPre := fs.Bool("prehash", false, "include the pre-hash string in the output")
	archive := fs.Bool("archive", false, "record pre-hash strings in the configured store")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(errOut, "usage: epcis-hash %s [flags] <file|->\n", name)
		return 2
	}
	cfg, opts, ctx, err := hf.setup(fs)
	if err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 2
	}
	doc, err := readInput(fs.Arg(0), in)
	if err != nil {
		fmt.Fprintf(errOut, "read input: %v\n", err)
		return 1
	}
	results, err := hashInput(doc, ctx, opts)
	if err != nil {
		fmt.Fprintf(errOut, "hash: %v\n", err)
		return 1
	}

	if preOnly {
		for _, r := range results {
			fmt.Fprintln(out, r.PreHash)
		}
		return 0
	}

	if *archive {
		a, err := cfg.OpenArchive()
		if err != nil {
			fmt.Fprintf(errOut, "open store: %v\n", err)
			return 1
		}
		if a == nil {
			fmt.Fprintln(errOut, "--archive requires store.dirs in the config")
			return 2
		}
		for _, r := range results {
			if _, _, err := a.Put(r.PreHash); err != nil {
				fmt.Fprintf(errOut, "archive event %d: %v\n", r.Index, err)
				return 1
			}
		}
	}

	if !*withPre {
		for i := range results {
			results[i].PreHash = ""
		}
	}
	if err := writeResults(out, *format, results); err != nil {
		fmt.Fprintf(errOut, "%v\n", err)
		return 2
	}
	return 0
}

func writeResults(out io.Writer, format string, results []eventhash.Result) error {
	switch format {
	case "text":
		for _, r := range results {
			if r.PreHash != "" {
				fmt.Fprintf(out, "%s\t%s\n", r.Hash, r.PreHash)
				continue
			}
			fmt.Fprintln(out, r.Hash)
		}
		return nil
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(results)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		return enc.Close()
	case "cbor":
		b, err := eventhash.MarshalRecords(results)
		if err != nil {
			return err
		}
		_, err = out.Write(b)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func cmdCID(args []string, in io.Reader, out, errOut io.Writer) int {
	fs := pflag.NewFlagSet("cid", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	var hf hashFlags
	hf.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: epcis-hash cid [flags] <file|->")
		return 2
	}
	_, opts, ctx, err := hf.setup(fs)
	if err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 2
	}
	doc, err := readInput(fs.Arg(0), in)
	if err != nil {
		fmt.Fprintf(errOut, "read input: %v\n", err)
		return 1
	}
	results, err := hashInput(doc, ctx, opts)
	if err != nil {
		fmt.Fprintf(errOut, "hash: %v\n", err)
		return 1
	}
	for _, r := range results {
		c, err := cidutil.FromEventHash(r.Hash)
		if err != nil {
			fmt.Fprintf(errOut, "cid: %v\n", err)
			return 1
		}
		fmt.Fprintln(out, c.String())
	}
	return 0
}

func cmdAssignIDs(args []string, in io.Reader, out, errOut io.Writer) int {
	fs := pflag.NewFlagSet("assign-ids", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	var hf hashFlags
	hf.register(fs)
	overwrite := fs.Bool("overwrite", false, "replace existing eventIDs")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: epcis-hash assign-ids [flags] <file|->")
		return 2
	}
	_, opts, ctx, err := hf.setup(fs)
	if err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 2
	}
	if ctx != nil {
		fmt.Fprintln(errOut, "assign-ids uses the document's @context; --context and config context are not applied")
	}
	doc, err := readInput(fs.Arg(0), in)
	if err != nil {
		fmt.Fprintf(errOut, "read input: %v\n", err)
		return 1
	}
	n, err := eventhash.AssignEventIDs(doc, *overwrite, opts...)
	if err != nil {
		fmt.Fprintf(errOut, "assign-ids: %v\n", err)
		return 1
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		fmt.Fprintf(errOut, "write: %v\n", err)
		return 1
	}
	fmt.Fprintf(errOut, "assigned %d event id(s)\n", n)
	return 0
}

func cmdLookup(args []string, out, errOut io.Writer) int {
	fs := pflag.NewFlagSet("lookup", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	configPath := fs.String("config", "", "YAML config file (default $"+config.EnvVar+")")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: epcis-hash lookup [--config <file>] <event-hash>")
		return 2
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 2
	}
	a, err := cfg.OpenArchive()
	if err != nil {
		fmt.Fprintf(errOut, "open store: %v\n", err)
		return 1
	}
	if a == nil {
		fmt.Fprintln(errOut, "lookup requires store.dirs in the config")
		return 2
	}
	pre, err := a.Lookup(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "lookup: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, pre)
	return 0
}

func cmdNormalizeID(args []string, out, errOut io.Writer) int {
	fs := pflag.NewFlagSet("normalize-id", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	lenient := fs.Bool("lenient", false, "accept case variants of the urn:epc: scheme")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(errOut, "usage: epcis-hash normalize-id [--lenient] <uri> [<uri> ...]")
		return 2
	}
	status := 0
	for _, uri := range fs.Args() {
		canonical, ok := dlink.Canonical(uri, !*lenient)
		if !ok {
			fmt.Fprintf(errOut, "not a recognized identifier: %s\n", uri)
			status = 1
		}
		fmt.Fprintln(out, canonical)
	}
	return status
}

func cmdCheckDigit(args []string, out, errOut io.Writer) int {
	fs := pflag.NewFlagSet("check-digit", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	length := fs.IntP("length", "n", 14, "zero-pad the result to this many digits")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: epcis-hash check-digit [--length N] <digits>")
		return 2
	}
	if _, err := strconv.ParseUint(fs.Arg(0), 10, 64); err != nil {
		fmt.Fprintf(errOut, "not a digit string: %s\n", fs.Arg(0))
		return 1
	}
	fmt.Fprintln(out, dlink.AddCheckDigitAndZeroPad(fs.Arg(0), *length))
	return 0
}

func cmdRemote(args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: epcis-hash remote (hash|prehash|get) --addr <host:port> <arg>")
		return 2
	}
	op := args[0]
	fs := pflag.NewFlagSet("remote "+op, pflag.ContinueOnError)
	fs.SetOutput(errOut)
	addr := fs.String("addr", "127.0.0.1:7687", "epcis-hashd address")
	timeout := fs.Duration("timeout", 10*time.Second, "per-call timeout")
	requestID := fs.String("request-id", "", "correlation id sent to the server")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(errOut, "usage: epcis-hash remote %s --addr <host:port> <arg>\n", op)
		return 2
	}

	client, err := hashsvc.Dial(*addr, hashsvc.DialOptions{Timeout: *timeout})
	if err != nil {
		fmt.Fprintf(errOut, "dial: %v\n", err)
		return 1
	}
	defer client.Close()
	ctx := context.Background()
	if *requestID != "" {
		ctx = hashsvc.WithRequestID(ctx, *requestID)
	}

	var result string
	switch op {
	case "hash", "prehash":
		var body []byte
		if fs.Arg(0) == "-" {
			var buf bytes.Buffer
			if _, err := buf.ReadFrom(in); err != nil {
				fmt.Fprintf(errOut, "read input: %v\n", err)
				return 1
			}
			body = buf.Bytes()
		} else if body, err = os.ReadFile(fs.Arg(0)); err != nil {
			fmt.Fprintf(errOut, "read input: %v\n", err)
			return 1
		}
		if op == "hash" {
			result, err = client.Hash(ctx, body)
		} else {
			result, err = client.PreHash(ctx, body)
		}
	case "get":
		result, err = client.Get(ctx, fs.Arg(0))
	default:
		fmt.Fprintf(errOut, "unknown remote operation: %s\n", op)
		return 2
	}
	if err != nil {
		fmt.Fprintf(errOut, "remote %s: %v\n", op, err)
		return 1
	}
	fmt.Fprintln(out, result)
	return 0
}
