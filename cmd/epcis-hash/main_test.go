package main

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"google.golang.org/grpc"

	"xdao.co/epcis/canon"
	"xdao.co/epcis/eventhash"
	"xdao.co/epcis/hashsvc"
)

const minimalHash = "ni:///sha-256;7aa6d15415d4b429d7c4f7b3f1aaebcdbd9a12ad5c6ff4951247b61e621b9659?ver=CBV2.0"

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("EPCIS_HASH_CONFIG", "")
	var out, errOut bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRun_Usage(t *testing.T) {
	if code, _, _ := runCLI(t, ""); code != 2 {
		t.Fatalf("no args: code %d", code)
	}
	if code, _, errOut := runCLI(t, "", "frobnicate"); code != 2 || !strings.Contains(errOut, "unknown command") {
		t.Fatalf("unknown command: code %d stderr %q", code, errOut)
	}
	if code, out, _ := runCLI(t, "", "help"); code != 0 || !strings.Contains(out, "Usage:") {
		t.Fatalf("help: code %d", code)
	}
}

func TestHash_Stdin(t *testing.T) {
	code, out, errOut := runCLI(t, `{"type":"ObjectEvent"}`, "hash", "-")
	if code != 0 {
		t.Fatalf("code %d: %s", code, errOut)
	}
	if strings.TrimSpace(out) != minimalHash {
		t.Fatalf("got %q", out)
	}
}

func TestHash_ContextFlagAndModes(t *testing.T) {
	event := `{"type":"ObjectEvent","ex:lot":"7"}`
	if code, _, _ := runCLI(t, event, "hash", "-"); code != 1 {
		t.Fatalf("undeclared prefix must fail in strict mode, code %d", code)
	}
	if code, out, _ := runCLI(t, event, "hash", "--mode", "lenient", "-"); code != 0 || strings.TrimSpace(out) != minimalHash {
		t.Fatalf("lenient: code %d out %q", code, out)
	}
	code, out, errOut := runCLI(t, event, "prehash", "--context", `{"ex":"https://ex.org/"}`, "-")
	if code != 0 {
		t.Fatalf("code %d: %s", code, errOut)
	}
	if strings.TrimSpace(out) != "eventType=ObjectEvent{https://ex.org/}lot=7" {
		t.Fatalf("got %q", out)
	}
}

func TestHash_Formats(t *testing.T) {
	event := `{"type":"ObjectEvent"}`

	code, out, _ := runCLI(t, event, "hash", "--format", "json", "--prehash", "-")
	if code != 0 || !strings.Contains(out, `"preHash": "eventType=ObjectEvent"`) {
		t.Fatalf("json: code %d out %s", code, out)
	}

	code, out, _ = runCLI(t, event, "hash", "--format", "yaml", "-")
	if code != 0 || !strings.Contains(out, "hash: ni:///sha-256;7aa6") {
		t.Fatalf("yaml: code %d out %s", code, out)
	}

	code, out, _ = runCLI(t, event, "hash", "--format", "cbor", "-")
	if code != 0 {
		t.Fatalf("cbor: code %d", code)
	}
	records, err := eventhash.UnmarshalRecords([]byte(out))
	if err != nil || len(records) != 1 || records[0].Hash != minimalHash {
		t.Fatalf("cbor records %+v err %v", records, err)
	}

	if code, _, _ := runCLI(t, event, "hash", "--format", "xml", "-"); code != 2 {
		t.Fatalf("unknown format: code %d", code)
	}
}

func TestArchiveAndLookup(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, "cfg.yaml", "store:\n  dirs: ["+filepath.Join(dir, "store")+"]\n")

	code, out, errOut := runCLI(t, `{"type":"ObjectEvent"}`, "hash", "--config", cfg, "--archive", "-")
	if code != 0 {
		t.Fatalf("hash --archive: code %d %s", code, errOut)
	}
	code, out, errOut = runCLI(t, "", "lookup", "--config", cfg, strings.TrimSpace(out))
	if code != 0 {
		t.Fatalf("lookup: code %d %s", code, errOut)
	}
	if strings.TrimSpace(out) != "eventType=ObjectEvent" {
		t.Fatalf("lookup = %q", out)
	}

	if code, _, _ := runCLI(t, "", "lookup", "--config", cfg, eventhash.Hash("eventType=Other")); code != 1 {
		t.Fatalf("missing lookup: code %d", code)
	}
}

func TestCID(t *testing.T) {
	code, out, _ := runCLI(t, `{"type":"ObjectEvent"}`, "cid", "-")
	if code != 0 || !strings.HasPrefix(strings.TrimSpace(out), "bafkrei") {
		t.Fatalf("cid: code %d out %q", code, out)
	}
}

func TestAssignIDs(t *testing.T) {
	doc := `{"epcisBody":{"eventList":[{"type":"ObjectEvent"}]}}`
	code, out, errOut := runCLI(t, doc, "assign-ids", "-")
	if code != 0 {
		t.Fatalf("code %d: %s", code, errOut)
	}
	n, err := canon.Decode(strings.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	events, err := eventhash.Events(n)
	if err != nil || events[0]["eventID"] != minimalHash {
		t.Fatalf("events %v err %v", events, err)
	}
}

func TestNormalizeID(t *testing.T) {
	code, out, _ := runCLI(t, "", "normalize-id", "urn:epc:id:sgtin:0614141.011111.987", "not-an-id")
	if code != 1 {
		t.Fatalf("unrecognized id must set exit code 1, got %d", code)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || lines[0] != "https://id.gs1.org/01/00614141111114/21/987" || lines[1] != "not-an-id" {
		t.Fatalf("got %q", lines)
	}

	code, out, _ = runCLI(t, "", "normalize-id", "--lenient", "URN:EPC:id:sgtin:0614141.011111.987")
	if code != 0 || strings.TrimSpace(out) != "https://id.gs1.org/01/00614141111114/21/987" {
		t.Fatalf("lenient: code %d out %q", code, out)
	}
}

func TestCheckDigit(t *testing.T) {
	code, out, _ := runCLI(t, "", "check-digit", "7447010150")
	if code != 0 || strings.TrimSpace(out) != "00074470101505" {
		t.Fatalf("code %d out %q", code, out)
	}
	if code, _, _ := runCLI(t, "", "check-digit", "12a"); code != 1 {
		t.Fatalf("non-digits: code %d", code)
	}
}

func TestRemote(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	gs := grpc.NewServer()
	hashsvc.RegisterEventHashServer(gs, &hashsvc.Server{Builder: canon.NewBuilder(canon.Options{})})
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	code, out, errOut := runCLI(t, `{"type":"ObjectEvent"}`, "remote", "hash", "--addr", lis.Addr().String(), "-")
	if code != 0 {
		t.Fatalf("remote hash: code %d %s", code, errOut)
	}
	if strings.TrimSpace(out) != minimalHash {
		t.Fatalf("remote hash = %q", out)
	}
}
