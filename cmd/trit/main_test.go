package main

import (
	"bytes"
	"context"
	"net"
	"path/filepath"
	"strings"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"github.com/danielpatrickdp/ternary-kernel/internal/codec"
	"github.com/danielpatrickdp/ternary-kernel/internal/trit"
)

// #region helpers
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// #endregion helpers

// #region local-tests
func TestCLI_Decide(t *testing.T) {
	cases := map[string]string{
		"0.99": "🟢 on",
		"0.5":  "🟡 uncertain",
		"0.01": "🔴 off",
	}
	for in, want := range cases {
		out, err := runCLI(t, "decide", "--delta", "0.05", in)
		if err != nil {
			t.Fatalf("decide %s: %v", in, err)
		}
		if strings.TrimSpace(out) != want {
			t.Errorf("decide %s = %q, want %q", in, out, want)
		}
	}
}

func TestCLI_Connectives(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"and", "on", "psi"}, "uncertain"},
		{[]string{"and", "off", "psi"}, "off"},
		{[]string{"or", "on", "psi"}, "on"},
		{[]string{"xor", "on", "off"}, "on"},
		{[]string{"xor", "on", "maybe"}, "uncertain"},
		{[]string{"not", "off"}, "on"},
		{[]string{"consensus", "on", "on", "off"}, "on"},
		{[]string{"consensus", "on", "off"}, "uncertain"},
	}
	for _, tc := range cases {
		out, err := runCLI(t, tc.args...)
		if err != nil {
			t.Fatalf("%v: %v", tc.args, err)
		}
		if !strings.HasSuffix(strings.TrimSpace(out), tc.want) {
			t.Errorf("%v = %q, want suffix %q", tc.args, out, tc.want)
		}
	}
}

func TestCLI_WireCodeArguments(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"and", "2", "2"}, "on"},
		{[]string{"or", "1", "0"}, "uncertain"},
		{[]string{"and", "0", "2"}, "off"},
		{[]string{"not", "2"}, "off"},
		{[]string{"not", "0"}, "on"},
		{[]string{"or", "7", "off"}, "uncertain"},
	}
	for _, tc := range cases {
		out, err := runCLI(t, tc.args...)
		if err != nil {
			t.Fatalf("%v: %v", tc.args, err)
		}
		if got := strings.Fields(out); len(got) != 2 || got[1] != tc.want {
			t.Errorf("%v = %q, want %q", tc.args, out, tc.want)
		}
	}
}

func TestCLI_BadEnvironmentFails(t *testing.T) {
	t.Setenv("TERNARY_DELTA", "abc")
	if _, err := runCLI(t, "decide", "0.9"); err == nil {
		t.Fatal("expected error for unparsable TERNARY_DELTA")
	}
}

func TestCLI_NonFiniteRecorded(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	out, err := runCLI(t, "--db", db, "--record", "classify", "inf")
	if err != nil {
		t.Fatalf("classify inf --record: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "on") {
		t.Fatalf("classify inf = %q, want on", out)
	}
	out, err = runCLI(t, "--db", db, "ledger")
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if !strings.Contains(out, `"+Inf"`) {
		t.Fatalf("expected +Inf in ledger output:\n%s", out)
	}
}

func TestCLI_RejectsBadInput(t *testing.T) {
	if _, err := runCLI(t, "and", "on", "sideways"); err == nil {
		t.Fatal("expected error for unknown state")
	}
	if _, err := runCLI(t, "classify", "abc"); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}

func TestCLI_ResolveSeeded(t *testing.T) {
	first, err := runCLI(t, "resolve", "--seed", "9", "-n", "20", "0.5")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, _ := runCLI(t, "resolve", "--seed", "9", "-n", "20", "0.5")
	if first != second {
		t.Fatal("same seed produced different output")
	}
	if strings.Contains(first, "uncertain") {
		t.Fatal("resolve must never print uncertain")
	}
	if lines := strings.Count(first, "\n"); lines != 20 {
		t.Fatalf("expected 20 lines, got %d", lines)
	}
}

func TestCLI_Symbols(t *testing.T) {
	out, err := runCLI(t, "symbols")
	if err != nil {
		t.Fatalf("symbols: %v", err)
	}
	for _, s := range trit.States {
		if !strings.Contains(out, s.Symbol()) {
			t.Errorf("symbols output missing %s", s.Symbol())
		}
	}
}

func TestCLI_RecordAndLedger(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	if _, err := runCLI(t, "--db", db, "--record", "--category", "sensor", "decide", "0.5"); err != nil {
		t.Fatalf("decide --record: %v", err)
	}
	if _, err := runCLI(t, "--db", db, "--record", "and", "on", "on"); err != nil {
		t.Fatalf("and --record: %v", err)
	}

	out, err := runCLI(t, "--db", db, "ledger")
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if !strings.Contains(out, "Recent evaluations (2)") {
		t.Fatalf("expected two evaluations:\n%s", out)
	}
	if !strings.Contains(out, "sensor") {
		t.Fatalf("expected category in ledger output:\n%s", out)
	}
}

// #endregion local-tests

// #region remote-tests
func TestCallRemote(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	codec.RegisterCodecServiceServer(srv, codec.NewServer(nil, nil))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	client, err := codec.NewCodecClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	if err != nil {
		t.Fatalf("NewCodecClient: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	cases := []struct {
		op   string
		args []string
		want trit.State
	}{
		{"and", []string{"on", "psi"}, trit.Uncertain},
		{"or3", []string{"off", "on"}, trit.On},
		{"xor", []string{"on", "on"}, trit.Off},
		{"not", []string{"psi"}, trit.Uncertain},
		{"decide", []string{"0.97"}, trit.On},
		{"and", []string{"2", "2"}, trit.On},
		{"or", []string{"1", "0"}, trit.Uncertain},
		{"not", []string{"0"}, trit.On},
	}
	for _, tc := range cases {
		code, err := callRemote(ctx, client, 0.05, tc.op, tc.args)
		if err != nil {
			t.Fatalf("%s %v: %v", tc.op, tc.args, err)
		}
		if got := codec.Decode(code); got != tc.want {
			t.Errorf("%s %v = %v, want %v", tc.op, tc.args, got, tc.want)
		}
	}

	if _, err := callRemote(ctx, client, 0.05, "nand", []string{"on", "on"}); err == nil {
		t.Fatal("expected error for unknown op")
	}
	if _, err := callRemote(ctx, client, 0.05, "and", []string{"on"}); err == nil {
		t.Fatal("expected arity error")
	}
}

// #endregion remote-tests

// #region replay-tests
func TestCLI_ReplayFixture(t *testing.T) {
	fixture := filepath.Join("..", "..", "internal", "replay", "testdata", "kleene_session.json")
	out, err := runCLI(t, "replay", "--fixture", fixture)
	if err != nil {
		t.Fatalf("replay: %v\n%s", err, out)
	}
	if !strings.Contains(out, "16 total, 16 match, 0 diverge") {
		t.Fatalf("unexpected summary:\n%s", out)
	}
}

func TestCLI_ReplayLedgerExport(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "cli.db")
	for _, args := range [][]string{
		{"decide", "0.97"},
		{"or", "off", "psi"},
		{"not", "on"},
	} {
		if _, err := runCLI(t, append([]string{"--db", db, "--record"}, args...)...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	out, err := runCLI(t, "--db", db, "replay")
	if err != nil {
		t.Fatalf("replay ledger: %v\n%s", err, out)
	}
	if !strings.Contains(out, "3 total, 3 match") {
		t.Fatalf("unexpected summary:\n%s", out)
	}

	export := filepath.Join(dir, "export.json")
	if _, err := runCLI(t, "--db", db, "replay", "--export", export); err != nil {
		t.Fatalf("export: %v", err)
	}
	out, err = runCLI(t, "replay", "--fixture", export)
	if err != nil {
		t.Fatalf("replay export: %v\n%s", err, out)
	}
}

// #endregion replay-tests
