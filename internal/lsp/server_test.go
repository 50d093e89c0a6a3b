package lsp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphqlintel/graphqlintel/internal/ide"
)

// frame writes one Content-Length-framed JSON-RPC message to b.
func frame(t *testing.T, b *bytes.Buffer, v interface{}) {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	fmt.Fprintf(b, "Content-Length: %d\r\n\r\n", len(body))
	b.Write(body)
}

// readFrames parses every Content-Length-framed message out of b's bytes.
func readFrames(t *testing.T, raw []byte) []map[string]interface{} {
	t.Helper()
	r := bufio.NewReader(bytes.NewReader(raw))
	var out []map[string]interface{}
	for {
		body, err := readMessage(r)
		if err != nil {
			break
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &m))
		out = append(out, m)
	}
	return out
}

func TestServerRespondsToInitialize(t *testing.T) {
	host := ide.NewAnalysisHost()
	s := NewServer(host)

	var in, out bytes.Buffer
	frame(t, &in, map[string]interface{}{"jsonrpc": "2.0", "id": 1, "method": "initialize", "params": map[string]interface{}{}})
	frame(t, &in, map[string]interface{}{"jsonrpc": "2.0", "method": "exit"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Run(ctx, &in, &out))

	msgs := readFrames(t, out.Bytes())
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "result")
}

func TestServerPublishesDiagnosticsOnDidOpen(t *testing.T) {
	host := ide.NewAnalysisHost()
	s := NewServer(host)

	var in, out bytes.Buffer
	frame(t, &in, map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  "textDocument/didOpen",
		"params": map[string]interface{}{
			"textDocument": map[string]interface{}{
				"uri":  "file:///schema.graphql",
				"text": "type Query { hero: Hero }\ntype Hero { name: String }",
			},
		},
	})
	frame(t, &in, map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  "textDocument/didOpen",
		"params": map[string]interface{}{
			"textDocument": map[string]interface{}{
				"uri":  "file:///op.graphql",
				"text": "query Q { hero { nam } }",
			},
		},
	})
	frame(t, &in, map[string]interface{}{"jsonrpc": "2.0", "method": "exit"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Run(ctx, &in, &out))

	msgs := readFrames(t, out.Bytes())
	require.NotEmpty(t, msgs)

	var sawDiagnosticsForOp bool
	for _, m := range msgs {
		if m["method"] != "textDocument/publishDiagnostics" {
			continue
		}
		params, ok := m["params"].(map[string]interface{})
		require.True(t, ok)
		if params["uri"] == "file:///op.graphql" {
			diags, _ := params["diagnostics"].([]interface{})
			if len(diags) > 0 {
				sawDiagnosticsForOp = true
			}
		}
	}
	assert.True(t, sawDiagnosticsForOp, "expected at least one publishDiagnostics notification carrying a diagnostic for the invalid field")
}

func TestServerRespondsToUnknownMethodWithError(t *testing.T) {
	host := ide.NewAnalysisHost()
	s := NewServer(host)

	var in, out bytes.Buffer
	frame(t, &in, map[string]interface{}{"jsonrpc": "2.0", "id": 7, "method": "textDocument/bogus"})
	frame(t, &in, map[string]interface{}{"jsonrpc": "2.0", "method": "exit"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Run(ctx, &in, &out))

	msgs := readFrames(t, out.Bytes())
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "error")
}
