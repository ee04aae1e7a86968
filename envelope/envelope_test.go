package envelope

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestReadInputDecodesCommand(t *testing.T) {
	r := strings.NewReader(`{"tool_name":"Bash","tool_input":{"command":"ls -la"}}`)
	in, err := ReadInput(r)
	if err != nil {
		t.Fatalf("ReadInput error = %v", err)
	}
	if in.ToolName != "Bash" {
		t.Fatalf("ToolName = %q, want Bash", in.ToolName)
	}
	if in.ToolInput.Command != "ls -la" {
		t.Fatalf("ToolInput.Command = %q, want %q", in.ToolInput.Command, "ls -la")
	}
}

func TestReadInputIgnoresExtraFields(t *testing.T) {
	r := strings.NewReader(`{"tool_name":"Bash","tool_input":{"command":"pwd","description":"ignored"},"session_id":"abc"}`)
	in, err := ReadInput(r)
	if err != nil {
		t.Fatalf("ReadInput error = %v", err)
	}
	if in.ToolInput.Command != "pwd" {
		t.Fatalf("ToolInput.Command = %q, want pwd", in.ToolInput.Command)
	}
}

func TestReadInputEmptyIsTransportError(t *testing.T) {
	_, err := ReadInput(strings.NewReader(""))
	if err == nil {
		t.Fatal("ReadInput(empty) error = nil, want TransportError")
	}
	var te *TransportError
	if !asTransportError(err, &te) {
		t.Fatalf("ReadInput(empty) error type = %T, want *TransportError", err)
	}
}

func TestReadInputMalformedJSONIsTransportError(t *testing.T) {
	_, err := ReadInput(strings.NewReader(`{"tool_name": "Bash", `))
	if err == nil {
		t.Fatal("ReadInput(malformed) error = nil, want TransportError")
	}
	var te *TransportError
	if !asTransportError(err, &te) {
		t.Fatalf("ReadInput(malformed) error type = %T, want *TransportError", err)
	}
}

func TestNotBashIsEmptyPermission(t *testing.T) {
	out := NotBash()
	if out.Permission != "" || out.Reason != "" {
		t.Fatalf("NotBash() = %+v, want zero value", out)
	}
}

func TestWriteOutputRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	out := OutputEnvelope{Permission: PermissionAsk, Reason: "redirection to a regular file"}
	if err := WriteOutput(&buf, out); err != nil {
		t.Fatalf("WriteOutput error = %v", err)
	}
	var got OutputEnvelope
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode written output error = %v", err)
	}
	if got != out {
		t.Fatalf("round trip = %+v, want %+v", got, out)
	}
}

func TestWriteOutputAllowHasEmptyReason(t *testing.T) {
	var buf bytes.Buffer
	out := OutputEnvelope{Permission: PermissionAllow}
	if err := WriteOutput(&buf, out); err != nil {
		t.Fatalf("WriteOutput error = %v", err)
	}
	if !strings.Contains(buf.String(), `"permission":"allow"`) {
		t.Fatalf("encoded output = %q, want it to contain the allow permission", buf.String())
	}
	if !strings.Contains(buf.String(), `"reason":""`) {
		t.Fatalf("encoded output = %q, want an empty reason", buf.String())
	}
}

func asTransportError(err error, target **TransportError) bool {
	te, ok := err.(*TransportError)
	if ok {
		*target = te
	}
	return ok
}
