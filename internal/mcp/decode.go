package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// decode unmarshals MCP request arguments into a typed struct.
// Avoids unsafe type assertions and handles JSON decoding safely.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	err := decodeInto(req, &result)
	return result, err
}

// decodeInto unmarshals arguments over dst, keeping fields the caller did
// not send.
func decodeInto(req mcp.CallToolRequest, dst any) error {
	args := req.GetArguments()
	b, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("marshal args: %w", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("unmarshal args: %w", err)
	}
	return nil
}
