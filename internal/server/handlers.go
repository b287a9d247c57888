package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/label-verify/internal/imaging"
	"github.com/ironsheep/label-verify/internal/labelcheck"
	"github.com/ironsheep/label-verify/internal/verify"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "label_verify", "label_ocr").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// A label that fails verification is not an error: the Result reports it.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Verification
	case "label_verify":
		return s.handleLabelVerify(ctx, args)
	case "label_verify_text":
		return s.handleLabelVerifyText(args)

	// OCR
	case "label_ocr":
		return s.handleLabelOCR(ctx, args)

	// Helpers
	case "label_normalize":
		return s.handleLabelNormalize(args)
	case "label_warning_text":
		return s.handleLabelWarningText()

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments, treating absent arguments as {}.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Verification Handlers ===

// LabelVerifyArgs are the arguments of label_verify.
type LabelVerifyArgs struct {
	Path string `json:"path"`
	verify.DeclaredFields
}

func (s *Server) handleLabelVerify(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a LabelVerifyArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}

	return s.svc.CheckFile(ctx, a.Path, a.DeclaredFields), nil
}

// LabelVerifyTextArgs are the arguments of label_verify_text.
type LabelVerifyTextArgs struct {
	OCRText string `json:"ocr_text"`
	verify.DeclaredFields
}

func (s *Server) handleLabelVerifyText(args json.RawMessage) (interface{}, error) {
	var a LabelVerifyTextArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	return s.svc.CheckText(a.DeclaredFields, a.OCRText), nil
}

// === OCR Handlers ===

// PathArgs is the argument of tools that only take an image path.
type PathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleLabelOCR(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a PathArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}

	li, err := imaging.LoadLabel(a.Path)
	if err != nil {
		return nil, errors.New(labelcheck.UserMessage(err))
	}

	res, err := s.svc.ReadText(ctx, li.Image)
	if err != nil {
		return nil, errors.New(labelcheck.UserMessage(err))
	}
	return res, nil
}

// === Helper Handlers ===

// TextArgs is the argument of label_normalize.
type TextArgs struct {
	Text string `json:"text"`
}

// NormalizeResult is returned by label_normalize.
type NormalizeResult struct {
	Normalized string `json:"normalized"`
}

func (s *Server) handleLabelNormalize(args json.RawMessage) (interface{}, error) {
	var a TextArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return NormalizeResult{Normalized: verify.Normalize(a.Text)}, nil
}

// WarningTextResult is returned by label_warning_text.
type WarningTextResult struct {
	WarningText string `json:"warning_text"`
	Normalized  string `json:"normalized"`
}

func (s *Server) handleLabelWarningText() (interface{}, error) {
	text := s.svc.WarningText()
	return WarningTextResult{WarningText: text, Normalized: verify.Normalize(text)}, nil
}
