// Package server implements the MCP (Model Context Protocol) server for label
// verification.
//
// The server exposes the label check service as MCP tools so an assistant
// can verify a label photo against the fields declared for it.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Verification:
//   - label_verify: OCR a label photo and run the five checks
//   - label_verify_text: Run the five checks on already-extracted text
//
// OCR:
//   - label_ocr: Return the text read from a label photo
//
// Helpers:
//   - label_normalize: Show the normalized form of some text
//   - label_warning_text: Return the required government warning
//
// # Error Handling
//
// A label that does not match is a normal result with overall_status
// "failure". When the photo cannot be read, label_verify still returns a
// result, with no checks and the user-facing message in "error".
//
// Malformed requests and unusable tool arguments are returned as JSON-RPC
// error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(svc, logger, version)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
