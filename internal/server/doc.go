// Package server implements an MCP (Model Context Protocol) server that
// exposes the line preprocessing pipeline as tools.
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
//   - line_load: Load a line image and report its metadata
//   - line_illumination: Level uneven lighting and report the background level
//   - line_binarize: Otsu or Sauvola mask, automatic or forced
//   - line_deslant: Search the shear candidates and return the restored line
//   - line_preprocess: Run the full pipeline and describe the feature sequence
//   - line_ocr: Recognize the text of a line, optionally after restoration
//
// Tools that return images encode them as base64 PNG. An optional scale
// argument resizes the returned image with Lanczos resampling; the analysis
// itself always runs at the original resolution.
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the process and
// shared with the pipeline, so consecutive tool calls on the same line decode
// it once.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or -32602 (malformed params)
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	p, err := pipeline.New(cfg.Pipeline, logger)
//	if err != nil {
//	    return err
//	}
//	return server.New(p, logger).Run()
package server
