// Package mcp implements the Model Context Protocol (MCP) server for ctfscope.
//
// The server exposes a deliberately small set of read-only filesystem tools
// over the protocol so an external agent has to compose primitive operations
// to explore the directory tree and locate the hidden flag.
//
// # Architecture
//
//	MCP Client (agent harness, Claude Code, Cursor, ...)
//	     |
//	     | (MCP protocol over stdio)
//	     v
//	Server (MCP SDK: framing, discovery, argument validation)
//	     |
//	     +-- list_files handler
//	     +-- explain_file handler
//	     +-- get_file handler
//	     |
//	     v
//	tools.FileTools -> security.Path -> filesystem
//
// The SDK is the protocol dispatcher: it reads framed JSON-RPC requests from
// the transport, answers tools/list discovery from the registered tool set,
// validates tools/call arguments against each tool's declared schema, and
// terminates the session on malformed framing. Registration happens once in
// NewServer; the tool set is immutable afterwards.
//
// # Error Handling
//
// Two kinds of failure are kept apart:
//
//   - Tool-level failures (path escapes, missing files, wrong kinds) come
//     back as successful protocol responses with IsError=true and a stable
//     "[CODE] message" text the agent can branch on. They never crash the
//     server.
//
//   - Protocol-level failures (unknown tool, schema-invalid arguments,
//     broken framing) are handled by the SDK and surface as JSON-RPC errors
//     or session termination.
//
// # Security
//
// Every path argument is resolved through security.Path before any I/O:
// traversal and symlink escapes are rejected with a sanitized message that
// does not reveal what lies outside the boundary.
package mcp
