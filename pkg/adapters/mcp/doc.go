// Package mcp exposes the sales assistant as a Model Context Protocol server.
//
// Tools: send_message, reset_session and get_flow. Resource: tendero://flow,
// the Mermaid diagram of the flow.
package mcp
