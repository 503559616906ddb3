// Package service provides the tool provider registry.
//
// The registry maintains a catalog of providers and handles discovery,
// relevance scoring against free-text queries, and tool execution by
// dotted tool ID ("service.tool").
package service
