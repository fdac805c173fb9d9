// Package onyxtypes defines the core data structures and interfaces shared across Onyx.
//
// Onyx turns a user's chat message into a structured request for an AI model and turns
// the model's tagged reply back into something a chat UI can show. The types in this
// package are the contract between those stages.
//
// # Package Organization
//
// ## Trigger Types (trigger_types.go)
//
//   - Category: the nine fixed trigger categories
//   - TriggerDefinition: one registry entry, built-in or custom
//   - DetectedTrigger: a per-request detection result
//
// ## Response Types (response_types.go)
//
//   - TaggedSegment: a named working section extracted from a reply
//   - ParseResult: clean answer text plus its tagged segments
//
// ## Memory Types (memory_types.go)
//
//   - MemoryItem, MemoryContext: internal context appended to directives
//
// ## Core Interfaces (core_interfaces.go)
//
//   - KVStore: the persistence collaborator injected into the registry
//   - Service: lifecycle contract for the service registry
//   - LLMClient: completion transport used by the CLI
//
// ## Errors (errors.go)
//
//   - DuplicateTriggerError, ImportParseError and their sentinels
package onyxtypes
