// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the pipeline to function:
//
//   - ModelGateway: Lifecycle-managed access to the generative-model service
//   - TextExtractor: Raw text extraction from a source file
//   - ParseStrategy: One step of the response parser fallback chain
//   - StateStore: Paired record/manifest persistence
//   - SiteExporter: The documents.json collection consumed downstream
//   - RunLock: Mutual exclusion across pipeline runs
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or parser package
package driven
