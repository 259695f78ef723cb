// Package parsers implements the response parser fallback chain.
//
// A local generative model is under no obligation to return well-formed
// output: responses arrive as clean JSON, JSON wrapped in reasoning
// monologue, JSON with trailing commas and bare keys, or free prose with
// recognisable fields buried inside. Each strategy here handles one layer
// of that degradation and implements driven.ParseStrategy, so the chain
// is explicit, orderable, and testable per strategy:
//
//  1. Strict    - the whole response is one JSON object
//  2. Reasoning - strip <think> blocks and residual tags, then strict
//  3. Balanced  - parse the outermost balanced {...} block
//  4. Repair    - fix trailing commas, bare keys and bare values, then parse
//  5. FieldScan - regexp extraction of each expected field independently
package parsers
