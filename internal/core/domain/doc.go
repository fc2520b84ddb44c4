// Package domain defines the core business entities for Metrick.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A categorised documentation page copied into samples
//   - DocumentSample: A named, stratified selection of documents
//   - Question: An annotation question tied to a sample
//   - Annotation: A relevancy score for one question-document pair
//   - Session / SessionView: The normalised and denormalised forms of
//     an annotation session
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
