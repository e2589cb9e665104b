// Package infra contains technical adapters such as the refinement HTTP
// client, metrics exporters and the history store. These packages should
// depend only on the interfaces defined in the core packages.
package infra
