// Package pipeline implements the Markdown to inline-styled HTML pipeline.
//
// Stages, each consuming the previous stage's output:
//   - Markdown preprocessing: line endings, ==highlight==, ![[embed]] normalization
//   - Markdown to HTML fragment via Goldmark (raw HTML kept, code highlighted inline)
//   - Optional sanitizing of raw HTML via bluemonday
//   - Callout transformation: > [!type] quote blocks become themed tables
//   - Image embedding: local <img> sources become base64 data URIs
//   - CSS inlining: stylesheet rules are flattened into style attributes
//
// Every stage works on an HTML string. Stages that need a tree parse the
// fragment with golang.org/x/net/html, mutate it, and render it back, so no
// tree is shared between stages.
package pipeline
