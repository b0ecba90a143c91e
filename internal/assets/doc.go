// Package assets provides the stylesheets that get inlined into converted articles.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in styles compiled in with go:embed
//	    ├── FilesystemLoader  - styles from a directory on disk
//	    └── AssetResolver     - custom-first with fallback to embedded
//
// Two styles ship with the binary: "wechat", the default article look, and
// "callout", the rules appended when a user stylesheet says nothing about
// callouts.
//
// # Directory Structure
//
//	{basePath}/
//	└── styles/
//	    └── {name}.css
//
// # Security
//
// Style names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
