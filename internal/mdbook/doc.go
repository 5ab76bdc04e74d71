// Package mdbook serves the mdbook-based documentation sites locally.
//
// Serving a site is a fixed sequence of external tool invocations:
//
//  1. verify the book directory and the mdbook binary exist
//  2. for Pan Docs only: create or refresh the Python virtual environment
//     its preprocessors need, and build its Rust preprocessors with cargo
//  3. find a free port, starting from the site's preferred port
//  4. run `mdbook serve --port <port> --open <dir>` until the user stops it
//
// Each step fails fast with a model.CLIError carrying the matching exit code.
package mdbook
