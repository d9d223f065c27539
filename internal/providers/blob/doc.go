// Package blob stores uploaded source images and resolves "blob:<ulid>"
// references to the bytes behind them.
//
// Uploads are sniffed with gabriel-vasile/mimetype; only image types are
// accepted. The generation pipeline reads a reference back and sends it
// upstream as base64.
package blob
