// Package color provides terminal color theming for mcprouter's CLI output.
//
// Colors are organized into semantic categories:
//   - Success: positive states (connected, tool call succeeded)
//   - Warning: caution states (stale cache, degraded upstream)
//   - Error: failure states (unreachable upstream, failed call)
//   - Info: informational elements (endpoints, counts)
//   - Muted: de-emphasized text (descriptions, reasons)
//
// All styles adapt to the detected terminal background. Call Initialize once
// at startup to pin dark or light mode for the rest of the process.
package color
