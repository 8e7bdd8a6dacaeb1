package main

import "github.com/atotto/clipboard"

// Swappable in tests; clipboard access needs a display server.
var (
	readClipboard  = clipboard.ReadAll
	writeClipboard = clipboard.WriteAll
)
