// Package file provides a filesystem session store: one JSON file per
// identity, written atomically.
package file
