// Package server runs the development server's HTTP listener and shuts it
// down gracefully when its context ends.
package server
