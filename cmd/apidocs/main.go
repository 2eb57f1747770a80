// Package main is the entry point for apidocs, the Monada API reference server.
package main

func main() {
	Execute()
}
