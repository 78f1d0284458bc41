// Package modules loads project command modules from .commando.
//
// A module is a single Go file interpreted with yaegi. It declares
// package main and exports
//
//	func Run(args []string) error
//
// and optionally
//
//	var Description = "one line shown in help"
//
// Modules must not declare func main. The file name, minus .go, is the
// command name. Imports outside the standard library resolve against the
// shared dependency tree (<deps>/src/<import path>), never the project.
//
// Modules are never loaded from their project path. LoadProject makes
// sure the project's link exists and hands the loader the path seen
// through it.
package modules
