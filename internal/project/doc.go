// Package project finds the root of the active commando project.
//
// A project root is any directory containing a .commando subdirectory.
// Locate tries, in order:
//
//  1. an explicit root (the --root flag), used without validation
//  2. an environment override (COMMANDO_PROJECT), which must contain
//     .commando or Locate fails with ErrInvalidOverride
//  3. an upward search from the start directory to the filesystem root
//
// Finding nothing is not an error; the framework then runs without a
// project.
package project
