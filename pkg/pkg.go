// Package pkg is the root of packages that implement weft.
package pkg
