// Package httpdef declares the HTTP rule parts: the matcher and handler
// types, their keys, and the part classes that construct them.
//
// Classes are package-level values. Matchers and Handlers list them in the
// order a rule editor presents them.
package httpdef
