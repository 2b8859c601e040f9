// Package part defines the building blocks of interception rules: part
// classes, the Matcher and Handler instance interfaces, and the ordered
// registries that map keys to classes and back.
//
// Registries are immutable once built. Construction defects such as a key
// registered twice are programming errors and panic.
package part
