// Package prompt collects form submissions from a terminal using survey/v2.
package prompt
