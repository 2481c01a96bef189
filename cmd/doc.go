// Package cmd contains the command-line utilities of themeval and the code they share, such as loading the
// reference store, the taxonomy and prediction files from disk.
package cmd
