package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	goerrors "github.com/go-errors/errors"
	"github.com/hscells/themeval/config"
	"github.com/hscells/themeval/prediction"
	"github.com/hscells/themeval/reference"
	"github.com/hscells/themeval/taxonomy"
	"github.com/pkg/errors"
)

// Settings loads the configuration from the per-user file and the file at path, if any, then applies the
// options given on the command line.
func Settings(path string, options ...config.Option) (config.Config, error) {
	var files []string
	if len(path) > 0 {
		files = append(files, path)
	}
	c, err := config.Load(files...)
	if err != nil {
		return config.Config{}, err
	}
	return c.With(options...)
}

// LoadReference loads the reference store, going through the decode cache in cacheDir when one is given.
func LoadReference(path, cacheDir string) (*reference.Store, error) {
	if len(cacheDir) == 0 {
		return reference.Load(path)
	}
	return reference.NewCache(cacheDir).Load(path)
}

// LoadTaxonomy loads the taxonomy resource files in dir. An empty dir means no taxonomy, and nil is returned.
func LoadTaxonomy(dir string) (*taxonomy.Taxonomy, error) {
	if len(dir) == 0 {
		return nil, nil
	}
	return taxonomy.Load(dir)
}

// PredictionFile is used to communicate a loaded prediction file over a channel.
type PredictionFile struct {
	Path        string
	Predictions *prediction.Set
	Error       error
}

// LoadPredictionFiles loads prediction files one after the other, sending each down c in the order given. The
// channel is closed after the last file, or after the first file that fails to load.
func LoadPredictionFiles(paths []string, c chan PredictionFile) {
	defer close(c)
	for _, path := range paths {
		s, err := prediction.Load(path)
		if err != nil {
			c <- PredictionFile{Path: path, Error: err}
			return
		}
		c <- PredictionFile{Path: path, Predictions: s}
	}
}

// Report logs err to w. With debug set the stack of err is printed first.
func Report(w io.Writer, err error, debug bool) {
	if debug {
		fmt.Fprintln(w, goerrors.Wrap(err, 0).ErrorStack())
	}
	logger := log.New(w, "", log.LstdFlags)
	var alignment *reference.AlignmentError
	if errors.As(err, &alignment) {
		logger.Println("alignment failed, nothing was evaluated")
	}
	logger.Println(err)
}

// Fatal reports err on stderr and exits with status 1.
func Fatal(err error, debug bool) {
	Report(os.Stderr, err, debug)
	os.Exit(1)
}
