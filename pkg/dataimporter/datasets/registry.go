package datasets

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

var ErrDatasetNotFound = errors.New("dataset could not be found")

// Registry holds every dataset declared by the data source files.
type Registry struct {
	datasets map[string]DataSet
}

// NewRegistry validates the data sources and flattens their datasets. A
// dataset identifier becomes "<source>-<dataset>".
func NewRegistry(sources ...DataSource) (*Registry, error) {
	validate := validator.New()
	registry := &Registry{datasets: map[string]DataSet{}}

	for _, source := range sources {
		if err := validate.Struct(source); err != nil {
			return nil, fmt.Errorf("data source %q: %w", source.Identifier, err)
		}

		for _, dataset := range source.Datasets {
			dataset.Identifier = fmt.Sprintf("%s-%s", source.Identifier, dataset.Identifier)
			dataset.DataSourceRef = source.Identifier

			if dataset.Provider == (Provider{}) {
				dataset.Provider = source.Provider
			}
			if dataset.SourceAuthentication.IsZero() && source.SourceAuthentication != nil {
				dataset.SourceAuthentication = *source.SourceAuthentication
			}

			if _, exists := registry.datasets[dataset.Identifier]; exists {
				return nil, fmt.Errorf("duplicate dataset %q", dataset.Identifier)
			}
			registry.datasets[dataset.Identifier] = dataset
		}
	}

	return registry, nil
}

// LoadDirectory reads every .yaml file below dir. A file may hold several
// data source documents.
func LoadDirectory(dir string) (*Registry, error) {
	var sources []DataSource

	err := filepath.Walk(dir,
		func(path string, fileInfo os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if fileInfo.IsDir() || filepath.Ext(path) != ".yaml" {
				return nil
			}

			log.Debug().Str("path", path).Msg("Loading data source file")

			sourceYaml, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			decoded, err := Decode(bytes.NewReader(sourceYaml))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			sources = append(sources, decoded...)

			return nil
		})
	if err != nil {
		return nil, err
	}

	return NewRegistry(sources...)
}

// Decode reads a stream of yaml data source documents.
func Decode(reader io.Reader) ([]DataSource, error) {
	var sources []DataSource

	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	for {
		var source DataSource
		err := decoder.Decode(&source)
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}

		sources = append(sources, source)
	}

	return sources, nil
}

func (r *Registry) Get(identifier string) (DataSet, error) {
	dataset, ok := r.datasets[identifier]
	if !ok {
		return DataSet{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, identifier)
	}

	return dataset, nil
}

// Identifiers lists the registered datasets in sorted order.
func (r *Registry) Identifiers() []string {
	identifiers := make([]string, 0, len(r.datasets))
	for identifier := range r.datasets {
		identifiers = append(identifiers, identifier)
	}
	slices.Sort(identifiers)

	return identifiers
}

func (r *Registry) All() []DataSet {
	identifiers := r.Identifiers()
	all := make([]DataSet, 0, len(identifiers))
	for _, identifier := range identifiers {
		all = append(all, r.datasets[identifier])
	}

	return all
}
