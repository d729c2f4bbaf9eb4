package datasets

type DataSource struct {
	Identifier string    `yaml:"identifier" validate:"required"`
	Region     string    `yaml:"region"`
	Provider   Provider  `yaml:"provider"`
	Datasets   []DataSet `yaml:"datasets" validate:"required,dive"`

	// SourceAuthentication applies to every dataset that sets none itself.
	SourceAuthentication *SourceAuthentication `yaml:"sourceauthentication"`
}
