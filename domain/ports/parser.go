package ports

// ConfigParser decodes a raw configuration document (YAML) into out.
type ConfigParser interface {
	// Parse unmarshals data into the struct pointed to by out.
	Parse(data []byte, out any) error
}
