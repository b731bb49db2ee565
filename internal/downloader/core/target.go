package core

// Target describes a single definition file: the name it is stored under in the
// database directory and the URL it is fetched from.
type Target struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}
