package config

// Config represents the complete editorial configuration
type Config struct {
	Feeds    []Feed            `yaml:"feeds"`
	Channels map[string]string `yaml:"channels"`
	Persona  string            `yaml:"persona"`
	CTA      string            `yaml:"call_to_action"`
}

// Feed contains a single syndication source
type Feed struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// MainChannel is the required key in the channel map that receives teasers
const MainChannel = "main"
