package config

// AudioBackend selects where clips are played.
type AudioBackend string

const (
	// AudioRemote plays clips in the learner's browser.
	AudioRemote AudioBackend = "remote"
	// AudioNative plays clips on the host's speakers (kiosk mode).
	AudioNative AudioBackend = "native"
)

// LogMode selects the logger encoding.
type LogMode string

const (
	LogDev  LogMode = "dev"
	LogProd LogMode = "prod"
)

// Config is the top-level playdeck configuration, corresponding to .playdeck.yml.
type Config struct {
	Port            int           `yaml:"port" koanf:"port"`
	DataDir         string        `yaml:"data_dir" koanf:"data_dir"`
	Content         ContentConfig `yaml:"content" koanf:"content"`
	Audio           AudioConfig   `yaml:"audio" koanf:"audio"`
	Log             LogConfig     `yaml:"log" koanf:"log"`
	AllowAllOrigins bool          `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// ContentConfig locates the course content. An empty Dir serves the
// bundled sample course.
type ContentConfig struct {
	Dir     string   `yaml:"dir" koanf:"dir"`
	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`
}

// AudioConfig holds playback settings.
type AudioConfig struct {
	Backend    AudioBackend `yaml:"backend" koanf:"backend"`
	MediaDir   string       `yaml:"media_dir" koanf:"media_dir"`
	SampleRate int          `yaml:"sample_rate" koanf:"sample_rate"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Mode LogMode `yaml:"mode" koanf:"mode"`
}
