package constants

const (
	Version        = `0.1.0`
	AppName        = `scenecat`
	ConfigFile     = `cfg`
	ConfigFileType = `yaml`
	ConfigDir      = `/.scenecat/`
)
