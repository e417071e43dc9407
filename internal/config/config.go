package config

// Config собирает все настройки конвертации в одном месте.
type Config struct {
	OutputPath    string
	Device        string
	FileNumber    int
	Transform     string
	Lines         string
	ScenePath     string
	AutomateDelay float64
	Monitor       bool
	Workers       int
	BuildVersion  string
}
