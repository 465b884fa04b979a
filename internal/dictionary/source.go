package dictionary

import "strings"

const (
	// DefaultPath is used when neither an override nor a configured path is set.
	DefaultPath = "dictionaries/ipadic.dict"
	// EnvPath is the environment variable honoured by the configuration layer.
	EnvPath = "READMAKER_DIC_PATH"
)

// ResolvePath picks the dictionary path to load. A non-empty override wins,
// then fallback, then DefaultPath. The file is not checked for existence;
// that failure belongs to Load.
func ResolvePath(override, fallback string) string {
	if p := strings.TrimSpace(override); p != "" {
		return p
	}
	if p := strings.TrimSpace(fallback); p != "" {
		return p
	}
	return DefaultPath
}
