package cinematch

import "fmt"

// Provider identifies a hosted model provider.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Supported providers.
const (
	ProviderGoogle    Provider = "google"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// ParseProvider maps a configuration value to a Provider.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderGoogle, ProviderOpenAI, ProviderAnthropic:
		return Provider(s), nil
	case "":
		return ProviderGoogle, nil
	}
	return "", fmt.Errorf("unknown provider: %s (must be google, openai, or anthropic)", s)
}
