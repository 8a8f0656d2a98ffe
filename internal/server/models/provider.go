package models

// APIKeyField is the settings field holding a provider's credential.
const APIKeyField = "api_key"

// ProviderSettings is one provider's configuration record. Besides api_key
// the fields are opaque to the server and flow through unchanged, which keeps
// the format forward-compatible with new providers.
type ProviderSettings map[string]any

// APIKey returns the credential stored in the record, or "" if absent or not
// a string.
func (s ProviderSettings) APIKey() string {
	v, _ := s[APIKeyField].(string)
	return v
}

// Clone returns a shallow copy of the record. Values are opaque JSON scalars
// or structures owned by the caller; only the top-level map is copied because
// the merge rules operate per-field.
func (s ProviderSettings) Clone() ProviderSettings {
	out := make(ProviderSettings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// ProviderConfig maps a provider name to its settings record. One logical
// document per tenant.
type ProviderConfig map[string]ProviderSettings

// Clone returns a copy of the config with every record cloned.
func (c ProviderConfig) Clone() ProviderConfig {
	out := make(ProviderConfig, len(c))
	for name, settings := range c {
		out[name] = settings.Clone()
	}
	return out
}
