package diary

// Names of the credentials held by the surrounding application.
const (
	SecretAIAPIKey   = "ai-api-key"
	SecretTTSAPIKey  = "tts-api-key"
	SecretMurfAPIKey = "murf-api-key"
)

// SecretStore keeps API credentials outside the diary database. It is
// injected by the application; the store never looks credentials up itself.
type SecretStore interface {
	// Get returns the value stored under name. ok is false when nothing (or
	// an empty value) is stored.
	Get(name string) (value string, ok bool, err error)

	// Set stores value under name, replacing any previous value.
	Set(name, value string) error

	// Delete removes name. Deleting a missing name is not an error.
	Delete(name string) error
}
