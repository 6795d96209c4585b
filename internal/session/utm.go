package session

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/kvstore"
)

// utmKeys are the recognized attribution parameters. Anything else in the
// query string is ignored.
var utmKeys = []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content"}

// CaptureUTM extracts attribution parameters from a URL query. Absent or
// empty parameters are omitted entirely; absence means "not set", never an
// empty string placeholder.
func CaptureUTM(query url.Values) map[string]string {
	params := make(map[string]string)
	for _, key := range utmKeys {
		if v := query.Get(key); v != "" {
			params[key] = v
		}
	}
	return params
}

// Preference is a per-campaign filter/sort preference persisted in the
// durable store.
type Preference struct {
	Sort    string   `json:"sort"`
	Filters []string `json:"filters,omitempty"`
}

// PreferenceKey builds the durable-store key for campaign preferences.
func PreferenceKey(storeID, campaign, source string) string {
	return fmt.Sprintf("%s_%s_%s", storeID, campaign, source)
}

// SavePreference persists the preference; failures are logged, never fatal.
func SavePreference(store kvstore.Store, key string, pref Preference) {
	data, err := json.Marshal(pref)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to marshal preference")
		return
	}
	if err := store.Set(key, data); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Failed to persist preference")
	}
}

// LoadPreference returns the stored preference for the key. Missing or
// corrupt values degrade to "not set".
func LoadPreference(store kvstore.Store, key string) (Preference, bool) {
	raw, ok := store.Get(key)
	if !ok {
		return Preference{}, false
	}
	var pref Preference
	if err := json.Unmarshal(raw, &pref); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Discarding corrupt stored preference")
		return Preference{}, false
	}
	return pref, true
}
