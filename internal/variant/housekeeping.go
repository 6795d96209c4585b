package variant

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/kvstore"
)

// RewriteStore scans every value in the store and rewrites obsolete variant
// identifiers wherever they appear, at any depth and under any key. It runs
// once at startup, is idempotent, and skips values it cannot parse. Returns
// the number of rewritten entries.
func RewriteStore(store kvstore.Store) int {
	rewritten := 0
	for _, key := range store.Keys() {
		raw, ok := store.Get(key)
		if !ok {
			continue
		}

		var value interface{}
		if err := json.Unmarshal(raw, &value); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("Skipping unparseable stored value")
			continue
		}

		updated, changed := rewriteValue(value)
		if !changed {
			continue
		}

		out, err := json.Marshal(updated)
		if err != nil {
			logrus.WithError(err).WithField("key", key).Error("Failed to re-encode stored value")
			continue
		}
		if err := store.Set(key, out); err != nil {
			logrus.WithError(err).WithField("key", key).Error("Failed to persist rewritten value")
			continue
		}

		logrus.WithField("key", key).Info("Rewrote obsolete variant identifiers in stored value")
		rewritten++
	}
	return rewritten
}

func rewriteValue(value interface{}) (interface{}, bool) {
	switch v := value.(type) {
	case string:
		if IsObsolete(v) {
			return Resolve(v), true
		}
		return v, false
	case map[string]interface{}:
		changed := false
		for k, elem := range v {
			updated, c := rewriteValue(elem)
			if c {
				v[k] = updated
				changed = true
			}
		}
		return v, changed
	case []interface{}:
		changed := false
		for i, elem := range v {
			updated, c := rewriteValue(elem)
			if c {
				v[i] = updated
				changed = true
			}
		}
		return v, changed
	default:
		return value, false
	}
}
