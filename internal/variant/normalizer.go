// Package variant maps obsolete checkout variant identifiers to their
// current replacements and validates cart item drafts before storage.
package variant

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/volticscontent/perfumUkWifiMoney-sub001/internal/models"
)

// obsoleteVariants maps variant identifiers the checkout provider has
// superseded to their current replacements. Stale ids keep arriving from
// carts persisted before the catalog was re-published.
var obsoleteVariants = map[string]string{
	"44906222518385": "46545463509847",
	"44906222551153": "46545463542615",
	"44917882216561": "46545463575383",
	"45012183089265": "46545463608151",
	"45012183122033": "46545463640919",
}

var validate = validator.New()

// IsObsolete reports whether id is a known superseded variant identifier.
func IsObsolete(id string) bool {
	_, ok := obsoleteVariants[id]
	return ok
}

// Resolve returns the current identifier for a superseded one, or the input
// unchanged. Resolve is idempotent: resolved ids are never obsolete.
func Resolve(id string) string {
	if current, ok := obsoleteVariants[id]; ok {
		return current
	}
	return id
}

// ValidateItem turns a cart draft into a CartItem, rewriting an obsolete
// variant identifier on the way in. Only structurally invalid drafts are
// rejected; the rewrite itself never fails an item.
func ValidateItem(draft models.CartDraft) (models.CartItem, error) {
	if err := validate.Struct(&draft); err != nil {
		return models.CartItem{}, fmt.Errorf("invalid cart draft: %w", err)
	}
	if !draft.Price.Valid || draft.Price.Amount.IsNegative() {
		return models.CartItem{}, fmt.Errorf("invalid cart draft: missing or negative price")
	}

	resolved := Resolve(draft.VariantID)
	if resolved != draft.VariantID {
		logrus.WithFields(logrus.Fields{
			"product_id": draft.ID,
			"old":        draft.VariantID,
			"new":        resolved,
		}).Info("Rewrote obsolete variant identifier")
	}

	return models.CartItem{
		ID:        draft.ID,
		VariantID: resolved,
		Title:     draft.Title,
		Subtitle:  draft.Subtitle,
		Price:     draft.Price.Amount,
		Image:     draft.Image,
	}, nil
}
