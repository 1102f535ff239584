// id.go — Random tokens for namespacing SVG definitions.
package card

import (
	"strings"

	"github.com/google/uuid"
)

// IDLength is the number of characters returned by NewID.
const IDLength = 16

// idPrefix makes every token a valid XML Name, which must not start with a digit.
const idPrefix = "c"

// NewID returns a random token of a letter followed by lowercase hex. It is
// used for clip-path ids so that several cards embedded in one page never
// share a definition.
func NewID() string {
	return idPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:IDLength-len(idPrefix)]
}
