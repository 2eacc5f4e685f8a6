package normalizer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// idNamespace scopes the v5 UUIDs this package derives. IDs are a pure
// function of the job context and structural path, so normalizing the same
// inputs twice yields identical documents.
var idNamespace = uuid.MustParse("8f3c1b6e-2a54-4c8e-9d17-6f0b4a5e9c21")

// DocumentID derives the stable document id for a job context. The engine
// uses it too, so a document minted empty and one minted by normalization
// carry the same id for the same context.
func DocumentID(jobContextID string) string {
	return deterministicID(jobContextID, "document")
}

func itemID(jobContextID, kind string, index int) string {
	return deterministicID(jobContextID, kind, fmt.Sprintf("%d", index))
}

func bulletID(jobContextID string, expIndex, bulletIndex int) string {
	return deterministicID(jobContextID, "experience", fmt.Sprintf("%d", expIndex), "bullet", fmt.Sprintf("%d", bulletIndex))
}

func deterministicID(parts ...string) string {
	return uuid.NewSHA1(idNamespace, []byte(strings.Join(parts, "/"))).String()
}
