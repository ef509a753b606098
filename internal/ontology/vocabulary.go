package ontology

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// RelationshipRule documents one permitted edge direction.
type RelationshipRule struct {
	From EntityType
	Type string
	To   EntityType
}

// RelationshipDirections is the direction vocabulary given to the proposer.
var RelationshipDirections = []RelationshipRule{
	{EntityOrganization, "HAS_DEPARTMENT", EntityDepartment},
	{EntityDepartment, "CONTAINS", EntityRole},
	{EntityRole, "WORKS_IN", EntityDepartment},
	{EntityRole, "RESPONSIBLE_FOR", EntityProcess},
	{EntityProcess, "REQUIRES", EntityResource},
	{EntityDepartment, "LOCATED_IN", EntityLocation},
}

// RelationshipsBySource lists the edge types each source type may emit.
var RelationshipsBySource = map[EntityType][]string{
	EntityOrganization: {"HAS_DEPARTMENT", "LOCATED_IN", "SERVES", "MEASURES"},
	EntityDepartment:   {"CONTAINS", "EXECUTES", "LOCATED_IN"},
	EntityRole:         {"WORKS_IN", "RESPONSIBLE_FOR"},
	EntityProcess:      {"REQUIRES", "PRODUCES"},
	EntityResource:     {"USED_BY"},
	EntityProduct:      {"SOLD_TO"},
	EntityLocation:     {"CONTAINS"},
}

// Summary renders the ontology rules as plain text for model prompts.
func Summary() string {
	var b strings.Builder
	b.WriteString("Entity types: ")
	b.WriteString(EntityTypeNames())
	b.WriteString("\nRelationship types by source entity:\n")
	for _, t := range EntityTypes {
		rels, ok := RelationshipsBySource[t]
		if !ok {
			continue
		}
		b.WriteString("  ")
		b.WriteString(string(t))
		b.WriteString(": ")
		b.WriteString(strings.Join(rels, ", "))
		b.WriteString("\n")
	}
	return b.String()
}

// Fingerprint returns the cache key for an observation: the SHA-256 of its
// lower-cased, whitespace-trimmed text.
func Fingerprint(observation string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(observation))))
	return hex.EncodeToString(sum[:])
}

var (
	labelUnsafe        = regexp.MustCompile(`[^A-Za-z0-9]`)
	relationshipUnsafe = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// SafeLabel strips an entity type down to a Cypher-safe node label.
func SafeLabel(t EntityType) string {
	label := labelUnsafe.ReplaceAllString(string(t), "")
	if label == "" {
		return "Unknown"
	}
	return label
}

// SafeRelationshipType normalizes a relationship type for use in Cypher.
func SafeRelationshipType(t string) string {
	return strings.ToUpper(relationshipUnsafe.ReplaceAllString(t, "_"))
}
