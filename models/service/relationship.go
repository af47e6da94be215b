package service

import (
	"fmt"

	"github.com/islandora-tools/batch-ingest-services/constants"
)

// RelationshipTriple is one subject-predicate-object statement linking
// an object to another object or to a literal value. Triples are built
// by the relationship builder, sent to the repository once, and
// discarded.
type RelationshipTriple struct {
	// SubjectPID is the PID of the object the statement is about.
	SubjectPID string `json:"subject_pid"`

	// Predicate is the unqualified predicate name, e.g. hasModel.
	Predicate string `json:"predicate"`

	// Object is the target: a PID for resource triples, a plain
	// string for literal triples.
	Object string `json:"object"`

	// Namespace is the URI of the ontology the predicate belongs to.
	Namespace string `json:"namespace"`

	// IsLiteral is true when Object is a literal value rather than
	// the URI of another object.
	IsLiteral bool `json:"is_literal"`
}

// SubjectURI returns the subject as a Fedora info: URI.
func (t *RelationshipTriple) SubjectURI() string {
	return constants.FedoraURIPrefix + t.SubjectPID
}

// PredicateURI returns the fully qualified predicate.
func (t *RelationshipTriple) PredicateURI() string {
	return t.Namespace + t.Predicate
}

// ObjectValue returns the triple's object: literals unchanged, PIDs as
// Fedora info: URIs.
func (t *RelationshipTriple) ObjectValue() string {
	if t.IsLiteral {
		return t.Object
	}
	return constants.FedoraURIPrefix + t.Object
}

func (t *RelationshipTriple) String() string {
	return fmt.Sprintf("<%s> <%s> %q", t.SubjectURI(), t.PredicateURI(), t.ObjectValue())
}
