package ingest

import (
	"github.com/islandora-tools/batch-ingest-services/constants"
	"github.com/islandora-tools/batch-ingest-services/models/service"
	"github.com/islandora-tools/batch-ingest-services/util"
)

// Relationship building is pure: these functions map an object's role
// in the hierarchy to the ordered triples it needs. No network calls
// happen here.

// ObjectTriples returns the triples every object gets: its
// content-model triple followed by its parent-membership triple. The
// content-model triple is always first because derivative generation
// downstream depends on the model being set before any content
// arrives.
func ObjectTriples(spec *service.ObjectSpec, parentPID, predicate string) []*service.RelationshipTriple {
	triples := []*service.RelationshipTriple{
		{
			SubjectPID: spec.PID,
			Predicate:  constants.RelHasModel,
			Object:     spec.ContentModel,
			Namespace:  constants.FedoraModelNamespace,
		},
	}
	if parentPID != "" {
		triples = append(triples, &service.RelationshipTriple{
			SubjectPID: spec.PID,
			Predicate:  predicate,
			Object:     parentPID,
			Namespace:  constants.FedoraRelsExtNamespace,
		})
	}
	return triples
}

// PageTriples returns the structural triples for a page of a book or
// newspaper issue: isPageOf, plus sequence, page and section literals.
// The sequence value is derived from the page's directory name
// (typically zero-padded numeric), with the one-based sort position as
// the fallback for non-numeric names.
func PageTriples(pagePID, compositePID, dirName string, position int, section string) []*service.RelationshipTriple {
	sequence := util.SequenceFromName(dirName, position)
	if section == "" {
		section = constants.DefaultSection
	}
	return []*service.RelationshipTriple{
		{
			SubjectPID: pagePID,
			Predicate:  constants.RelIsPageOf,
			Object:     compositePID,
			Namespace:  constants.IslandoraRelsNamespace,
		},
		{
			SubjectPID: pagePID,
			Predicate:  constants.RelIsSequenceNumber,
			Object:     sequence,
			Namespace:  constants.IslandoraRelsNamespace,
			IsLiteral:  true,
		},
		{
			SubjectPID: pagePID,
			Predicate:  constants.RelIsPageNumber,
			Object:     sequence,
			Namespace:  constants.IslandoraRelsNamespace,
			IsLiteral:  true,
		},
		{
			SubjectPID: pagePID,
			Predicate:  constants.RelIsSection,
			Object:     section,
			Namespace:  constants.IslandoraRelsNamespace,
			IsLiteral:  true,
		},
	}
}

// ConstituentTriples returns the extra triples for a constituent of a
// compound object: just the sequence literal. The membership edge
// itself (isConstituentOf) is the constituent's parent-membership
// triple, so it is not repeated here.
func ConstituentTriples(childPID, dirName string, position int) []*service.RelationshipTriple {
	return []*service.RelationshipTriple{
		{
			SubjectPID: childPID,
			Predicate:  constants.RelIsSequenceNumber,
			Object:     util.SequenceFromName(dirName, position),
			Namespace:  constants.IslandoraRelsNamespace,
			IsLiteral:  true,
		},
	}
}
