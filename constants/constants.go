package constants

const (
	AlgNone = "none"
	AlgSha1 = "sha1"

	ChecksumTypeSha1 = "SHA-1"

	DsIDMods = "MODS"
	DsIDObj  = "OBJ"
	DsIDTn   = "TN"

	FileNameCModel = "cmodel.txt"
	FileNameMods   = "MODS.xml"

	StateActive   = "A"
	StateInactive = "I"
	StateDeleted  = "D"

	// Control groups for Fedora datastreams. Everything we upload is
	// managed content.
	ControlGroupManaged = "M"

	DefaultNamespace    = "islandora"
	DefaultOwner        = "fedoraAdmin"
	DefaultRelationship = "isMemberOfCollection"
	DefaultSection      = "1"

	// MaxPidLength is the maximum total length of a Fedora PID,
	// including the namespace, the colon and the identifier.
	MaxPidLength = 64
)

// Namespace URIs for relationship triples.
const (
	FedoraModelNamespace    = "info:fedora/fedora-system:def/model#"
	FedoraRelsExtNamespace  = "info:fedora/fedora-system:def/relations-external#"
	IslandoraRelsNamespace  = "http://islandora.ca/ontology/relsext#"
	FedoraURIPrefix         = "info:fedora/"
)

// Relationship predicates.
const (
	RelHasModel             = "hasModel"
	RelIsConstituentOf      = "isConstituentOf"
	RelIsMemberOf           = "isMemberOf"
	RelIsMemberOfCollection = "isMemberOfCollection"
	RelIsPageNumber         = "isPageNumber"
	RelIsPageOf             = "isPageOf"
	RelIsSection            = "isSection"
	RelIsSequenceNumber     = "isSequenceNumber"
)

// ObjectStates contains the states Fedora accepts for an object.
var ObjectStates = []string{
	StateActive,
	StateInactive,
	StateDeleted,
}

// ChecksumAlgorithms contains the checksum settings this tool supports.
// Fedora supports more, but SHA-1 is the only one our repositories
// verify on ingest.
var ChecksumAlgorithms = []string{
	AlgNone,
	AlgSha1,
}

// ParentPredicates contains the predicates a caller may choose for the
// link between an ingested object and its parent collection.
var ParentPredicates = []string{
	RelIsMemberOfCollection,
	RelIsMemberOf,
	RelIsConstituentOf,
}
